package social

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	infradb "github.com/AbdulBaasithere/socializeNotion/internal/infra/db"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// Like records a like and bumps the post counter once. Liking a post
// already liked is a no-op; the existing row is read under a row lock so
// concurrent likes of the same pair move the counter exactly once.
func (e *Engine) Like(ctx context.Context, userID, postID uint) (*models.Post, error) {
	var post models.Post
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		err := infradb.LockForUpdate(tx).First(&post, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post %d not found", postID)
		}
		if err != nil {
			return err
		}

		var existing models.Like
		err = infradb.LockForUpdate(tx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		post.LikesCount++
		return tx.Model(&post).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Unlike removes the like and rolls the counter back. Unliking a post
// never liked is reported, not ignored.
func (e *Engine) Unlike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	var post models.Post
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		err := infradb.LockForUpdate(tx).First(&post, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post %d not found", postID)
		}
		if err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("post %d is not liked", postID)
		}
		post.LikesCount--
		return tx.Model(&post).
			Update("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleLike flips the viewer's like state and reports the new state.
func (e *Engine) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, bool, error) {
	var post models.Post
	var liked bool
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		err := infradb.LockForUpdate(tx).First(&post, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post %d not found", postID)
		}
		if err != nil {
			return err
		}

		var existing models.Like
		err = infradb.LockForUpdate(tx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			liked = false
			post.LikesCount--
			return tx.Model(&post).
				Update("likes_count", gorm.Expr("likes_count - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
				return err
			}
			liked = true
			post.LikesCount++
			return tx.Model(&post).
				Update("likes_count", gorm.Expr("likes_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}
	return &post, liked, nil
}

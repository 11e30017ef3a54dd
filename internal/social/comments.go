package social

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// CommentView pairs a comment with its author.
type CommentView struct {
	models.Comment
	Author models.UserBrief `json:"author"`
}

// AddComment appends a comment and bumps the post's comments_count in the
// same transaction.
func (e *Engine) AddComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	comment := &models.Comment{UserID: userID, PostID: postID, Content: content}
	err := e.runTx(ctx, func(tx *gorm.DB) error {
		var post models.Post
		err := tx.First(&post, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post %d not found", postID)
		}
		if err != nil {
			return err
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&post).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. The comment's author and the post's
// author may both delete it.
func (e *Engine) DeleteComment(ctx context.Context, commentID, userID uint) error {
	return e.runTx(ctx, func(tx *gorm.DB) error {
		var comment models.Comment
		err := tx.First(&comment, commentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("comment %d not found", commentID)
		}
		if err != nil {
			return err
		}

		var post models.Post
		if err := tx.First(&post, comment.PostID).Error; err != nil {
			return err
		}
		if comment.UserID != userID && post.AuthorID != userID {
			return apperr.Forbidden("cannot delete comment %d", commentID)
		}

		if err := tx.Delete(&models.Comment{}, commentID).Error; err != nil {
			return err
		}
		return tx.Model(&post).
			Update("comments_count", gorm.Expr("comments_count - 1")).Error
	})
}

// ListComments returns a post's comments, oldest first, with authors
// attached in one batch query.
func (e *Engine) ListComments(ctx context.Context, postID uint, page int) ([]CommentView, bool, error) {
	var post models.Post
	err := e.db.WithContext(ctx).First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.NotFound("post %d not found", postID)
	}
	if err != nil {
		return nil, false, err
	}

	limit, offset := e.page(page)
	var comments []models.Comment
	err = e.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Limit(limit + 1).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}
	if len(comments) == 0 {
		return []CommentView{}, hasMore, nil
	}

	authorIDs := make([]uint, 0, len(comments))
	seen := make(map[uint]bool, len(comments))
	for i := range comments {
		if !seen[comments[i].UserID] {
			seen[comments[i].UserID] = true
			authorIDs = append(authorIDs, comments[i].UserID)
		}
	}
	var authors []models.User
	if err := e.db.WithContext(ctx).Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, false, err
	}
	byID := make(map[uint]models.UserBrief, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i].Brief(false)
	}

	views := make([]CommentView, len(comments))
	for i := range comments {
		views[i] = CommentView{Comment: comments[i], Author: byID[comments[i].UserID]}
	}
	return views, hasMore, nil
}

package social

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	infradb "github.com/AbdulBaasithere/socializeNotion/internal/infra/db"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// Follow creates a follow edge from followerID to followeeID and moves
// both counters with it. Re-following is a no-op: the edge row is checked
// under a row lock inside the transaction, so two concurrent follows of
// the same pair still count exactly once.
func (e *Engine) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return apperr.InvalidArgument("cannot follow yourself")
	}
	if _, err := e.findUser(ctx, followeeID); err != nil {
		return err
	}

	return e.runTx(ctx, func(tx *gorm.DB) error {
		var existing models.Follow
		err := infradb.LockForUpdate(tx).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}
		if err := bumpUserCounter(tx, followerID, "following_count", +1); err != nil {
			return err
		}
		return bumpUserCounter(tx, followeeID, "follower_count", +1)
	})
}

// Unfollow removes the edge and rolls both counters back. Unfollowing
// someone not followed is reported, not ignored.
func (e *Engine) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	return e.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("not following user %d", followeeID)
		}
		if err := bumpUserCounter(tx, followerID, "following_count", -1); err != nil {
			return err
		}
		return bumpUserCounter(tx, followeeID, "follower_count", -1)
	})
}

// IsFollowing reports whether an edge exists.
func (e *Engine) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// Followers lists the users following userID, newest edge first, annotated
// with whether the viewer follows each of them back.
func (e *Engine) Followers(ctx context.Context, userID, viewerID uint, page int) ([]models.UserBrief, bool, error) {
	return e.edgeListing(ctx, userID, viewerID, page, "followee_id", "follower_id")
}

// Following lists the users userID follows, newest edge first.
func (e *Engine) Following(ctx context.Context, userID, viewerID uint, page int) ([]models.UserBrief, bool, error) {
	return e.edgeListing(ctx, userID, viewerID, page, "follower_id", "followee_id")
}

func (e *Engine) edgeListing(ctx context.Context, userID, viewerID uint, page int, anchor, pick string) ([]models.UserBrief, bool, error) {
	if _, err := e.findUser(ctx, userID); err != nil {
		return nil, false, err
	}
	limit, offset := e.page(page)

	var ids []uint
	err := e.db.WithContext(ctx).Model(&models.Follow{}).
		Where(anchor+" = ?", userID).
		Order("created_at DESC").
		Limit(limit + 1).
		Offset(offset).
		Pluck(pick, &ids).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(ids) > limit
	if hasMore {
		ids = ids[:limit]
	}
	briefs, err := e.briefsInOrder(ctx, ids, viewerID)
	return briefs, hasMore, err
}

// briefsInOrder loads user briefs preserving the order of ids.
func (e *Engine) briefsInOrder(ctx context.Context, ids []uint, viewerID uint) ([]models.UserBrief, error) {
	if len(ids) == 0 {
		return []models.UserBrief{}, nil
	}
	var users []models.User
	if err := e.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	followed, err := e.followedIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	briefs := make([]models.UserBrief, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		briefs = append(briefs, u.Brief(followed[id]))
	}
	return briefs, nil
}

func bumpUserCounter(tx *gorm.DB, userID uint, column string, delta int) error {
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
}

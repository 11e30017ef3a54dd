package social

import (
	"context"
	"strings"

	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// Discover suggests accounts the viewer does not follow yet, most followed
// first. Ties break on id ascending so pages stay stable between requests.
func (e *Engine) Discover(ctx context.Context, viewerID uint, page int) ([]models.UserBrief, bool, error) {
	limit, offset := e.page(page)

	var users []models.User
	err := e.db.WithContext(ctx).
		Where("id != ?", viewerID).
		Where("id NOT IN (?)",
			e.db.Model(&models.Follow{}).
				Select("followee_id").
				Where("follower_id = ?", viewerID),
		).
		Order("follower_count DESC, id ASC").
		Limit(limit + 1).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(users) > limit
	if hasMore {
		users = users[:limit]
	}

	// Everything returned is by construction unfollowed.
	briefs := make([]models.UserBrief, len(users))
	for i := range users {
		briefs[i] = users[i].Brief(false)
	}
	return briefs, hasMore, nil
}

// SearchUsers matches the term against usernames and bios, case
// insensitively, annotating each hit with the viewer's follow state.
func (e *Engine) SearchUsers(ctx context.Context, viewerID uint, term string, page int) ([]models.UserBrief, bool, error) {
	limit, offset := e.page(page)
	pattern := "%" + strings.ToLower(term) + "%"

	var users []models.User
	err := e.db.WithContext(ctx).
		Where("id != ?", viewerID).
		Where("LOWER(username) LIKE ? OR LOWER(bio) LIKE ?", pattern, pattern).
		Order("follower_count DESC, id ASC").
		Limit(limit + 1).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(users) > limit
	if hasMore {
		users = users[:limit]
	}

	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	followed, err := e.followedIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, false, err
	}

	briefs := make([]models.UserBrief, len(users))
	for i := range users {
		briefs[i] = users[i].Brief(followed[users[i].ID])
	}
	return briefs, hasMore, nil
}

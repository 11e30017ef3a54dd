package social

import (
	"context"

	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// Feed returns the viewer's home timeline: their own posts and those of
// everyone they follow, newest first. Ties on created_at break on id
// descending so pagination never skips or repeats a post.
func (e *Engine) Feed(ctx context.Context, viewerID uint, page int) ([]models.FeedPost, bool, error) {
	limit, offset := e.page(page)

	var posts []models.Post
	err := e.db.WithContext(ctx).
		Where("author_id = ? OR author_id IN (?)",
			viewerID,
			e.db.Model(&models.Follow{}).
				Select("followee_id").
				Where("follower_id = ?", viewerID),
		).
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}
	views, err := e.annotatePosts(ctx, posts, viewerID)
	return views, hasMore, err
}

package social

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	infradb "github.com/AbdulBaasithere/socializeNotion/internal/infra/db"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// CreatePost validates the content-type contract: text posts need a
// caption, photo and video posts need a media URL.
func (e *Engine) CreatePost(ctx context.Context, authorID uint, contentType, caption, mediaURL string) (*models.Post, error) {
	switch contentType {
	case models.ContentTypeText:
		if caption == "" {
			return nil, apperr.InvalidArgument("text posts require a caption")
		}
	case models.ContentTypePhoto, models.ContentTypeVideo:
		if mediaURL == "" {
			return nil, apperr.InvalidArgument("%s posts require a media URL", contentType)
		}
	default:
		return nil, apperr.InvalidArgument("unknown content type %q", contentType)
	}

	post := &models.Post{
		AuthorID:    authorID,
		ContentType: contentType,
		Caption:     caption,
		MediaURL:    mediaURL,
	}
	if err := e.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns one post with its author and the viewer's like state.
func (e *Engine) GetPost(ctx context.Context, postID, viewerID uint) (*models.FeedPost, error) {
	var post models.Post
	err := e.db.WithContext(ctx).First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("post %d not found", postID)
	}
	if err != nil {
		return nil, err
	}

	views, err := e.annotatePosts(ctx, []models.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpdatePost edits the caption or media URL of the author's own post. Nil
// fields are left unchanged.
func (e *Engine) UpdatePost(ctx context.Context, postID, userID uint, caption, mediaURL *string) (*models.Post, error) {
	var post models.Post
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&post, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post %d not found", postID)
		}
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return apperr.Forbidden("only the author can edit post %d", postID)
		}

		updates := map[string]any{}
		if caption != nil {
			post.Caption = *caption
			updates["caption"] = *caption
		}
		if mediaURL != nil {
			if post.ContentType != models.ContentTypeText && *mediaURL == "" {
				return apperr.InvalidArgument("%s posts require a media URL", post.ContentType)
			}
			post.MediaURL = *mediaURL
			updates["media_url"] = *mediaURL
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&post).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes the author's own post along with its likes and
// comments.
func (e *Engine) DeletePost(ctx context.Context, postID, userID uint) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := infradb.LockForUpdate(tx).First(&post, postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("post %d not found", postID)
		}
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return apperr.Forbidden("only the author can delete post %d", postID)
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
}

// UserPosts lists one author's posts, newest first.
func (e *Engine) UserPosts(ctx context.Context, authorID, viewerID uint, page int) ([]models.FeedPost, bool, error) {
	if _, err := e.findUser(ctx, authorID); err != nil {
		return nil, false, err
	}
	limit, offset := e.page(page)

	var posts []models.Post
	err := e.db.WithContext(ctx).
		Where("author_id = ?", authorID).
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

// annotatePosts attaches author briefs and the viewer's like state to a
// page of posts with two batch queries.
func (e *Engine) annotatePosts(ctx context.Context, posts []models.Post, viewerID uint) ([]models.FeedPost, error) {
	if len(posts) == 0 {
		return []models.FeedPost{}, nil
	}

	authorIDs := make([]uint, 0, len(posts))
	postIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool, len(posts))
	for i := range posts {
		postIDs = append(postIDs, posts[i].ID)
		if !seen[posts[i].AuthorID] {
			seen[posts[i].AuthorID] = true
			authorIDs = append(authorIDs, posts[i].AuthorID)
		}
	}

	var authors []models.User
	if err := e.db.WithContext(ctx).Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	followed, err := e.followedIDs(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}
	authorsByID := make(map[uint]models.UserBrief, len(authors))
	for i := range authors {
		authorsByID[authors[i].ID] = authors[i].Brief(followed[authors[i].ID])
	}

	var likedIDs []uint
	err = e.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
		Pluck("post_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}
	liked := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}

	views := make([]models.FeedPost, len(posts))
	for i := range posts {
		views[i] = models.FeedPost{
			Post:        posts[i],
			Author:      authorsByID[posts[i].AuthorID],
			LikedByUser: liked[posts[i].ID],
		}
	}
	return views, nil
}

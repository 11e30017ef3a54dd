package models

import "time"

// Post content types, the closed set accepted by the feed engine.
const (
	ContentTypeText  = "text"
	ContentTypePhoto = "photo"
	ContentTypeVideo = "video"
)

type Post struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	AuthorID    uint   `json:"user_id" gorm:"index"`
	ContentType string `json:"content_type" gorm:"size:20"`
	Caption     string `json:"caption" gorm:"type:text"`
	MediaURL    string `json:"media_url,omitempty" gorm:"size:255"`

	LikesCount    int `json:"likes_count" gorm:"default:0"`
	CommentsCount int `json:"comments_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Like is an idempotent edge: composite primary key keeps it unique per
// (user, post).
type Like struct {
	UserID uint `gorm:"primaryKey"`
	PostID uint `gorm:"primaryKey"`

	CreatedAt time.Time
}

type Comment struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  uint   `json:"user_id" gorm:"index"`
	PostID  uint   `json:"post_id" gorm:"index"`
	Content string `json:"content" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// FeedPost is a post as the feed presents it: annotated with the author
// brief and the caller's like state.
type FeedPost struct {
	Post
	Author      UserBrief `json:"author"`
	LikedByUser bool      `json:"liked_by_user"`
}

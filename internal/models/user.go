package models

import "time"

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"size:80;uniqueIndex"`
	Email        string `json:"email" gorm:"size:120;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"size:255"`
	Avatar       string `json:"profile_picture_url,omitempty" gorm:"size:255"`
	Bio          string `json:"bio,omitempty" gorm:"type:text"`

	// Denormalized edge counts, maintained in the same transaction as the
	// follow edge itself. Must always equal the edge-set cardinality.
	FollowerCount  int `json:"follower_count" gorm:"default:0"`
	FollowingCount int `json:"following_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Follow is a directed edge: follower watches followee. No self-loops, no
// duplicates (composite primary key).
type Follow struct {
	FollowerID uint `gorm:"primaryKey"`
	FolloweeID uint `gorm:"primaryKey"`

	CreatedAt time.Time
}

type UserBrief struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Avatar         string `json:"profile_picture_url,omitempty"`
	Bio            string `json:"bio,omitempty"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
}

func (u *User) Brief(isFollowing bool) UserBrief {
	return UserBrief{
		ID:             u.ID,
		Username:       u.Username,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		IsFollowing:    isFollowing,
	}
}

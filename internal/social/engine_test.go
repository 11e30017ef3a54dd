package social

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AbdulBaasithere/socializeNotion/config"
	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

func newTestEngine(t *testing.T, pageSize int) (*Engine, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Follow{},
		&models.Post{}, &models.Like{}, &models.Comment{},
	))
	return NewEngine(db, &config.Config{PageSize: pageSize, TxMaxRetries: 3}), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}

func TestFollowCounts(t *testing.T) {
	engine, db := newTestEngine(t, 20)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	require.NoError(t, engine.Follow(ctx, alice.ID, bob.ID))
	assert.Equal(t, 1, reloadUser(t, db, alice.ID).FollowingCount)
	assert.Equal(t, 1, reloadUser(t, db, bob.ID).FollowerCount)

	t.Run("double follow counts once", func(t *testing.T) {
		require.NoError(t, engine.Follow(ctx, alice.ID, bob.ID))
		assert.Equal(t, 1, reloadUser(t, db, alice.ID).FollowingCount)
		assert.Equal(t, 1, reloadUser(t, db, bob.ID).FollowerCount)

		var edges int64
		db.Model(&models.Follow{}).
			Where("follower_id = ? AND followee_id = ?", alice.ID, bob.ID).
			Count(&edges)
		assert.EqualValues(t, 1, edges)
	})

	t.Run("unfollow returns both counts to zero", func(t *testing.T) {
		require.NoError(t, engine.Unfollow(ctx, alice.ID, bob.ID))
		assert.Equal(t, 0, reloadUser(t, db, alice.ID).FollowingCount)
		assert.Equal(t, 0, reloadUser(t, db, bob.ID).FollowerCount)
	})

	t.Run("unfollowing when not following is not found", func(t *testing.T) {
		err := engine.Unfollow(ctx, alice.ID, bob.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		err := engine.Follow(ctx, alice.ID, alice.ID)
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("following a ghost is not found", func(t *testing.T) {
		err := engine.Follow(ctx, alice.ID, 9999)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestFollowListings(t *testing.T) {
	engine, db := newTestEngine(t, 20)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	ctx := context.Background()

	require.NoError(t, engine.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, engine.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, engine.Follow(ctx, alice.ID, bob.ID))

	followers, _, err := engine.Followers(ctx, alice.ID, alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	byName := map[string]bool{}
	for _, f := range followers {
		byName[f.Username] = f.IsFollowing
	}
	// alice follows bob back, not carol
	assert.True(t, byName["bob"])
	assert.False(t, byName["carol"])

	following, _, err := engine.Following(ctx, alice.ID, carol.ID, 1)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)
}

func TestDiscover(t *testing.T) {
	engine, db := newTestEngine(t, 20)
	viewer := seedUser(t, db, "viewer")
	popular := seedUser(t, db, "popular")
	medium := seedUser(t, db, "medium")
	quiet := seedUser(t, db, "quiet")
	followed := seedUser(t, db, "followed")
	ctx := context.Background()

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", popular.ID).
		Update("follower_count", 50).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", medium.ID).
		Update("follower_count", 5).Error)
	require.NoError(t, engine.Follow(ctx, viewer.ID, followed.ID))

	users, hasMore, err := engine.Discover(ctx, viewer.ID, 1)
	require.NoError(t, err)
	assert.False(t, hasMore)
	require.Len(t, users, 3)
	assert.Equal(t, "popular", users[0].Username)
	assert.Equal(t, "medium", users[1].Username)
	assert.Equal(t, quiet.Username, users[2].Username)
	for _, u := range users {
		assert.NotEqual(t, "viewer", u.Username)
		assert.NotEqual(t, "followed", u.Username)
	}
}

func TestSearchUsers(t *testing.T) {
	engine, db := newTestEngine(t, 20)
	viewer := seedUser(t, db, "viewer")
	ann := seedUser(t, db, "Annika")
	seedUser(t, db, "joanna")
	other := seedUser(t, db, "zed")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", other.ID).
		Update("bio", "scans and annotations").Error)
	ctx := context.Background()

	require.NoError(t, engine.Follow(ctx, viewer.ID, ann.ID))

	users, _, err := engine.SearchUsers(ctx, viewer.ID, "ann", 1)
	require.NoError(t, err)
	require.Len(t, users, 3)

	byName := map[string]bool{}
	for _, u := range users {
		byName[u.Username] = u.IsFollowing
	}
	assert.True(t, byName["Annika"])
	assert.False(t, byName["joanna"])
	assert.False(t, byName["zed"])
}

func TestLikes(t *testing.T) {
	engine, db := newTestEngine(t, 20)
	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")
	ctx := context.Background()

	post, err := engine.CreatePost(ctx, author.ID, models.ContentTypeText, "hello", "")
	require.NoError(t, err)

	t.Run("double like counts once", func(t *testing.T) {
		p, err := engine.Like(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, p.LikesCount)

		p, err = engine.Like(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, p.LikesCount)
	})

	t.Run("unlike rolls the counter back", func(t *testing.T) {
		p, err := engine.Unlike(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, p.LikesCount)
	})

	t.Run("unliking an unliked post is not found", func(t *testing.T) {
		_, err := engine.Unlike(ctx, fan.ID, post.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("toggle flips state both ways", func(t *testing.T) {
		p, liked, err := engine.ToggleLike(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 1, p.LikesCount)

		p, liked, err = engine.ToggleLike(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, 0, p.LikesCount)
	})

	t.Run("liking a ghost post is not found", func(t *testing.T) {
		_, err := engine.Like(ctx, fan.ID, 9999)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestPostValidation(t *testing.T) {
	engine, db := newTestEngine(t, 20)
	author := seedUser(t, db, "author")
	ctx := context.Background()

	t.Run("text needs a caption", func(t *testing.T) {
		_, err := engine.CreatePost(ctx, author.ID, models.ContentTypeText, "", "")
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("photo needs a media URL", func(t *testing.T) {
		_, err := engine.CreatePost(ctx, author.ID, models.ContentTypePhoto, "pic", "")
		assert.True(t, apperr.IsInvalidArgument(err))
		_, err = engine.CreatePost(ctx, author.ID, models.ContentTypePhoto, "", "https://cdn.example.com/a.jpg")
		assert.NoError(t, err)
	})

	t.Run("unknown content type is rejected", func(t *testing.T) {
		_, err := engine.CreatePost(ctx, author.ID, "hologram", "x", "")
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("only the author edits or deletes", func(t *testing.T) {
		stranger := seedUser(t, db, "stranger")
		post, err := engine.CreatePost(ctx, author.ID, models.ContentTypeText, "mine", "")
		require.NoError(t, err)

		caption := "hijack"
		_, err = engine.UpdatePost(ctx, post.ID, stranger.ID, &caption, nil)
		assert.True(t, apperr.IsForbidden(err))
		assert.True(t, apperr.IsForbidden(engine.DeletePost(ctx, post.ID, stranger.ID)))

		updated, err := engine.UpdatePost(ctx, post.ID, author.ID, &caption, nil)
		require.NoError(t, err)
		assert.Equal(t, "hijack", updated.Caption)
		require.NoError(t, engine.DeletePost(ctx, post.ID, author.ID))
	})
}

func TestFeed(t *testing.T) {
	engine, db := newTestEngine(t, 2)
	viewer := seedUser(t, db, "viewer")
	friend := seedUser(t, db, "friend")
	outsider := seedUser(t, db, "outsider")
	ctx := context.Background()

	require.NoError(t, engine.Follow(ctx, viewer.ID, friend.ID))

	mine, err := engine.CreatePost(ctx, viewer.ID, models.ContentTypeText, "own post", "")
	require.NoError(t, err)
	theirs, err := engine.CreatePost(ctx, friend.ID, models.ContentTypeText, "friend post", "")
	require.NoError(t, err)
	_, err = engine.CreatePost(ctx, outsider.ID, models.ContentTypeText, "invisible", "")
	require.NoError(t, err)

	_, err = engine.Like(ctx, viewer.ID, theirs.ID)
	require.NoError(t, err)

	feed, hasMore, err := engine.Feed(ctx, viewer.ID, 1)
	require.NoError(t, err)
	assert.False(t, hasMore)
	require.Len(t, feed, 2)

	// newest first, ties broken by id descending
	assert.Equal(t, theirs.ID, feed[0].ID)
	assert.Equal(t, mine.ID, feed[1].ID)

	assert.True(t, feed[0].LikedByUser)
	assert.False(t, feed[1].LikedByUser)
	assert.Equal(t, "friend", feed[0].Author.Username)
	assert.True(t, feed[0].Author.IsFollowing)

	t.Run("pagination reports more pages", func(t *testing.T) {
		_, err := engine.CreatePost(ctx, viewer.ID, models.ContentTypeText, "third", "")
		require.NoError(t, err)

		page1, hasMore, err := engine.Feed(ctx, viewer.ID, 1)
		require.NoError(t, err)
		assert.Len(t, page1, 2)
		assert.True(t, hasMore)

		page2, hasMore, err := engine.Feed(ctx, viewer.ID, 2)
		require.NoError(t, err)
		assert.Len(t, page2, 1)
		assert.False(t, hasMore)
	})
}

func TestComments(t *testing.T) {
	engine, db := newTestEngine(t, 20)
	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	ctx := context.Background()

	post, err := engine.CreatePost(ctx, author.ID, models.ContentTypeText, "discuss", "")
	require.NoError(t, err)

	first, err := engine.AddComment(ctx, reader.ID, post.ID, "first!")
	require.NoError(t, err)
	_, err = engine.AddComment(ctx, author.ID, post.ID, "thanks")
	require.NoError(t, err)

	fetched, err := engine.GetPost(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.CommentsCount)

	comments, _, err := engine.ListComments(ctx, post.ID, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Content)
	assert.Equal(t, "reader", comments[0].Author.Username)

	t.Run("post author may remove any comment", func(t *testing.T) {
		require.NoError(t, engine.DeleteComment(ctx, first.ID, author.ID))
		fetched, err := engine.GetPost(ctx, post.ID, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, fetched.CommentsCount)
	})

	t.Run("a third party may not", func(t *testing.T) {
		stranger := seedUser(t, db, "stranger")
		var remaining models.Comment
		require.NoError(t, db.Where("post_id = ?", post.ID).First(&remaining).Error)
		err := engine.DeleteComment(ctx, remaining.ID, stranger.ID)
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("commenting on a ghost post is not found", func(t *testing.T) {
		_, err := engine.AddComment(ctx, reader.ID, 9999, "hello?")
		assert.True(t, apperr.IsNotFound(err))
	})
}

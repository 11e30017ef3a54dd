package hierarchy

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
	"github.com/AbdulBaasithere/socializeNotion/internal/access"
	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		PageSize:           20,
		FolderDeletePolicy: config.DeletePolicyReject,
		TxMaxRetries:       3,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Follow{},
		&models.Folder{}, &models.Note{}, &models.Collaboration{},
	))
	return db
}

func newTestStore(t *testing.T, cfg *config.Config) (*Store, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewStore(db, cfg, access.NewService(db, cfg)), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateFolder(t *testing.T) {
	store, db := newTestStore(t, testConfig())
	owner := seedUser(t, db, "alice")
	ctx := context.Background()

	t.Run("creates at root", func(t *testing.T) {
		folder, err := store.CreateFolder(ctx, owner.ID, "Work", nil)
		require.NoError(t, err)
		assert.Nil(t, folder.ParentFolderID)
		assert.Equal(t, "Work", folder.Name)
	})

	t.Run("rejects duplicate name in same parent", func(t *testing.T) {
		_, err := store.CreateFolder(ctx, owner.ID, "Work", nil)
		require.Error(t, err)
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("allows same name under different parents", func(t *testing.T) {
		parent, err := store.CreateFolder(ctx, owner.ID, "Projects", nil)
		require.NoError(t, err)
		_, err = store.CreateFolder(ctx, owner.ID, "Work", &parent.ID)
		assert.NoError(t, err)
	})

	t.Run("rejects unknown parent", func(t *testing.T) {
		missing := uint(9999)
		_, err := store.CreateFolder(ctx, owner.ID, "Orphan", &missing)
		require.Error(t, err)
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("rejects another owner's folder as parent", func(t *testing.T) {
		other := seedUser(t, db, "bob")
		theirs, err := store.CreateFolder(ctx, other.ID, "Private", nil)
		require.NoError(t, err)
		_, err = store.CreateFolder(ctx, owner.ID, "Sneaky", &theirs.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsInvalidArgument(err))
	})
}

func TestMoveFolder(t *testing.T) {
	store, db := newTestStore(t, testConfig())
	owner := seedUser(t, db, "alice")
	ctx := context.Background()

	// a > b > c
	a, err := store.CreateFolder(ctx, owner.ID, "a", nil)
	require.NoError(t, err)
	b, err := store.CreateFolder(ctx, owner.ID, "b", &a.ID)
	require.NoError(t, err)
	c, err := store.CreateFolder(ctx, owner.ID, "c", &b.ID)
	require.NoError(t, err)

	t.Run("rejects move into itself", func(t *testing.T) {
		_, err := store.MoveFolder(ctx, owner.ID, a.ID, &a.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsCycleDetected(err))
	})

	t.Run("rejects move under own descendant", func(t *testing.T) {
		_, err := store.MoveFolder(ctx, owner.ID, a.ID, &c.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsCycleDetected(err))

		// the tree is untouched
		var reloaded models.Folder
		require.NoError(t, db.First(&reloaded, a.ID).Error)
		assert.Nil(t, reloaded.ParentFolderID)
	})

	t.Run("moves a leaf under a sibling branch", func(t *testing.T) {
		d, err := store.CreateFolder(ctx, owner.ID, "d", nil)
		require.NoError(t, err)
		moved, err := store.MoveFolder(ctx, owner.ID, c.ID, &d.ID)
		require.NoError(t, err)
		require.NotNil(t, moved.ParentFolderID)
		assert.Equal(t, d.ID, *moved.ParentFolderID)

		// and back
		_, err = store.MoveFolder(ctx, owner.ID, c.ID, &b.ID)
		require.NoError(t, err)
	})

	t.Run("moves to root", func(t *testing.T) {
		moved, err := store.MoveFolder(ctx, owner.ID, b.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, moved.ParentFolderID)
		_, err = store.MoveFolder(ctx, owner.ID, b.ID, &a.ID)
		require.NoError(t, err)
	})

	t.Run("rejects duplicate name at destination", func(t *testing.T) {
		_, err := store.CreateFolder(ctx, owner.ID, "b", nil)
		require.NoError(t, err)
		_, err = store.MoveFolder(ctx, owner.ID, b.ID, nil)
		require.Error(t, err)
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("missing folder is not found", func(t *testing.T) {
		_, err := store.MoveFolder(ctx, owner.ID, 9999, nil)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestRenameFolder(t *testing.T) {
	store, db := newTestStore(t, testConfig())
	owner := seedUser(t, db, "alice")
	ctx := context.Background()

	f, err := store.CreateFolder(ctx, owner.ID, "Old", nil)
	require.NoError(t, err)
	_, err = store.CreateFolder(ctx, owner.ID, "Taken", nil)
	require.NoError(t, err)

	renamed, err := store.RenameFolder(ctx, owner.ID, f.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", renamed.Name)

	_, err = store.RenameFolder(ctx, owner.ID, f.ID, "Taken")
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))

	// renaming to the current name is a no-op
	_, err = store.RenameFolder(ctx, owner.ID, f.ID, "New")
	assert.NoError(t, err)
}

func TestUpdateFolder(t *testing.T) {
	store, db := newTestStore(t, testConfig())
	owner := seedUser(t, db, "alice")
	ctx := context.Background()

	a, err := store.CreateFolder(ctx, owner.ID, "a", nil)
	require.NoError(t, err)
	b, err := store.CreateFolder(ctx, owner.ID, "b", &a.ID)
	require.NoError(t, err)

	t.Run("applies rename and move together", func(t *testing.T) {
		dest, err := store.CreateFolder(ctx, owner.ID, "dest", nil)
		require.NoError(t, err)
		name := "b2"
		updated, err := store.UpdateFolder(ctx, owner.ID, b.ID, FolderInput{
			Name:           &name,
			ParentFolderID: &dest.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "b2", updated.Name)
		require.NotNil(t, updated.ParentFolderID)
		assert.Equal(t, dest.ID, *updated.ParentFolderID)

		_, err = store.UpdateFolder(ctx, owner.ID, b.ID, FolderInput{ParentFolderID: &a.ID})
		require.NoError(t, err)
	})

	t.Run("rejected move leaves the name untouched", func(t *testing.T) {
		name := "a2"
		_, err := store.UpdateFolder(ctx, owner.ID, a.ID, FolderInput{
			Name:           &name,
			ParentFolderID: &b.ID,
		})
		require.Error(t, err)
		assert.True(t, apperr.IsCycleDetected(err))

		var reloaded models.Folder
		require.NoError(t, db.First(&reloaded, a.ID).Error)
		assert.Equal(t, "a", reloaded.Name)
		assert.Nil(t, reloaded.ParentFolderID)
	})

	t.Run("move to root", func(t *testing.T) {
		updated, err := store.UpdateFolder(ctx, owner.ID, b.ID, FolderInput{MoveToRoot: true})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentFolderID)
	})
}

func TestBreadcrumb(t *testing.T) {
	store, db := newTestStore(t, testConfig())
	owner := seedUser(t, db, "alice")
	ctx := context.Background()

	root, err := store.CreateFolder(ctx, owner.ID, "root", nil)
	require.NoError(t, err)
	mid, err := store.CreateFolder(ctx, owner.ID, "mid", &root.ID)
	require.NoError(t, err)
	leaf, err := store.CreateFolder(ctx, owner.ID, "leaf", &mid.ID)
	require.NoError(t, err)

	path, err := store.Breadcrumb(ctx, owner.ID, leaf.ID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, []string{"root", "mid", "leaf"}, []string{path[0].Name, path[1].Name, path[2].Name})

	t.Run("single folder is its own path", func(t *testing.T) {
		path, err := store.Breadcrumb(ctx, owner.ID, root.ID)
		require.NoError(t, err)
		require.Len(t, path, 1)
		assert.Equal(t, root.ID, path[0].ID)
	})

	t.Run("broken parent link is reported", func(t *testing.T) {
		orphanParent := uint(8888)
		require.NoError(t, db.Model(&models.Folder{}).
			Where("id = ?", mid.ID).
			Update("parent_folder_id", orphanParent).Error)
		_, err := store.Breadcrumb(ctx, owner.ID, leaf.ID)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestListChildrenAndTree(t *testing.T) {
	store, db := newTestStore(t, testConfig())
	owner := seedUser(t, db, "alice")
	ctx := context.Background()

	root, err := store.CreateFolder(ctx, owner.ID, "root", nil)
	require.NoError(t, err)
	for _, name := range []string{"zeta", "alpha", "mike"} {
		_, err := store.CreateFolder(ctx, owner.ID, name, &root.ID)
		require.NoError(t, err)
	}

	children, err := store.ListChildren(ctx, owner.ID, &root.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, []string{"alpha", "mike", "zeta"},
		[]string{children[0].Name, children[1].Name, children[2].Name})

	tree, err := store.Tree(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "root", tree[0].Name)
	assert.Len(t, tree[0].Children, 3)

	t.Run("listing an unknown parent fails", func(t *testing.T) {
		missing := uint(9999)
		_, err := store.ListChildren(ctx, owner.ID, &missing)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteFolderPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("reject policy refuses non-empty folder", func(t *testing.T) {
		store, db := newTestStore(t, testConfig())
		owner := seedUser(t, db, "alice")

		parent, err := store.CreateFolder(ctx, owner.ID, "parent", nil)
		require.NoError(t, err)
		_, err = store.CreateFolder(ctx, owner.ID, "child", &parent.ID)
		require.NoError(t, err)

		_, err = store.DeleteFolder(ctx, owner.ID, parent.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsInvalidArgument(err))
	})

	t.Run("reject policy deletes an empty folder", func(t *testing.T) {
		store, db := newTestStore(t, testConfig())
		owner := seedUser(t, db, "alice")

		empty, err := store.CreateFolder(ctx, owner.ID, "empty", nil)
		require.NoError(t, err)
		noteIDs, err := store.DeleteFolder(ctx, owner.ID, empty.ID)
		require.NoError(t, err)
		assert.Empty(t, noteIDs)
	})

	t.Run("cascade policy removes subtree, notes and grants", func(t *testing.T) {
		cfg := testConfig()
		cfg.FolderDeletePolicy = config.DeletePolicyCascade
		store, db := newTestStore(t, cfg)
		owner := seedUser(t, db, "alice")
		reader := seedUser(t, db, "bob")

		parent, err := store.CreateFolder(ctx, owner.ID, "parent", nil)
		require.NoError(t, err)
		child, err := store.CreateFolder(ctx, owner.ID, "child", &parent.ID)
		require.NoError(t, err)
		note, err := store.CreateNote(ctx, owner.ID, "inside", "", nil, &child.ID)
		require.NoError(t, err)
		require.NoError(t, db.Create(&models.Collaboration{
			NoteID: note.ID, UserID: reader.ID, PermissionLevel: "view",
		}).Error)

		noteIDs, err := store.DeleteFolder(ctx, owner.ID, parent.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{note.ID}, noteIDs)

		var folders, notes, grants int64
		db.Model(&models.Folder{}).Where("owner_id = ?", owner.ID).Count(&folders)
		db.Model(&models.Note{}).Where("owner_id = ?", owner.ID).Count(&notes)
		db.Model(&models.Collaboration{}).Where("note_id = ?", note.ID).Count(&grants)
		assert.Zero(t, folders)
		assert.Zero(t, notes)
		assert.Zero(t, grants)
	})
}

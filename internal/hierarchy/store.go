// Package hierarchy maintains the per-owner folder/note tree: parent-pointer
// folder records with an explicit ancestor-walk on every re-parent, notes
// with exact-match tag sets, and the notes_count rollup kept inside the same
// transaction as every mutation that touches it.
package hierarchy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/config"
	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	infradb "github.com/AbdulBaasithere/socializeNotion/internal/infra/db"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// maxTreeDepth bounds every ancestor walk. A chain longer than this is
// reported as a structural violation instead of looping forever on a
// corrupted tree.
const maxTreeDepth = 128

// PermissionChecker is the access-control hook consulted for notes the
// caller does not own. Implemented by the access service.
type PermissionChecker interface {
	CanView(ctx context.Context, noteID, userID uint) error
	CanEdit(ctx context.Context, noteID, userID uint) error
	LevelFor(ctx context.Context, noteID, userID uint) (string, error)
}

type Store struct {
	db    *gorm.DB
	cfg   *config.Config
	perms PermissionChecker
}

func NewStore(db *gorm.DB, cfg *config.Config, perms PermissionChecker) *Store {
	return &Store{db: db, cfg: cfg, perms: perms}
}

// findFolder loads a folder scoped to its owner. A folder belonging to
// someone else is indistinguishable from a missing one.
func findFolder(tx *gorm.DB, ownerID, folderID uint) (*models.Folder, error) {
	var folder models.Folder
	err := tx.Where("id = ? AND owner_id = ?", folderID, ownerID).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("folder %d not found", folderID)
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// ancestorChain walks parent links from folder up to a root, nearest
// ancestor first. Runtime is proportional to tree depth, never tree size.
// A dangling parent link is reported, never silently truncated. With lock
// set, each ancestor row is read under a row lock so a concurrent re-parent
// cannot slip between validation and commit.
func ancestorChain(tx *gorm.DB, folder *models.Folder, lock bool) ([]models.Folder, error) {
	var chain []models.Folder
	cur := folder
	for depth := 0; cur.ParentFolderID != nil; depth++ {
		if depth >= maxTreeDepth {
			return nil, apperr.CycleDetected("ancestor chain of folder %d exceeds depth limit", folder.ID)
		}

		q := tx
		if lock {
			q = infradb.LockForUpdate(tx)
		}
		var parent models.Folder
		if err := q.First(&parent, *cur.ParentFolderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("broken parent link: folder %d is missing", *cur.ParentFolderID)
			}
			return nil, err
		}
		chain = append(chain, parent)
		cur = &parent
	}
	return chain, nil
}

// assertNameFree rejects a duplicate folder name within the same parent.
func assertNameFree(tx *gorm.DB, ownerID uint, name string, parentID *uint, excludeID uint) error {
	q := tx.Model(&models.Folder{}).Where("owner_id = ? AND name = ?", ownerID, name)
	if parentID == nil {
		q = q.Where("parent_folder_id IS NULL")
	} else {
		q = q.Where("parent_folder_id = ?", *parentID)
	}
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.InvalidArgument("folder %q already exists in this location", name)
	}
	return nil
}

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

// CreateFolder creates a folder under parentID, or at the root when
// parentID is nil. A parent that does not exist or belongs to another
// owner is rejected before anything is written.
func (s *Store) CreateFolder(ctx context.Context, ownerID uint, name string, parentID *uint) (*models.Folder, error) {
	folder := &models.Folder{
		OwnerID:        ownerID,
		Name:           name,
		ParentFolderID: parentID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			if _, err := findFolder(tx, ownerID, *parentID); err != nil {
				if apperr.IsNotFound(err) {
					return apperr.InvalidArgument("invalid parent folder %d", *parentID)
				}
				return err
			}
		}
		if err := assertNameFree(tx, ownerID, name, parentID, 0); err != nil {
			return err
		}
		return tx.Create(folder).Error
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// FolderInput carries the writable fields of a folder. A nil Name keeps
// the current one; MoveToRoot distinguishes "re-parent to root" from
// "leave the parent alone".
type FolderInput struct {
	Name           *string
	ParentFolderID *uint
	MoveToRoot     bool
}

// UpdateFolder applies a rename and a re-parent in one transaction, so a
// request carrying both either commits both or leaves the folder exactly
// as it was. For a move, the destination's ancestor chain is walked under
// row locks: if the folder being moved appears anywhere on it the whole
// update is rejected. Cost is proportional to the destination's depth,
// not to the size of either subtree.
func (s *Store) UpdateFolder(ctx context.Context, ownerID, folderID uint, in FolderInput) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := infradb.LockForUpdate(tx).
			Where("id = ? AND owner_id = ?", folderID, ownerID).
			First(&folder).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("folder %d not found", folderID)
		}
		if err != nil {
			return err
		}

		name := folder.Name
		if in.Name != nil {
			name = *in.Name
		}

		parentID := folder.ParentFolderID
		if in.ParentFolderID != nil || in.MoveToRoot {
			if in.MoveToRoot {
				parentID = nil
			} else {
				parentID = in.ParentFolderID
			}
		}

		if parentID != nil && !sameParent(parentID, folder.ParentFolderID) {
			if *parentID == folderID {
				return apperr.CycleDetected("cannot move folder %d into itself", folderID)
			}

			var parent models.Folder
			perr := infradb.LockForUpdate(tx).
				Where("id = ? AND owner_id = ?", *parentID, ownerID).
				First(&parent).Error
			if errors.Is(perr, gorm.ErrRecordNotFound) {
				return apperr.InvalidArgument("invalid parent folder %d", *parentID)
			}
			if perr != nil {
				return perr
			}

			chain, err := ancestorChain(tx, &parent, true)
			if err != nil {
				return err
			}
			for i := range chain {
				if chain[i].ID == folderID {
					return apperr.CycleDetected("cannot move folder %d under its own descendant %d", folderID, *parentID)
				}
			}
		}

		if name == folder.Name && sameParent(parentID, folder.ParentFolderID) {
			return nil
		}
		if err := assertNameFree(tx, ownerID, name, parentID, folderID); err != nil {
			return err
		}

		folder.Name = name
		folder.ParentFolderID = parentID
		return tx.Model(&folder).Updates(map[string]any{
			"name":             name,
			"parent_folder_id": parentID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// RenameFolder changes a folder's name in place. The new name must be
// unique among its current siblings.
func (s *Store) RenameFolder(ctx context.Context, ownerID, folderID uint, name string) (*models.Folder, error) {
	return s.UpdateFolder(ctx, ownerID, folderID, FolderInput{Name: &name})
}

// MoveFolder re-parents a folder, or moves it to the root when newParentID
// is nil.
func (s *Store) MoveFolder(ctx context.Context, ownerID, folderID uint, newParentID *uint) (*models.Folder, error) {
	if newParentID == nil {
		return s.UpdateFolder(ctx, ownerID, folderID, FolderInput{MoveToRoot: true})
	}
	return s.UpdateFolder(ctx, ownerID, folderID, FolderInput{ParentFolderID: newParentID})
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ListChildren returns the immediate subfolders of parentID ordered by
// name. A nil parentID lists the owner's root folders.
func (s *Store) ListChildren(ctx context.Context, ownerID uint, parentID *uint) ([]models.Folder, error) {
	db := s.db.WithContext(ctx)
	if parentID != nil {
		if _, err := findFolder(db, ownerID, *parentID); err != nil {
			return nil, err
		}
	}

	q := db.Where("owner_id = ?", ownerID)
	if parentID == nil {
		q = q.Where("parent_folder_id IS NULL")
	} else {
		q = q.Where("parent_folder_id = ?", *parentID)
	}

	var folders []models.Folder
	if err := q.Order("name ASC").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// Breadcrumb returns the path from a root down to the folder, both ends
// inclusive.
func (s *Store) Breadcrumb(ctx context.Context, ownerID, folderID uint) ([]models.Folder, error) {
	db := s.db.WithContext(ctx)
	folder, err := findFolder(db, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	chain, err := ancestorChain(db, folder, false)
	if err != nil {
		return nil, err
	}

	path := make([]models.Folder, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		path = append(path, chain[i])
	}
	path = append(path, *folder)
	return path, nil
}

// Tree materializes the owner's entire folder hierarchy in one query.
// Siblings are ordered by name at every level.
func (s *Store) Tree(ctx context.Context, ownerID uint) ([]*models.FolderNode, error) {
	var folders []models.Folder
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}

	nodes := make(map[uint]*models.FolderNode, len(folders))
	for i := range folders {
		nodes[folders[i].ID] = &models.FolderNode{Folder: folders[i]}
	}

	roots := make([]*models.FolderNode, 0)
	for i := range folders {
		node := nodes[folders[i].ID]
		if folders[i].ParentFolderID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*folders[i].ParentFolderID]
		if !ok {
			// Dangling parent link: surface the node as a root rather
			// than dropping it.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

// DeleteFolder removes a folder. Under the reject policy a folder that
// still holds subfolders or notes is refused. Under the cascade policy the
// whole subtree is collected breadth-first and deleted along with its
// notes and their collaborator grants, all in one transaction. The IDs of
// the deleted notes are returned so callers can drop their cache entries.
func (s *Store) DeleteFolder(ctx context.Context, ownerID, folderID uint) ([]uint, error) {
	var noteIDs []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var folder models.Folder
		err := infradb.LockForUpdate(tx).
			Where("id = ? AND owner_id = ?", folderID, ownerID).
			First(&folder).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("folder %d not found", folderID)
		}
		if err != nil {
			return err
		}

		if s.cfg.FolderDeletePolicy == config.DeletePolicyCascade {
			noteIDs, err = cascadeDelete(tx, ownerID, folderID)
			return err
		}

		var subfolders int64
		if err := tx.Model(&models.Folder{}).
			Where("parent_folder_id = ?", folderID).
			Count(&subfolders).Error; err != nil {
			return err
		}
		var notes int64
		if err := tx.Model(&models.Note{}).
			Where("folder_id = ?", folderID).
			Count(&notes).Error; err != nil {
			return err
		}
		if subfolders > 0 || notes > 0 {
			return apperr.InvalidArgument("folder %q is not empty", folder.Name)
		}

		return tx.Delete(&models.Folder{}, folderID).Error
	})
	if err != nil {
		return nil, err
	}
	return noteIDs, nil
}

// cascadeDelete collects the subtree level by level, then deletes grants,
// notes, and folders in dependency order, reporting the removed note IDs.
func cascadeDelete(tx *gorm.DB, ownerID, rootID uint) ([]uint, error) {
	ids := []uint{rootID}
	frontier := []uint{rootID}
	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= maxTreeDepth {
			return nil, apperr.CycleDetected("folder subtree of %d exceeds depth limit", rootID)
		}
		var next []uint
		err := tx.Model(&models.Folder{}).
			Where("owner_id = ? AND parent_folder_id IN ?", ownerID, frontier).
			Pluck("id", &next).Error
		if err != nil {
			return nil, err
		}
		ids = append(ids, next...)
		frontier = next
	}

	var noteIDs []uint
	if err := tx.Model(&models.Note{}).
		Where("folder_id IN ?", ids).
		Pluck("id", &noteIDs).Error; err != nil {
		return nil, err
	}
	if len(noteIDs) > 0 {
		if err := tx.Where("note_id IN ?", noteIDs).
			Delete(&models.Collaboration{}).Error; err != nil {
			return nil, err
		}
		if err := tx.Where("id IN ?", noteIDs).
			Delete(&models.Note{}).Error; err != nil {
			return nil, err
		}
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Folder{}).Error; err != nil {
		return nil, err
	}
	return noteIDs, nil
}

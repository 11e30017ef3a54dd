package hierarchy

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	infradb "github.com/AbdulBaasithere/socializeNotion/internal/infra/db"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// NoteInput carries the writable fields of a note. Nil pointers on update
// mean "leave unchanged"; MoveToRoot distinguishes "move to root" from
// "keep the current folder".
type NoteInput struct {
	Title      *string
	Content    *string
	Tags       []string
	FolderID   *uint
	MoveToRoot bool
}

// validateTags rejects tags the comma-joined storage form cannot hold.
// Silently dropping them would lose data the caller thinks was saved.
func validateTags(tags []string) error {
	for _, t := range tags {
		if strings.Contains(t, ",") {
			return apperr.InvalidArgument("tag %q must not contain a comma", t)
		}
	}
	return nil
}

// CreateNote creates a note for ownerID, optionally filed under a folder
// the owner must hold. The folder's notes_count moves in the same
// transaction as the insert.
func (s *Store) CreateNote(ctx context.Context, ownerID uint, title, content string, tags []string, folderID *uint) (*models.Note, error) {
	if err := validateTags(tags); err != nil {
		return nil, err
	}
	note := &models.Note{
		OwnerID:  ownerID,
		Title:    title,
		Content:  content,
		Tags:     models.EncodeTags(tags),
		FolderID: folderID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if folderID != nil {
			if err := bumpNotesCount(tx, ownerID, *folderID, +1); err != nil {
				return err
			}
		}
		return tx.Create(note).Error
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// GetNote returns a note the caller owns or holds at least a view grant on.
func (s *Store) GetNote(ctx context.Context, noteID, userID uint) (*models.Note, error) {
	var note models.Note
	err := s.db.WithContext(ctx).First(&note, noteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("note %d not found", noteID)
	}
	if err != nil {
		return nil, err
	}
	if note.OwnerID != userID {
		if err := s.perms.CanView(ctx, noteID, userID); err != nil {
			return nil, err
		}
	}
	return &note, nil
}

// UpdateNote applies the non-nil fields of in to a note. The owner may
// change everything; a collaborator needs an edit grant and may only touch
// title, content, and tags. Re-filing between folders adjusts both
// notes_count rollups in the same transaction.
func (s *Store) UpdateNote(ctx context.Context, noteID, userID uint, in NoteInput) (*models.Note, error) {
	if in.Tags != nil {
		if err := validateTags(in.Tags); err != nil {
			return nil, err
		}
	}
	var note models.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := infradb.LockForUpdate(tx).First(&note, noteID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("note %d not found", noteID)
		}
		if err != nil {
			return err
		}

		movesFolder := in.FolderID != nil || in.MoveToRoot
		if note.OwnerID != userID {
			if err := s.perms.CanEdit(ctx, noteID, userID); err != nil {
				return err
			}
			if movesFolder {
				return apperr.Forbidden("only the owner can move note %d", noteID)
			}
		}

		updates := map[string]any{}
		if in.Title != nil {
			note.Title = *in.Title
			updates["title"] = *in.Title
		}
		if in.Content != nil {
			note.Content = *in.Content
			updates["content"] = *in.Content
		}
		if in.Tags != nil {
			note.Tags = models.EncodeTags(in.Tags)
			updates["tags"] = note.Tags
		}

		if movesFolder {
			var target *uint
			if !in.MoveToRoot {
				target = in.FolderID
			}
			if err := moveBetweenFolders(tx, note.OwnerID, note.FolderID, target); err != nil {
				return err
			}
			note.FolderID = target
			updates["folder_id"] = target
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&note).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note, its collaborator grants, and its folder's
// rollup increment in one transaction. Owner only.
func (s *Store) DeleteNote(ctx context.Context, noteID, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note models.Note
		err := infradb.LockForUpdate(tx).First(&note, noteID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("note %d not found", noteID)
		}
		if err != nil {
			return err
		}
		if note.OwnerID != userID {
			return apperr.Forbidden("only the owner can delete note %d", noteID)
		}

		if note.FolderID != nil {
			if err := bumpNotesCount(tx, note.OwnerID, *note.FolderID, -1); err != nil {
				return err
			}
		}
		if err := tx.Where("note_id = ?", noteID).
			Delete(&models.Collaboration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Note{}, noteID).Error
	})
}

// ListNotes returns the owner's notes in one folder, or the unfiled ones
// when folderID is nil, most recently updated first.
func (s *Store) ListNotes(ctx context.Context, ownerID uint, folderID *uint) ([]models.Note, error) {
	db := s.db.WithContext(ctx)
	q := db.Where("owner_id = ?", ownerID)
	if folderID == nil {
		q = q.Where("folder_id IS NULL")
	} else {
		if _, err := findFolder(db, ownerID, *folderID); err != nil {
			return nil, err
		}
		q = q.Where("folder_id = ?", *folderID)
	}

	var notes []models.Note
	if err := q.Order("updated_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// moveBetweenFolders rebalances notes_count when a note changes folders.
// No-op when source and destination are the same.
func moveBetweenFolders(tx *gorm.DB, ownerID uint, from, to *uint) error {
	if from == nil && to == nil {
		return nil
	}
	if from != nil && to != nil && *from == *to {
		return nil
	}
	if from != nil {
		if err := bumpNotesCount(tx, ownerID, *from, -1); err != nil {
			return err
		}
	}
	if to != nil {
		if err := bumpNotesCount(tx, ownerID, *to, +1); err != nil {
			return err
		}
	}
	return nil
}

// bumpNotesCount adjusts a folder's rollup under a row lock, validating
// ownership on the way. Inserts and moves into a folder the owner does not
// hold fail here.
func bumpNotesCount(tx *gorm.DB, ownerID, folderID uint, delta int) error {
	var folder models.Folder
	err := infradb.LockForUpdate(tx).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.InvalidArgument("invalid folder %d", folderID)
	}
	if err != nil {
		return err
	}
	return tx.Model(&folder).
		Update("notes_count", gorm.Expr("notes_count + ?", delta)).Error
}

// Package access decides whether a user may view, edit or administer a
// note, and manages the per-note collaborator grant set. Permissions are
// per-note point lookups; nothing inherits from folders.
package access

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/config"
	"github.com/AbdulBaasithere/socializeNotion/internal/apperr"
	infradb "github.com/AbdulBaasithere/socializeNotion/internal/infra/db"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

type Service struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

// CollaboratorView is one grant row joined with the collaborator identity,
// ordered by grant creation time.
type CollaboratorView struct {
	models.Collaboration
	Collaborator models.UserBrief `json:"collaborator"`
}

// SharedNote is a note as it appears in the shared-with-me / shared-by-me
// listings.
type SharedNote struct {
	models.Note
	Tags            []string `json:"tags"`
	PermissionLevel string   `json:"permission_level,omitempty"`
}

// Grant upserts a collaborator grant. The granter must be the note owner or
// hold an admin grant. Re-granting replaces the level, up or down.
func (s *Service) Grant(ctx context.Context, noteID, granterID uint, targetUsername, level string) (*models.Collaboration, error) {
	perm, err := ParsePermission(level)
	if err != nil {
		return nil, err
	}

	var grant models.Collaboration
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		note, err := s.authorizeManage(tx, noteID, granterID)
		if err != nil {
			return err
		}

		var target models.User
		if err := tx.Where("username = ?", targetUsername).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user %q not found", targetUsername)
			}
			return err
		}
		if target.ID == note.OwnerID {
			return apperr.InvalidArgument("note owner already has full access")
		}

		var existing models.Collaboration
		err = infradb.LockForUpdate(tx).
			Where("note_id = ? AND user_id = ?", noteID, target.ID).
			First(&existing).Error
		switch {
		case err == nil:
			// Last write wins, including downgrades. No count change.
			if err := tx.Model(&existing).Update("permission_level", perm.String()).Error; err != nil {
				return err
			}
			existing.PermissionLevel = perm.String()
			grant = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			grant = models.Collaboration{
				NoteID:          noteID,
				UserID:          target.ID,
				PermissionLevel: perm.String(),
			}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
			return tx.Model(&models.Note{}).Where("id = ?", noteID).
				Update("share_count", gorm.Expr("share_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Revoke removes a grant. Revoking an absent grant reports NotFound rather
// than silently succeeding.
func (s *Service) Revoke(ctx context.Context, noteID, granterID, targetUserID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.authorizeManage(tx, noteID, granterID); err != nil {
			return err
		}

		result := tx.Where("note_id = ? AND user_id = ?", noteID, targetUserID).
			Delete(&models.Collaboration{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("no grant for user %d on note %d", targetUserID, noteID)
		}

		return tx.Model(&models.Note{}).Where("id = ?", noteID).
			Update("share_count", gorm.Expr("share_count - 1")).Error
	})
}

// CheckAccess returns nil if userID holds at least the required level on
// the note. The owner always passes; everyone else needs a grant row.
func (s *Service) CheckAccess(ctx context.Context, noteID, userID uint, required Permission) error {
	note, err := s.findNote(s.db.WithContext(ctx), noteID)
	if err != nil {
		return err
	}
	if note.OwnerID == userID {
		return nil
	}

	var grant models.Collaboration
	err = s.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Forbidden("no access to note %d", noteID)
	}
	if err != nil {
		return err
	}

	level, err := ParsePermission(grant.PermissionLevel)
	if err != nil {
		return err
	}
	if !level.AtLeast(required) {
		return apperr.Forbidden("requires %s access to note %d", required, noteID)
	}
	return nil
}

// CanView and CanEdit adapt CheckAccess for the hierarchy store's
// permission hook.
func (s *Service) CanView(ctx context.Context, noteID, userID uint) error {
	return s.CheckAccess(ctx, noteID, userID, PermissionView)
}

func (s *Service) CanEdit(ctx context.Context, noteID, userID uint) error {
	return s.CheckAccess(ctx, noteID, userID, PermissionEdit)
}

// LevelFor reports the effective permission label userID holds on the
// note: "admin" for the owner, the grant level for a collaborator, and
// "" for no access.
func (s *Service) LevelFor(ctx context.Context, noteID, userID uint) (string, error) {
	note, err := s.findNote(s.db.WithContext(ctx), noteID)
	if err != nil {
		return "", err
	}
	if note.OwnerID == userID {
		return levelAdmin, nil
	}

	var grant models.Collaboration
	err = s.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return grant.PermissionLevel, nil
}

// ListCollaborators is visible to the owner and to any grantee.
func (s *Service) ListCollaborators(ctx context.Context, noteID, requesterID uint) ([]CollaboratorView, error) {
	note, err := s.findNote(s.db.WithContext(ctx), noteID)
	if err != nil {
		return nil, err
	}

	var grants []models.Collaboration
	if err := s.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at ASC, id ASC").
		Find(&grants).Error; err != nil {
		return nil, err
	}

	if note.OwnerID != requesterID {
		allowed := false
		for _, g := range grants {
			if g.UserID == requesterID {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, apperr.Forbidden("no access to note %d", noteID)
		}
	}

	userIDs := make([]uint, len(grants))
	for i, g := range grants {
		userIDs[i] = g.UserID
	}
	briefs, err := s.userBriefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]CollaboratorView, len(grants))
	for i, g := range grants {
		views[i] = CollaboratorView{Collaboration: g, Collaborator: briefs[g.UserID]}
	}
	return views, nil
}

// SharedWithMe lists notes carrying a grant for userID, newest update first.
func (s *Service) SharedWithMe(ctx context.Context, userID uint, page int) ([]SharedNote, bool, error) {
	limit := s.cfg.PageSize
	offset := (page - 1) * limit

	var notes []models.Note
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&models.Collaboration{}).
			Select("note_id").Where("user_id = ?", userID)).
		Order("updated_at DESC, id DESC").
		Limit(limit + 1).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(notes) > limit
	if hasMore {
		notes = notes[:limit]
	}

	noteIDs := make([]uint, len(notes))
	for i, n := range notes {
		noteIDs[i] = n.ID
	}
	var grants []models.Collaboration
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND note_id IN ?", userID, noteIDs).
		Find(&grants).Error; err != nil {
		return nil, false, err
	}
	levelByNote := make(map[uint]string, len(grants))
	for _, g := range grants {
		levelByNote[g.NoteID] = g.PermissionLevel
	}

	shared := make([]SharedNote, len(notes))
	for i, n := range notes {
		shared[i] = SharedNote{Note: n, Tags: n.TagList(), PermissionLevel: levelByNote[n.ID]}
	}
	return shared, hasMore, nil
}

// SharedByMe lists the caller's notes that have at least one grant.
func (s *Service) SharedByMe(ctx context.Context, userID uint, page int) ([]SharedNote, bool, error) {
	limit := s.cfg.PageSize
	offset := (page - 1) * limit

	var notes []models.Note
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND share_count > 0", userID).
		Order("updated_at DESC, id DESC").
		Limit(limit + 1).Offset(offset).
		Find(&notes).Error
	if err != nil {
		return nil, false, err
	}

	hasMore := len(notes) > limit
	if hasMore {
		notes = notes[:limit]
	}

	shared := make([]SharedNote, len(notes))
	for i, n := range notes {
		shared[i] = SharedNote{Note: n, Tags: n.TagList()}
	}
	return shared, hasMore, nil
}

// authorizeManage loads the note and verifies granterID may manage its
// grant set: the owner, or a collaborator holding admin.
func (s *Service) authorizeManage(tx *gorm.DB, noteID, granterID uint) (*models.Note, error) {
	note, err := s.findNote(tx, noteID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID == granterID {
		return note, nil
	}

	var grant models.Collaboration
	err = tx.Where("note_id = ? AND user_id = ?", noteID, granterID).First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Forbidden("only the owner or an admin collaborator can manage sharing")
	}
	if err != nil {
		return nil, err
	}
	if grant.PermissionLevel != levelAdmin {
		return nil, apperr.Forbidden("only the owner or an admin collaborator can manage sharing")
	}
	return note, nil
}

func (s *Service) findNote(tx *gorm.DB, noteID uint) (*models.Note, error) {
	var note models.Note
	if err := tx.First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("note %d not found", noteID)
		}
		return nil, err
	}
	return &note, nil
}

func (s *Service) userBriefs(ctx context.Context, ids []uint) (map[uint]models.UserBrief, error) {
	briefs := make(map[uint]models.UserBrief, len(ids))
	if len(ids) == 0 {
		return briefs, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		briefs[users[i].ID] = users[i].Brief(false)
	}
	return briefs, nil
}

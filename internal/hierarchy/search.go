package hierarchy

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/AbdulBaasithere/socializeNotion/internal/models"
)

// SearchQuery narrows a note search. All filters are conjunctive; an empty
// query matches everything the caller can see.
type SearchQuery struct {
	Text     string
	Tag      string
	FolderID *uint
	Page     int
}

// Search scans the notes visible to userID: their own plus every note they
// hold a grant on. Text matches title or content case-insensitively. Tag
// matching is done in two stages: a LIKE pre-filter on the stored tag
// string narrows the scan in SQL, then an exact byte comparison drops the
// rows LIKE matched only because of collation folding. The exact filter
// runs before pagination, so folded rows never consume page slots and a
// page only comes back short when the results genuinely run out. Results
// come back most recently updated first.
func (s *Store) Search(ctx context.Context, userID uint, q SearchQuery) ([]models.Note, bool, error) {
	limit := s.cfg.PageSize
	offset := (q.Page - 1) * limit

	base := s.db.WithContext(ctx).Model(&models.Note{}).
		Where("owner_id = ? OR id IN (?)",
			userID,
			s.db.Model(&models.Collaboration{}).
				Select("note_id").
				Where("user_id = ?", userID),
		)

	if q.FolderID != nil {
		base = base.Where("folder_id = ?", *q.FolderID)
	}
	if q.Text != "" {
		pattern := "%" + strings.ToLower(q.Text) + "%"
		base = base.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}
	base = base.Order("updated_at DESC, id DESC")

	if q.Tag == "" {
		var notes []models.Note
		err := base.Limit(limit + 1).Offset(offset).Find(&notes).Error
		if err != nil {
			return nil, false, err
		}
		hasMore := len(notes) > limit
		if hasMore {
			notes = notes[:limit]
		}
		return notes, hasMore, nil
	}

	exact, err := s.searchByTag(base, q.Tag, offset+limit+1)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(exact) > offset+limit
	if offset >= len(exact) {
		return []models.Note{}, false, nil
	}
	end := offset + limit
	if end > len(exact) {
		end = len(exact)
	}
	return exact[offset:end], hasMore, nil
}

// searchByTag collects the first `want` byte-exact tag matches. The LIKE
// pre-filter keeps the scan in SQL; the batch grows only when collation
// folding produced false positives, so the common case is a single query.
func (s *Store) searchByTag(base *gorm.DB, tag string, want int) ([]models.Note, error) {
	for batch := want; ; batch *= 2 {
		var candidates []models.Note
		err := base.Session(&gorm.Session{}).
			Where("tags LIKE ?", models.TagPattern(tag)).
			Limit(batch).
			Find(&candidates).Error
		if err != nil {
			return nil, err
		}

		exact := make([]models.Note, 0, len(candidates))
		for i := range candidates {
			if candidates[i].HasTag(tag) {
				exact = append(exact, candidates[i])
			}
		}
		if len(exact) >= want || len(candidates) < batch {
			return exact, nil
		}
	}
}

package models

import (
	"strings"
	"time"
)

// Note content plus an exact-match tag set. Tags are stored comma-joined
// with sentinel commas (",a,b,") so membership is a single LIKE on ",tag,"
// that works the same on MySQL and SQLite.
type Note struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	OwnerID  uint   `json:"user_id" gorm:"index"`
	FolderID *uint  `json:"folder_id" gorm:"index"`
	Title    string `json:"title" gorm:"size:255"`
	Content  string `json:"content" gorm:"type:text"`
	Tags     string `json:"-" gorm:"size:500;column:tags"`

	// Number of collaborator grants on this note, maintained in the same
	// transaction as the grant row.
	ShareCount int `json:"share_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Collaboration grants a user a permission level on a note. One row per
// (note, user); re-granting overwrites the level. The owner is never a row.
type Collaboration struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	NoteID          uint   `json:"note_id" gorm:"uniqueIndex:idx_note_collaborator"`
	UserID          uint   `json:"user_id" gorm:"uniqueIndex:idx_note_collaborator"`
	PermissionLevel string `json:"permission_level" gorm:"size:20"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// EncodeTags normalizes a tag list into sentinel-comma storage form.
// Empty entries are dropped; order is preserved. Comma-carrying tags are
// rejected before this point and never reach storage.
func EncodeTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || strings.Contains(t, ",") {
			continue
		}
		clean = append(clean, t)
	}
	if len(clean) == 0 {
		return ""
	}
	return "," + strings.Join(clean, ",") + ","
}

func DecodeTags(stored string) []string {
	trimmed := strings.Trim(stored, ",")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, ",")
}

func (n *Note) TagList() []string { return DecodeTags(n.Tags) }

// HasTag is the exact, byte-sensitive membership check. The SQL LIKE that
// pre-filters rows is collation-insensitive on both MySQL and SQLite, so
// callers re-check with this before trusting a match.
func (n *Note) HasTag(tag string) bool {
	return strings.Contains(n.Tags, ","+tag+",")
}

// TagPattern builds the LIKE pattern matching notes whose tag set contains
// the given tag exactly (case-sensitive).
func TagPattern(tag string) string { return "%," + tag + ",%" }

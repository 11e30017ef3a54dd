package models

import "time"

// Folder is a node in the per-owner folder tree. ParentFolderID nil means
// root; the parent chain is kept acyclic by the hierarchy store's ancestor
// walk, never by structure embedded in the record itself.
type Folder struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	OwnerID        uint   `json:"user_id" gorm:"index"`
	Name           string `json:"name" gorm:"size:255"`
	ParentFolderID *uint  `json:"parent_folder_id" gorm:"index"`

	// Number of notes directly inside this folder, maintained in the same
	// transaction as every note mutation that touches folder_id.
	NotesCount int `json:"notes_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// FolderNode is a folder with its children resolved, used by the tree query.
type FolderNode struct {
	Folder
	Children []*FolderNode `json:"children"`
}

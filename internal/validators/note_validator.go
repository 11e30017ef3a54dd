package validators

type CreateFolderRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	ParentFolderID *uint  `json:"parent_folder_id"`
}

type UpdateFolderRequest struct {
	Name           *string `json:"name,omitempty" binding:"omitempty,max=255"`
	ParentFolderID *uint   `json:"parent_folder_id,omitempty"`
	// MoveToRoot distinguishes "re-parent to root" from "leave parent alone",
	// which a nullable id alone cannot express.
	MoveToRoot bool `json:"move_to_root,omitempty"`
}

type CreateNoteRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content"`
	FolderID *uint  `json:"folder_id"`
	// 0x2C is a comma, which the tag storage form reserves.
	Tags []string `json:"tags" binding:"omitempty,dive,excludesall=0x2C"`
}

type UpdateNoteRequest struct {
	Title    *string   `json:"title,omitempty" binding:"omitempty,max=255"`
	Content  *string   `json:"content,omitempty"`
	FolderID *uint     `json:"folder_id,omitempty"`
	Tags     *[]string `json:"tags,omitempty" binding:"omitempty,dive,excludesall=0x2C"`
	// MoveToRoot pulls the note out of its folder.
	MoveToRoot bool `json:"move_to_root,omitempty"`
}

type GrantRequest struct {
	Username        string `json:"username" binding:"required"`
	PermissionLevel string `json:"permission_level" binding:"required"`
}

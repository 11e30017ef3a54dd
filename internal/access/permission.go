package access

import "github.com/AbdulBaasithere/socializeNotion/internal/apperr"

// Permission is the collaborator ladder, a total order: view < edit < admin.
// A grant at one level carries every capability below it, so checks are a
// single comparison.
type Permission int8

const (
	PermissionView Permission = iota + 1
	PermissionEdit
	PermissionAdmin
)

const (
	levelView  = "view"
	levelEdit  = "edit"
	levelAdmin = "admin"
)

// ParsePermission accepts exactly the closed set {view, edit, admin}.
func ParsePermission(s string) (Permission, error) {
	switch s {
	case levelView:
		return PermissionView, nil
	case levelEdit:
		return PermissionEdit, nil
	case levelAdmin:
		return PermissionAdmin, nil
	default:
		return 0, apperr.InvalidArgument("invalid permission level %q", s)
	}
}

func (p Permission) String() string {
	switch p {
	case PermissionView:
		return levelView
	case PermissionEdit:
		return levelEdit
	case PermissionAdmin:
		return levelAdmin
	default:
		return "unknown"
	}
}

func (p Permission) AtLeast(required Permission) bool { return p >= required }

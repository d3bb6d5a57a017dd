package rbac

import "time"

// Permission represents an atomic capability, identified by a unique
// namespaced code such as "user:delete".
type Permission struct {
	ID          string
	Name        string
	Code        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Role represents a named permission grouping with a unique URL-safe code.
type Role struct {
	ID          string
	Name        string
	Code        string
	Description string
	Permissions []Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Principal describes the authenticated actor. Implementations must be loaded
// with their full role/permission graph before authorization decisions.
type Principal interface {
	GetID() string
	IsSuperUser() bool
	GetRoles() []Role
}

package users

import (
	"time"

	"github.com/sentinel-iam/sentinel/internal/rbac"
)

// User represents a user account with its assigned roles. Role and permission
// data is eager-loaded so authorization decisions never need a second fetch.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	IsActive     bool
	IsSuperuser  bool
	Roles        []rbac.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetID implements rbac.Principal.
func (u *User) GetID() string { return u.ID }

// IsSuperUser implements rbac.Principal.
func (u *User) IsSuperUser() bool { return u.IsSuperuser }

// GetRoles implements rbac.Principal.
func (u *User) GetRoles() []rbac.Role { return u.Roles }

var _ rbac.Principal = (*User)(nil)

package roles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// CreateRoleInput carries the fields for role creation.
type CreateRoleInput struct {
	Name        string
	Code        string
	Description string
}

// UpdateRoleInput carries optional role mutations. The code is immutable once
// created; tokens minted against it would silently lose their scope meaning.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// Service handles role business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of roles matching the search term.
func (s *Service) List(ctx context.Context, search string, page, pageSize int) ([]rbac.Role, shared.Pagination, error) {
	result, total, err := s.repo.List(ctx, strings.TrimSpace(search), pageSize, shared.Offset(page, pageSize))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return result, shared.NewPagination(page, pageSize, total), nil
}

// Get fetches a role with its permissions.
func (s *Service) Get(ctx context.Context, id string) (*rbac.Role, error) {
	return s.repo.FindByID(ctx, id)
}

// Create inserts a new role. A duplicate code fails with shared.ErrConflict.
func (s *Service) Create(ctx context.Context, in CreateRoleInput) (*rbac.Role, error) {
	code := strings.TrimSpace(in.Code)
	if existing, err := s.repo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, shared.ErrConflict
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	role := &rbac.Role{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Code:        code,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Update applies name/description changes and returns the refreshed role.
func (s *Service) Update(ctx context.Context, id string, in UpdateRoleInput) (*rbac.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		role.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		role.Description = strings.TrimSpace(*in.Description)
	}
	if err := s.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a role, detaching it from all users and permissions.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetPermissions replaces the role's permission set and returns the result.
func (s *Service) SetPermissions(ctx context.Context, roleID string, permissionIDs []string) (*rbac.Role, error) {
	if _, err := s.repo.FindByID(ctx, roleID); err != nil {
		return nil, err
	}
	if err := s.repo.SetPermissions(ctx, roleID, permissionIDs); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, roleID)
}

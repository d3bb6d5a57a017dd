package permissions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// CreatePermissionInput carries the fields for permission creation.
type CreatePermissionInput struct {
	Name        string
	Code        string
	Description string
}

// UpdatePermissionInput carries optional permission mutations. The code is
// immutable; role assignments and minted scopes reference it by value.
type UpdatePermissionInput struct {
	Name        *string
	Description *string
}

// Service handles permission business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of permissions matching the search term.
func (s *Service) List(ctx context.Context, search string, page, pageSize int) ([]rbac.Permission, shared.Pagination, error) {
	result, total, err := s.repo.List(ctx, strings.TrimSpace(search), pageSize, shared.Offset(page, pageSize))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return result, shared.NewPagination(page, pageSize, total), nil
}

// Get fetches a permission by ID.
func (s *Service) Get(ctx context.Context, id string) (*rbac.Permission, error) {
	return s.repo.FindByID(ctx, id)
}

// Create inserts a new permission. A duplicate code fails with shared.ErrConflict.
func (s *Service) Create(ctx context.Context, in CreatePermissionInput) (*rbac.Permission, error) {
	code := strings.TrimSpace(in.Code)
	if existing, err := s.repo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, shared.ErrConflict
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	perm := &rbac.Permission{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Code:        code,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.repo.Create(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// Update applies name/description changes.
func (s *Service) Update(ctx context.Context, id string, in UpdatePermissionInput) (*rbac.Permission, error) {
	perm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		perm.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		perm.Description = strings.TrimSpace(*in.Description)
	}
	if err := s.repo.Update(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// Delete removes a permission, detaching it from all roles.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

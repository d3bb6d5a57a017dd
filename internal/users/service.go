package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sentinel-iam/sentinel/internal/password"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// CreateUserInput carries the fields for admin user creation.
type CreateUserInput struct {
	Email       string
	Password    string
	FullName    string
	IsActive    bool
	IsSuperuser bool
	RoleIDs     []string
}

// UpdateUserInput carries optional user mutations. The superuser flag is
// deliberately absent; it is only set through the seed path.
type UpdateUserInput struct {
	Email    *string
	FullName *string
	Password *string
	IsActive *bool
}

// Service handles user account business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a self-service account. Registration never grants
// superuser and the account starts active with no roles.
func (s *Service) Register(ctx context.Context, email, plainPassword, fullName string) (*User, error) {
	return s.create(ctx, CreateUserInput{
		Email:    email,
		Password: plainPassword,
		FullName: fullName,
		IsActive: true,
	})
}

// Create inserts a user with the given flags and role assignment.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*User, error) {
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in CreateUserInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, shared.ErrConflict
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     in.IsActive,
		IsSuperuser:  in.IsSuperuser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	if len(in.RoleIDs) > 0 {
		if err := s.repo.SetRoles(ctx, user.ID, in.RoleIDs); err != nil {
			return nil, err
		}
		return s.repo.FindByID(ctx, user.ID)
	}
	return user, nil
}

// Get fetches a user with its role/permission graph.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a page of users matching the filters.
func (s *Service) List(ctx context.Context, search string, isActive *bool, page, pageSize int) ([]User, shared.Pagination, error) {
	result, total, err := s.repo.List(ctx, ListFilters{
		Search:   strings.TrimSpace(search),
		IsActive: isActive,
		Limit:    pageSize,
		Offset:   shared.Offset(page, pageSize),
	})
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return result, shared.NewPagination(page, pageSize, total), nil
}

// Update applies the given mutations. Changing email to one already taken
// fails with shared.ErrConflict; a new password is rehashed before storage.
func (s *Service) Update(ctx context.Context, id string, in UpdateUserInput) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
				return nil, shared.ErrConflict
			} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := password.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a user account. Issued tokens stay cryptographically valid
// until expiry; the authenticate path rejects the vanished principal instead.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AssignRoles replaces the user's role set and returns the refreshed user.
func (s *Service) AssignRoles(ctx context.Context, userID string, roleIDs []string) (*User, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.SetRoles(ctx, userID, roleIDs); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

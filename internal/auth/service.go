package auth

import (
	"context"
	"errors"
	"time"

	"github.com/sentinel-iam/sentinel/internal/password"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
	"github.com/sentinel-iam/sentinel/internal/token"
	"github.com/sentinel-iam/sentinel/internal/users"
)

// PrincipalStore loads user accounts with their full role/permission graph.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// TokenPair is the login/refresh response: a minutes-scale access token and a
// days-scale refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Service orchestrates credential verification and the token lifecycle. It is
// stateless: nothing is persisted on login or refresh, and concurrent mints
// for the same principal are independent.
type Service struct {
	store PrincipalStore
	codec *token.Codec
	now   func() time.Time
}

// NewService constructs a new Service.
func NewService(store PrincipalStore, codec *token.Codec) *Service {
	return &Service{store: store, codec: codec, now: time.Now}
}

// Login verifies credentials and mints a fresh token pair. Unknown email and
// wrong password fail identically so account existence cannot be probed; an
// inactive account fails distinctly because identity is already proven.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (TokenPair, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, shared.ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if !password.Verify(plainPassword, user.PasswordHash) {
		return TokenPair{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return TokenPair{}, shared.ErrInactiveAccount
	}
	return s.mint(user)
}

// Refresh validates a refresh token and mints a brand-new pair with freshly
// resolved scopes, capturing any role changes since the original login. The
// presented refresh token is not invalidated; without a revocation store it
// stays valid until natural expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.codec.DecodeAs(refreshToken, token.TypeRefresh, s.now())
	if err != nil {
		return TokenPair{}, shared.ErrUnauthorized
	}
	user, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, shared.ErrUnauthorized
		}
		return TokenPair{}, err
	}
	if !user.IsActive {
		return TokenPair{}, shared.ErrUnauthorized
	}
	return s.mint(user)
}

// Authenticate resolves an access token to its principal, re-checking the
// account against current state. A deactivated or deleted principal is
// rejected even while its token is still cryptographically valid; the token's
// embedded scopes are never used for authorization, the gate re-resolves
// permissions from the loaded principal.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*users.User, error) {
	claims, err := s.codec.DecodeAs(accessToken, token.TypeAccess, s.now())
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrUnauthorized
	}
	return user, nil
}

func (s *Service) mint(user *users.User) (TokenPair, error) {
	now := s.now()
	access, err := s.codec.Encode(user.ID, token.TypeAccess, rbac.Scopes(user), now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.codec.Encode(user.ID, token.TypeRefresh, nil, now)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

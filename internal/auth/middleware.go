package auth

import (
	"net/http"
	"strings"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
	"github.com/sentinel-iam/sentinel/internal/users"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// RequireAccessToken authenticates the request's bearer token and places the
// loaded principal in the request context. It performs no permission checks;
// those belong to the rbac middleware.
func RequireAccessToken(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(authorizationHeader))
			if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			user, err := service.Authenticate(r.Context(), strings.TrimPrefix(raw, bearerPrefix))
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			ctx := rbac.ContextWithPrincipal(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser extracts the authenticated user placed by RequireAccessToken.
func CurrentUser(r *http.Request) (*users.User, bool) {
	p := rbac.PrincipalFromContext(r.Context())
	user, ok := p.(*users.User)
	return user, ok
}

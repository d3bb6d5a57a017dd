package rbac

import (
	"log/slog"
	"net/http"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Middleware wires authorization guards for HTTP handlers. It expects the
// authentication layer to have placed a fully loaded principal in the request
// context; permissions are re-resolved from that principal on every request,
// never trusted from token scopes.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAll ensures the current principal holds every listed permission.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.guard(AllOf(perms...))
}

// RequireAny ensures the current principal holds at least one listed permission.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return m.guard(AnyOf(perms...))
}

// RequireRole ensures the current principal holds the role.
func (m Middleware) RequireRole(code string) func(http.Handler) http.Handler {
	return m.guard(RoleOf(code))
}

// RequireSuperuser ensures the current principal is a superuser.
func (m Middleware) RequireSuperuser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			if !p.IsSuperUser() {
				httpx.RespondError(w, &shared.ForbiddenError{Missing: []string{"superuser"}})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) guard(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			if err := Authorize(p, req); err != nil {
				if m.Logger != nil {
					m.Logger.Info("authorization denied",
						slog.String("principal", p.GetID()),
						slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

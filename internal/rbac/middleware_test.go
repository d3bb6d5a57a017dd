package rbac

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func serveGuarded(t *testing.T, guard func(http.Handler) http.Handler, p Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if p != nil {
		req = req.WithContext(ContextWithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareNoPrincipal(t *testing.T) {
	mw := Middleware{}

	rec := serveGuarded(t, mw.RequireAll("user:read"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = serveGuarded(t, mw.RequireSuperuser(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRequireAll(t *testing.T) {
	mw := Middleware{}
	viewer := stubPrincipal{id: "u2", roles: []Role{roleWith("viewer", "user:read", "role:read")}}

	rec := serveGuarded(t, mw.RequireAll("user:read"), viewer)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serveGuarded(t, mw.RequireAll("user:read", "user:delete"), viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var problem struct {
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, []string{"user:delete"}, problem.Missing)
}

func TestMiddlewareRequireAny(t *testing.T) {
	mw := Middleware{}
	viewer := stubPrincipal{id: "u2", roles: []Role{roleWith("viewer", "user:read")}}

	rec := serveGuarded(t, mw.RequireAny("user:delete", "user:read"), viewer)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serveGuarded(t, mw.RequireAny("user:delete", "user:create"), viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddlewareRequireRole(t *testing.T) {
	mw := Middleware{}
	viewer := stubPrincipal{id: "u2", roles: []Role{roleWith("viewer")}}

	rec := serveGuarded(t, mw.RequireRole("viewer"), viewer)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serveGuarded(t, mw.RequireRole("admin"), viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddlewareRequireSuperuser(t *testing.T) {
	mw := Middleware{}

	rec := serveGuarded(t, mw.RequireSuperuser(), stubPrincipal{id: "root", super: true})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serveGuarded(t, mw.RequireSuperuser(), stubPrincipal{id: "u2", roles: []Role{roleWith("admin")}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var problem struct {
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, []string{"superuser"}, problem.Missing)
}

func TestMiddlewareSuperuserBypassesGuards(t *testing.T) {
	mw := Middleware{}
	root := stubPrincipal{id: "root", super: true}

	assert.Equal(t, http.StatusNoContent, serveGuarded(t, mw.RequireAll("user:delete"), root).Code)
	assert.Equal(t, http.StatusNoContent, serveGuarded(t, mw.RequireRole("admin"), root).Code)
}

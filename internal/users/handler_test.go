package users

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/rbac"
)

func testHandler(repo Repository) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), rbac.Middleware{})
}

// asPrincipal places the user in the request context the way the auth
// middleware would.
func asPrincipal(u *User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(rbac.ContextWithPrincipal(r.Context(), u)))
		})
	}
}

func mountAs(h *Handler, u *User) http.Handler {
	router := chi.NewRouter()
	router.Route("/users", func(r chi.Router) {
		if u != nil {
			r.Use(asPrincipal(u))
		}
		h.MountRoutes(r)
	})
	return router
}

func seedUser(t *testing.T, svc *Service, email string) *User {
	t.Helper()
	user, err := svc.Register(context.Background(), email, "secret-pass", "")
	require.NoError(t, err)
	return user
}

func adminPrincipal() *User {
	return &User{
		ID:       "admin-1",
		Email:    "admin@example.com",
		IsActive: true,
		Roles: []rbac.Role{{
			Code: "admin",
			Permissions: []rbac.Permission{
				{Code: "user:read"}, {Code: "user:create"},
				{Code: "user:update"}, {Code: "user:delete"},
			},
		}},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetSelf(t *testing.T) {
	repo := newFakeRepo()
	h := testHandler(repo)
	me := seedUser(t, h.service, "me@example.com")

	rec := doJSON(t, mountAs(h, me), http.MethodGet, "/users/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "me@example.com", resp.Email)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUpdateSelfCannotEscalate(t *testing.T) {
	repo := newFakeRepo()
	h := testHandler(repo)
	me := seedUser(t, h.service, "me@example.com")

	// Flags in the self-update body are silently ignored.
	rec := doJSON(t, mountAs(h, me), http.MethodPut, "/users/me", map[string]any{
		"full_name":    "Renamed",
		"is_superuser": true,
		"is_active":    false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Renamed", resp.FullName)
	assert.False(t, resp.IsSuperuser)
	assert.True(t, resp.IsActive)
}

func TestListRequiresPermission(t *testing.T) {
	repo := newFakeRepo()
	h := testHandler(repo)
	seedUser(t, h.service, "someone@example.com")

	// No principal at all.
	rec := doJSON(t, mountAs(h, nil), http.MethodGet, "/users/", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Principal without user:read.
	nobody := &User{ID: "n1", IsActive: true}
	rec = doJSON(t, mountAs(h, nobody), http.MethodGet, "/users/", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, mountAs(h, adminPrincipal()), http.MethodGet, "/users/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	repo := newFakeRepo()
	repo.roles["r1"] = rbac.Role{ID: "r1", Code: "viewer"}
	h := testHandler(repo)
	router := mountAs(h, adminPrincipal())

	rec := doJSON(t, router, http.MethodPost, "/users/", map[string]any{
		"email":    "new@example.com",
		"password": "longenough",
		"role_ids": []string{"r1"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new@example.com", resp.Email)
	assert.True(t, resp.IsActive)
	require.Len(t, resp.Roles, 1)
	assert.Equal(t, "viewer", resp.Roles[0].Code)

	// Duplicate email conflicts.
	rec = doJSON(t, router, http.MethodPost, "/users/", map[string]any{
		"email":    "new@example.com",
		"password": "longenough",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetUpdateDeleteEndpoints(t *testing.T) {
	repo := newFakeRepo()
	h := testHandler(repo)
	target := seedUser(t, h.service, "target@example.com")
	router := mountAs(h, adminPrincipal())

	rec := doJSON(t, router, http.MethodGet, "/users/"+target.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/users/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/users/"+target.ID, map[string]any{
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsActive)

	rec = doJSON(t, router, http.MethodDelete, "/users/"+target.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/users/"+target.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignRolesEndpoint(t *testing.T) {
	repo := newFakeRepo()
	repo.roles["r1"] = rbac.Role{ID: "r1", Code: "viewer"}
	h := testHandler(repo)
	target := seedUser(t, h.service, "target@example.com")
	router := mountAs(h, adminPrincipal())

	rec := doJSON(t, router, http.MethodPut, "/users/"+target.ID+"/roles", map[string]any{
		"role_ids": []string{"r1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Roles, 1)
	assert.Equal(t, "viewer", resp.Roles[0].Code)

	rec = doJSON(t, router, http.MethodPut, "/users/missing/roles", map[string]any{
		"role_ids": []string{"r1"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

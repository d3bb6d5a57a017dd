package permissions

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

type rootPrincipal struct{}

func (rootPrincipal) GetID() string         { return "root" }
func (rootPrincipal) IsSuperUser() bool     { return true }
func (rootPrincipal) GetRoles() []rbac.Role { return nil }

func mountTestHandler(repo Repository) (http.Handler, *Service) {
	svc := NewService(repo)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, rbac.Middleware{})
	router := chi.NewRouter()
	router.Route("/permissions", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(rbac.ContextWithPrincipal(req.Context(), rootPrincipal{})))
			})
		})
		h.MountRoutes(r)
	})
	return router, svc
}

func putJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdatePermissionEndpoint(t *testing.T) {
	router, svc := mountTestHandler(newFakeRepo())
	perm, err := svc.Create(context.Background(), CreatePermissionInput{Name: "Export", Code: "report:export"})
	require.NoError(t, err)

	rec := putJSON(t, router, "/permissions/"+perm.ID, map[string]any{"name": "Export Reports"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Export Reports", resp.Name)
	assert.Equal(t, "report:export", resp.Code)

	// An explicitly empty name fails validation before reaching the service.
	rec = putJSON(t, router, "/permissions/"+perm.ID, map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = putJSON(t, router, "/permissions/missing-id", map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

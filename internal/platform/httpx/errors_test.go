package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/shared"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		status     int
		wantBearer bool
	}{
		{"invalid credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized, true},
		{"inactive account", shared.ErrInactiveAccount, http.StatusBadRequest, false},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, true},
		{"not found", shared.ErrNotFound, http.StatusNotFound, false},
		{"conflict", shared.ErrConflict, http.StatusConflict, false},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tc.wantBearer {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRespondErrorForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, &shared.ForbiddenError{Missing: []string{"user:delete", "role:delete"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Forbidden", problem.Title)
	assert.Equal(t, []string{"user:delete", "role:delete"}, problem.Missing)
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: connection refused"))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Empty(t, problem.Detail)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRespondErrorWrappedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.Join(errors.New("context"), shared.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package httpx

import (
	"errors"
	"net/http"

	"github.com/sentinel-iam/sentinel/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var forbidden *shared.ForbiddenError
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		Problem(w, http.StatusUnauthorized, "Invalid Credentials", err.Error())
	case errors.Is(err, shared.ErrInactiveAccount):
		Problem(w, http.StatusBadRequest, "Inactive Account", err.Error())
	case errors.Is(err, shared.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", "Bearer")
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.As(err, &forbidden):
		JSON(w, http.StatusForbidden, ProblemDetail{
			Title:   "Forbidden",
			Status:  http.StatusForbidden,
			Detail:  forbidden.Error(),
			Missing: forbidden.Missing,
		})
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

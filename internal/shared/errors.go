package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a duplicate email or code on create/update.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials indicates login failure. The message is shared
	// between unknown-email and wrong-password so accounts cannot be enumerated.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInactiveAccount indicates valid credentials on a deactivated account.
	ErrInactiveAccount = errors.New("inactive account")
	// ErrUnauthorized indicates a missing, invalid, expired or wrong-type token,
	// or a principal that vanished or was deactivated after mint.
	ErrUnauthorized = errors.New("unauthorized")
)

// ForbiddenError is returned when an authenticated principal lacks the
// required permissions or role. Missing lists exactly the absent codes.
type ForbiddenError struct {
	Missing []string
}

func (e *ForbiddenError) Error() string {
	if len(e.Missing) == 0 {
		return "forbidden"
	}
	return fmt.Sprintf("forbidden: missing %s", strings.Join(e.Missing, ", "))
}

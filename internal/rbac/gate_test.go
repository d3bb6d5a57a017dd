package rbac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/shared"
)

func TestAuthorizeAllOf(t *testing.T) {
	admin := stubPrincipal{id: "u1", roles: []Role{
		roleWith("admin", "user:read", "user:create", "user:update", "user:delete"),
	}}
	viewer := stubPrincipal{id: "u2", roles: []Role{
		roleWith("viewer", "user:read", "role:read"),
	}}

	assert.NoError(t, Authorize(admin, AllOf("user:delete")))
	assert.NoError(t, Authorize(viewer, AllOf("user:read", "role:read")))

	err := Authorize(viewer, AllOf("user:read", "user:delete"))
	var forbidden *shared.ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	assert.Equal(t, []string{"user:delete"}, forbidden.Missing)
}

func TestAuthorizeAnyOf(t *testing.T) {
	viewer := stubPrincipal{id: "u2", roles: []Role{roleWith("viewer", "user:read")}}

	assert.NoError(t, Authorize(viewer, AnyOf("user:delete", "user:read")))

	err := Authorize(viewer, AnyOf("user:delete", "user:update"))
	var forbidden *shared.ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	// AnyOf failure reports the full alternative set.
	assert.Equal(t, []string{"user:delete", "user:update"}, forbidden.Missing)
}

func TestAuthorizeRole(t *testing.T) {
	viewer := stubPrincipal{id: "u2", roles: []Role{roleWith("viewer", "user:read")}}

	assert.NoError(t, Authorize(viewer, RoleOf("viewer")))

	err := Authorize(viewer, RoleOf("admin"))
	var forbidden *shared.ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	assert.Equal(t, []string{"role:admin"}, forbidden.Missing)
}

func TestAuthorizeSuperuserBypass(t *testing.T) {
	root := stubPrincipal{id: "root", super: true}
	assert.NoError(t, Authorize(root, AllOf("user:delete", "role:delete")))
	assert.NoError(t, Authorize(root, AnyOf("whatever")))
	assert.NoError(t, Authorize(root, RoleOf("admin")))
}

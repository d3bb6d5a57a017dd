package permissions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

type fakeRepo struct {
	perms map[string]*rbac.Permission
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{perms: map[string]*rbac.Permission{}}
}

func (r *fakeRepo) List(_ context.Context, search string, limit, offset int) ([]rbac.Permission, int, error) {
	var out []rbac.Permission
	for _, p := range r.perms {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*rbac.Permission, error) {
	if p, ok := r.perms[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRepo) FindByCode(_ context.Context, code string) (*rbac.Permission, error) {
	for _, p := range r.perms {
		if p.Code == code {
			clone := *p
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRepo) Create(_ context.Context, p *rbac.Permission) error {
	clone := *p
	r.perms[p.ID] = &clone
	return nil
}

func (r *fakeRepo) Update(_ context.Context, p *rbac.Permission) error {
	if _, ok := r.perms[p.ID]; !ok {
		return shared.ErrNotFound
	}
	clone := *p
	r.perms[p.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.perms[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.perms, id)
	return nil
}

func TestCreatePermission(t *testing.T) {
	svc := NewService(newFakeRepo())

	perm, err := svc.Create(context.Background(), CreatePermissionInput{
		Name:        " Export Reports ",
		Code:        " report:export ",
		Description: "Download reporting data",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, perm.ID)
	assert.Equal(t, "Export Reports", perm.Name)
	assert.Equal(t, "report:export", perm.Code)
}

func TestCreatePermissionDuplicateCode(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreatePermissionInput{Name: "First", Code: "report:export"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreatePermissionInput{Name: "Second", Code: "report:export"})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdatePermissionKeepsCode(t *testing.T) {
	svc := NewService(newFakeRepo())

	perm, err := svc.Create(context.Background(), CreatePermissionInput{Name: "Export", Code: "report:export"})
	require.NoError(t, err)

	name := "Export All Reports"
	updated, err := svc.Update(context.Background(), perm.ID, UpdatePermissionInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Export All Reports", updated.Name)
	assert.Equal(t, "report:export", updated.Code)

	_, err = svc.Update(context.Background(), "nope", UpdatePermissionInput{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeletePermission(t *testing.T) {
	svc := NewService(newFakeRepo())

	perm, err := svc.Create(context.Background(), CreatePermissionInput{Name: "Export", Code: "report:export"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), perm.ID))
	_, err = svc.Get(context.Background(), perm.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

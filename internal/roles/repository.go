package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Repository defines persistence operations for roles.
type Repository interface {
	List(ctx context.Context, search string, limit, offset int) ([]rbac.Role, int, error)
	FindByID(ctx context.Context, id string) (*rbac.Role, error)
	FindByCode(ctx context.Context, code string) (*rbac.Role, error)
	Create(ctx context.Context, role *rbac.Role) error
	Update(ctx context.Context, role *rbac.Role) error
	Delete(ctx context.Context, id string) error
	SetPermissions(ctx context.Context, roleID string, permissionIDs []string) error
}

const roleColumns = "id, name, code, description, created_at, updated_at"

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns a page of roles matching the search term plus the total count.
func (r *PGRepository) List(ctx context.Context, search string, limit, offset int) ([]rbac.Role, int, error) {
	where := "TRUE"
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = "(name ILIKE $1 OR code ILIKE $1)"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM roles WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM roles WHERE %s ORDER BY code LIMIT $%d OFFSET $%d",
		roleColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []rbac.Role
	for rows.Next() {
		var role rbac.Role
		if err := scanRole(rows, &role); err != nil {
			return nil, 0, err
		}
		result = append(result, role)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// FindByID fetches a role with its permissions.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*rbac.Role, error) {
	return r.findOne(ctx, "SELECT "+roleColumns+" FROM roles WHERE id = $1", id)
}

// FindByCode fetches a role by its unique code.
func (r *PGRepository) FindByCode(ctx context.Context, code string) (*rbac.Role, error) {
	return r.findOne(ctx, "SELECT "+roleColumns+" FROM roles WHERE code = $1", code)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*rbac.Role, error) {
	var role rbac.Role
	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&role.ID, &role.Name, &role.Code, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	perms, err := r.loadPermissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	return &role, nil
}

// Create inserts a new role. Duplicate codes fail with shared.ErrConflict.
func (r *PGRepository) Create(ctx context.Context, role *rbac.Role) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO roles (id, name, code, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		role.ID, role.Name, role.Code, role.Description,
	).Scan(&role.CreatedAt, &role.UpdatedAt)
	return translateErr(err)
}

// Update persists name and description changes.
func (r *PGRepository) Update(ctx context.Context, role *rbac.Role) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE roles
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		role.ID, role.Name, role.Description,
	).Scan(&role.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return translateErr(err)
}

// Delete removes a role. User and permission associations cascade; the users
// and permissions themselves are untouched.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM roles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetPermissions replaces the role's permission set, attaching additions and
// detaching removals instead of rewriting the whole association.
func (r *PGRepository) SetPermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	existing, err := r.loadPermissions(ctx, roleID)
	if err != nil {
		return err
	}
	current := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		current[p.ID] = struct{}{}
	}
	keep := make(map[string]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		keep[id] = struct{}{}
		if _, ok := current[id]; !ok {
			if _, err := r.pool.Exec(ctx,
				"INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				roleID, id,
			); err != nil {
				return err
			}
		}
	}
	for id := range current {
		if _, ok := keep[id]; !ok {
			if _, err := r.pool.Exec(ctx,
				"DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2",
				roleID, id,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *PGRepository) loadPermissions(ctx context.Context, roleID string) ([]rbac.Permission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.code, p.description, p.created_at, p.updated_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.code`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []rbac.Permission
	for rows.Next() {
		var perm rbac.Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Code, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}

func scanRole(rows pgx.Rows, role *rbac.Role) error {
	return rows.Scan(&role.ID, &role.Name, &role.Code, &role.Description, &role.CreatedAt, &role.UpdatedAt)
}

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrConflict
	}
	return err
}

var _ Repository = (*PGRepository)(nil)

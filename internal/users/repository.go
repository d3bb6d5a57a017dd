package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// ListFilters narrows and pages the user listing.
type ListFilters struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filters ListFilters) ([]User, int, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	SetRoles(ctx context.Context, userID string, roleIDs []string) error
}

const userColumns = "id, email, password_hash, full_name, is_active, is_superuser, created_at, updated_at"

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by email with roles and permissions loaded.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

// FindByID fetches a user by ID with roles and permissions loaded.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.IsActive, &user.IsSuperuser, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	roles, err := r.loadRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

// List returns a page of users plus the total match count.
func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]User, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where = append(where, fmt.Sprintf("(email ILIKE $%d OR full_name ILIKE $%d)", len(args), len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.Limit, filters.Offset)
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY email LIMIT $%d OFFSET $%d",
		userColumns, cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
			&user.IsActive, &user.IsSuperuser, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Create inserts a new user.
func (r *PGRepository) Create(ctx context.Context, user *User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.IsActive, user.IsSuperuser,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return translateErr(err)
}

// Update persists mutable user fields.
func (r *PGRepository) Update(ctx context.Context, user *User) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = $2, password_hash = $3, full_name = $4, is_active = $5, is_superuser = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.IsActive, user.IsSuperuser,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return translateErr(err)
}

// Delete removes a user. Role associations cascade on the association table.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetRoles replaces the user's role assignment with the given set.
func (r *PGRepository) SetRoles(ctx context.Context, userID string, roleIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM user_roles WHERE user_id = $1", userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx,
			"INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			userID, roleID,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepository) loadRoles(ctx context.Context, userID string) ([]rbac.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.name, r.code, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.code`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []rbac.Role
	var roleIDs []string
	for rows.Next() {
		var role rbac.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Code, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
		roleIDs = append(roleIDs, role.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return roles, nil
	}

	permRows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.code, p.description, p.created_at, p.updated_at, rp.role_id
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = ANY($1)
		ORDER BY p.code`, roleIDs)
	if err != nil {
		return nil, err
	}
	defer permRows.Close()

	byRole := make(map[string][]rbac.Permission, len(roles))
	for permRows.Next() {
		var perm rbac.Permission
		var roleID string
		if err := permRows.Scan(&perm.ID, &perm.Name, &perm.Code, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt, &roleID); err != nil {
			return nil, err
		}
		byRole[roleID] = append(byRole[roleID], perm)
	}
	if err := permRows.Err(); err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i].Permissions = byRole[roles[i].ID]
	}
	return roles, nil
}

// translateErr maps unique violations to the shared conflict sentinel.
func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrConflict
	}
	return err
}

var _ Repository = (*PGRepository)(nil)

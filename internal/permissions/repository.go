package permissions

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

// Repository defines persistence operations for permissions.
type Repository interface {
	List(ctx context.Context, search string, limit, offset int) ([]rbac.Permission, int, error)
	FindByID(ctx context.Context, id string) (*rbac.Permission, error)
	FindByCode(ctx context.Context, code string) (*rbac.Permission, error)
	Create(ctx context.Context, perm *rbac.Permission) error
	Update(ctx context.Context, perm *rbac.Permission) error
	Delete(ctx context.Context, id string) error
}

const permColumns = "id, name, code, description, created_at, updated_at"

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns a page of permissions matching the search term plus the total count.
func (r *PGRepository) List(ctx context.Context, search string, limit, offset int) ([]rbac.Permission, int, error) {
	where := "TRUE"
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = "(name ILIKE $1 OR code ILIKE $1)"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM permissions WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM permissions WHERE %s ORDER BY code LIMIT $%d OFFSET $%d",
		permColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []rbac.Permission
	for rows.Next() {
		var perm rbac.Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Code, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// FindByID fetches a permission by ID.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*rbac.Permission, error) {
	return r.findOne(ctx, "SELECT "+permColumns+" FROM permissions WHERE id = $1", id)
}

// FindByCode fetches a permission by its unique code.
func (r *PGRepository) FindByCode(ctx context.Context, code string) (*rbac.Permission, error) {
	return r.findOne(ctx, "SELECT "+permColumns+" FROM permissions WHERE code = $1", code)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*rbac.Permission, error) {
	var perm rbac.Permission
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&perm.ID, &perm.Name, &perm.Code, &perm.Description, &perm.CreatedAt, &perm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &perm, nil
}

// Create inserts a new permission. Duplicate codes fail with shared.ErrConflict.
func (r *PGRepository) Create(ctx context.Context, perm *rbac.Permission) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO permissions (id, name, code, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		perm.ID, perm.Name, perm.Code, perm.Description,
	).Scan(&perm.CreatedAt, &perm.UpdatedAt)
	return translateErr(err)
}

// Update persists name and description changes.
func (r *PGRepository) Update(ctx context.Context, perm *rbac.Permission) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE permissions
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		perm.ID, perm.Name, perm.Description,
	).Scan(&perm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return translateErr(err)
}

// Delete removes a permission. Role associations cascade.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM permissions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrConflict
	}
	return err
}

var _ Repository = (*PGRepository)(nil)

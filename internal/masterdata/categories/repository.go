package categories

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, code string, category Category) (Category, error)
	Delete(ctx context.Context, code string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, code, description, image, created_at`

// List returns categories newest first.
func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	where := ``
	args := []any{}
	if filters.Search != "" {
		args = append(args, shared.LikePattern(filters.Search))
		where = ` WHERE code ILIKE $1 OR description ILIKE $1`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM categories` + where + ` ORDER BY created_at DESC, id DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit, filters.Offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Category, error) { return scanCategory(row) })
	return out, total, err
}

func (r *repository) Create(ctx context.Context, c Category) (Category, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO categories (code, description, image)
VALUES ($1, $2, $3) RETURNING `+columns, c.Code, c.Description, c.Image)
	created, err := scanCategory(row)
	return created, shared.TranslateError(err)
}

func (r *repository) Update(ctx context.Context, code string, c Category) (Category, error) {
	row := r.pool.QueryRow(ctx, `UPDATE categories SET code = $2, description = $3, image = $4, updated_at = NOW()
WHERE code = $1 RETURNING `+columns, code, c.Code, c.Description, c.Image)
	updated, err := scanCategory(row)
	return updated, shared.TranslateError(err)
}

func (r *repository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Code, &c.Description, &c.Image, &c.CreatedAt)
	return c, err
}

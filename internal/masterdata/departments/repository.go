package departments

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Department, int, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, dept Department) (Department, error)
	Update(ctx context.Context, id int64, dept Department) (Department, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, name, code, description, date_created`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Department, int, error) {
	where := ``
	args := []any{}
	if filters.Search != "" {
		args = append(args, shared.LikePattern(filters.Search))
		where = ` WHERE name ILIKE $1 OR code ILIKE $1`
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM departments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + columns + ` FROM departments` + where + ` ORDER BY created_at DESC, id DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit, filters.Offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Department, error) { return scanDepartment(row) })
	return out, total, err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&n)
	return n, err
}

func (r *repository) Create(ctx context.Context, d Department) (Department, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO departments (name, code, description)
VALUES ($1, $2, $3) RETURNING `+columns, d.Name, d.Code, d.Description)
	created, err := scanDepartment(row)
	return created, shared.TranslateError(err)
}

func (r *repository) Update(ctx context.Context, id int64, d Department) (Department, error) {
	row := r.pool.QueryRow(ctx, `UPDATE departments SET name = $2, code = $3, description = $4, updated_at = NOW()
WHERE id = $1 RETURNING `+columns, id, d.Name, d.Code, d.Description)
	updated, err := scanDepartment(row)
	return updated, shared.TranslateError(err)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanDepartment(row pgx.Row) (Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.DateCreated)
	return d, err
}

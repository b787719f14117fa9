package suppliers

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, code string) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, code string, supplier Supplier) (Supplier, error)
	Delete(ctx context.Context, code string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, code, name, email, address, tp1, tp2, date, created_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	where := ``
	args := []any{}
	if filters.Search != "" {
		args = append(args, shared.LikePattern(filters.Search))
		where = ` WHERE code ILIKE $1 OR name ILIKE $1 OR email ILIKE $1`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM suppliers` + where + ` ORDER BY name ASC, id ASC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit, filters.Offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Supplier, error) { return scanSupplier(row) })
	return out, total, err
}

func (r *repository) Get(ctx context.Context, code string) (Supplier, error) {
	s, err := scanSupplier(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM suppliers WHERE code = $1`, code))
	return s, shared.TranslateError(err)
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO suppliers (code, name, email, address, tp1, tp2, date)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+columns,
		s.Code, s.Name, s.Email, s.Address, s.TP1, s.TP2, s.Date)
	created, err := scanSupplier(row)
	return created, shared.TranslateError(err)
}

func (r *repository) Update(ctx context.Context, code string, s Supplier) (Supplier, error) {
	row := r.pool.QueryRow(ctx, `UPDATE suppliers
SET code = $2, name = $3, email = $4, address = $5, tp1 = $6, tp2 = $7, date = $8, updated_at = NOW()
WHERE code = $1 RETURNING `+columns,
		code, s.Code, s.Name, s.Email, s.Address, s.TP1, s.TP2, s.Date)
	updated, err := scanSupplier(row)
	return updated, shared.TranslateError(err)
}

func (r *repository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Email, &s.Address, &s.TP1, &s.TP2, &s.Date, &s.CreatedAt)
	return s, err
}

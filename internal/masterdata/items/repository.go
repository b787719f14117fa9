package items

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error)
	Search(ctx context.Context, term string, limit int) ([]Item, error)
	Get(ctx context.Context, code string) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, code string, item Item) (Item, error)
	Delete(ctx context.Context, code string) (Item, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, item_code, category, unit_price, unit, image_path, rack_number, supplier, re_order, description, created_at, updated_at`

// List uses a dynamic query because filters are optional.
func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error) {
	where := ``
	args := []any{}
	if filters.Search != "" {
		args = append(args, shared.LikePattern(filters.Search))
		where = ` WHERE item_code ILIKE $1 OR description ILIKE $1 OR category ILIKE $1`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM items` + where + ` ORDER BY item_code ASC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit, filters.Offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Item, error) { return scanItem(row) })
	return out, total, err
}

// Search matches code, description or rack number case-insensitively.
func (r *repository) Search(ctx context.Context, term string, limit int) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM items
WHERE item_code ILIKE $1 OR description ILIKE $1 OR rack_number ILIKE $1
ORDER BY item_code ASC LIMIT $2`, shared.LikePattern(term), limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Item, error) { return scanItem(row) })
}

func (r *repository) Get(ctx context.Context, code string) (Item, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM items WHERE item_code = $1`, code))
	return item, shared.TranslateError(err)
}

func (r *repository) Create(ctx context.Context, it Item) (Item, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO items
(item_code, category, unit_price, unit, image_path, rack_number, supplier, re_order, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING `+columns,
		it.ItemCode, it.Category, it.UnitPrice, it.Unit, it.ImagePath, it.RackNumber, it.Supplier, it.ReOrder, it.Description)
	created, err := scanItem(row)
	return created, shared.TranslateError(err)
}

func (r *repository) Update(ctx context.Context, code string, it Item) (Item, error) {
	row := r.pool.QueryRow(ctx, `UPDATE items SET
category = $2, unit_price = $3, unit = $4, image_path = $5, rack_number = $6,
supplier = $7, re_order = $8, description = $9, updated_at = NOW()
WHERE item_code = $1 RETURNING `+columns,
		code, it.Category, it.UnitPrice, it.Unit, it.ImagePath, it.RackNumber, it.Supplier, it.ReOrder, it.Description)
	updated, err := scanItem(row)
	return updated, shared.TranslateError(err)
}

// Delete removes an item and returns the removed row.
func (r *repository) Delete(ctx context.Context, code string) (Item, error) {
	item, err := scanItem(r.pool.QueryRow(ctx, `DELETE FROM items WHERE item_code = $1 RETURNING `+columns, code))
	return item, shared.TranslateError(err)
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.ItemCode, &it.Category, &it.UnitPrice, &it.Unit, &it.ImagePath,
		&it.RackNumber, &it.Supplier, &it.ReOrder, &it.Description, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/smartstock/smartstock/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, kind, number, doc_date, header, lines,
	subtotal::text, discount::text, balance::text, vat::text, nbt::text, net_total::text,
	created_at, updated_at`

type txRepo struct {
	tx pgx.Tx
}

// WithTx runs fn inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
	return translate(err)
}

// Get fetches a document by id.
func (r *Repository) Get(ctx context.Context, kind Kind, id int64) (Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM documents WHERE kind = $1 AND id = $2`, string(kind), id)
	return scanDocument(row)
}

// List returns documents newest first.
func (r *Repository) List(ctx context.Context, kind Kind, filter ListFilter) ([]Document, int, error) {
	where := []string{"kind = $1"}
	args := []any{string(kind)}
	if s := strings.TrimSpace(filter.Supplier); s != "" {
		args = append(args, s)
		where = append(where, fmt.Sprintf("(supplier_code = $%d OR supplier_name = $%d)", len(args), len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(number ILIKE $%d OR supplier_name ILIKE $%d OR header::text ILIKE $%d)", len(args), len(args), len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + selectColumns + ` FROM documents WHERE ` + clause + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, doc)
	}
	return out, total, rows.Err()
}

// Delete removes a document.
func (r *Repository) Delete(ctx context.Context, kind Kind, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE kind = $1 AND id = $2`, string(kind), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) FindMostRecentInSeries(ctx context.Context, kind Kind) (*Document, error) {
	prefix := kind.Series() + "-"
	pattern := SeriesPattern(kind.Series())
	row := t.tx.QueryRow(ctx, `SELECT `+selectColumns+` FROM documents
		WHERE kind = $1 AND number ~ $2
		ORDER BY substring(number FROM $3)::bigint DESC, created_at DESC
		LIMIT 1`, string(kind), pattern, len(prefix)+1)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (t *txRepo) Insert(ctx context.Context, doc Document) (Document, error) {
	header, lines, err := encodeBody(doc)
	if err != nil {
		return Document{}, err
	}
	tot := doc.Totals
	row := t.tx.QueryRow(ctx, `INSERT INTO documents
		(kind, number, supplier_code, supplier_name, doc_date, header, lines,
		 subtotal, discount, balance, vat, nbt, net_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9::numeric, $10::numeric, $11::numeric, $12::numeric, $13::numeric)
		RETURNING `+selectColumns,
		string(doc.Kind), doc.Number, doc.Supplier.Code, doc.Supplier.Name, doc.Date, header, lines,
		tot.Subtotal.String(), tot.Discount.String(), tot.Balance.String(), tot.VAT.String(), tot.NBT.String(), tot.NetTotal.String())
	out, err := scanDocument(row)
	return out, translate(err)
}

func (t *txRepo) GetForUpdate(ctx context.Context, kind Kind, id int64) (Document, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+selectColumns+` FROM documents WHERE kind = $1 AND id = $2 FOR UPDATE`, string(kind), id)
	return scanDocument(row)
}

func (t *txRepo) Update(ctx context.Context, doc Document) (Document, error) {
	header, lines, err := encodeBody(doc)
	if err != nil {
		return Document{}, err
	}
	tot := doc.Totals
	row := t.tx.QueryRow(ctx, `UPDATE documents SET
		supplier_code = $3, supplier_name = $4, doc_date = $5, header = $6, lines = $7,
		subtotal = $8::numeric, discount = $9::numeric, balance = $10::numeric,
		vat = $11::numeric, nbt = $12::numeric, net_total = $13::numeric,
		updated_at = clock_timestamp()
		WHERE kind = $1 AND id = $2
		RETURNING `+selectColumns,
		string(doc.Kind), doc.ID, doc.Supplier.Code, doc.Supplier.Name, doc.Date, header, lines,
		tot.Subtotal.String(), tot.Discount.String(), tot.Balance.String(), tot.VAT.String(), tot.NBT.String(), tot.NetTotal.String())
	out, err := scanDocument(row)
	return out, translate(err)
}

func encodeBody(doc Document) ([]byte, []byte, error) {
	header, err := json.Marshal(doc.Details)
	if err != nil {
		return nil, nil, fmt.Errorf("documents: encode header: %w", err)
	}
	items := doc.Items
	if items == nil {
		items = []LineItem{}
	}
	lines, err := json.Marshal(items)
	if err != nil {
		return nil, nil, fmt.Errorf("documents: encode lines: %w", err)
	}
	return header, lines, nil
}

func scanDocument(row pgx.Row) (Document, error) {
	var (
		doc                                        Document
		kind                                       string
		header, lines                              []byte
		subtotal, discount, balance, vat, nbt, net string
		created, updated                           time.Time
	)
	err := row.Scan(&doc.ID, &kind, &doc.Number, &doc.Date, &header, &lines,
		&subtotal, &discount, &balance, &vat, &nbt, &net, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	doc.Kind = Kind(kind)
	doc.CreatedAt = created
	doc.UpdatedAt = updated
	if err := json.Unmarshal(header, &doc.Details); err != nil {
		return Document{}, fmt.Errorf("documents: decode header: %w", err)
	}
	if err := json.Unmarshal(lines, &doc.Items); err != nil {
		return Document{}, fmt.Errorf("documents: decode lines: %w", err)
	}
	doc.Totals = Totals{
		Subtotal: decimal.RequireFromString(subtotal),
		Discount: decimal.RequireFromString(discount),
		Balance:  decimal.RequireFromString(balance),
		VATRate:  VATRate,
		NBTRate:  NBTRate,
		VAT:      decimal.RequireFromString(vat),
		NBT:      decimal.RequireFromString(nbt),
		NetTotal: decimal.RequireFromString(net),
	}
	return doc, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: constraint %s", ErrConflict, db.ConstraintName(err))
	}
	if db.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

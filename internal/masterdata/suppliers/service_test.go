package suppliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
	"github.com/smartstock/smartstock/internal/platform/httpx"
)

type memoryRepo struct {
	rows map[string]Supplier
}

func (m *memoryRepo) List(context.Context, shared.ListFilters) ([]Supplier, int, error) {
	out := make([]Supplier, 0, len(m.rows))
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(_ context.Context, code string) (Supplier, error) {
	s, ok := m.rows[code]
	if !ok {
		return Supplier{}, shared.ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) Create(_ context.Context, s Supplier) (Supplier, error) {
	if _, ok := m.rows[s.Code]; ok {
		return Supplier{}, shared.ErrDuplicate
	}
	s.ID = int64(len(m.rows) + 1)
	m.rows[s.Code] = s
	return s, nil
}

func (m *memoryRepo) Update(_ context.Context, code string, s Supplier) (Supplier, error) {
	cur, ok := m.rows[code]
	if !ok {
		return Supplier{}, shared.ErrNotFound
	}
	if code != s.Code {
		if _, taken := m.rows[s.Code]; taken {
			return Supplier{}, shared.ErrDuplicate
		}
		delete(m.rows, code)
	}
	s.ID = cur.ID
	m.rows[s.Code] = s
	return s, nil
}

func (m *memoryRepo) Delete(_ context.Context, code string) error {
	if _, ok := m.rows[code]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, code)
	return nil
}

func validSupplier(code string) Supplier {
	return Supplier{Code: code, Name: "Acme Traders", Email: "sales@acme.lk", Address: "Colombo", TP1: "+94 11-2345678", Date: "2025-01-01"}
}

func TestSupplierLifecycle(t *testing.T) {
	svc := NewService(&memoryRepo{rows: map[string]Supplier{}})
	ctx := context.Background()

	created, err := svc.Create(ctx, validSupplier(" S001 "))
	require.NoError(t, err)
	assert.Equal(t, "S001", created.Code)

	_, err = svc.Create(ctx, validSupplier("S001"))
	require.ErrorIs(t, err, httpx.ErrDuplicate)

	upd := validSupplier("")
	upd.Name = "Acme Holdings"
	updated, err := svc.Update(ctx, "S001", upd)
	require.NoError(t, err)
	assert.Equal(t, "S001", updated.Code)
	assert.Equal(t, "Acme Holdings", updated.Name)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, "S001"))
	require.ErrorIs(t, svc.Delete(ctx, "S001"), httpx.ErrNotFound)
}

func TestSupplierValidation(t *testing.T) {
	svc := NewService(&memoryRepo{rows: map[string]Supplier{}})
	ctx := context.Background()

	bad := validSupplier("S1")
	bad.Email = "not-an-email"
	_, err := svc.Create(ctx, bad)
	require.ErrorIs(t, err, httpx.ErrValidation)

	bad = validSupplier("S1")
	bad.TP2 = "call me"
	_, err = svc.Create(ctx, bad)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(ctx, Supplier{Code: "S2"})
	var fe httpx.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields(), "name")
	assert.Contains(t, fe.Fields(), "tp1")
}

func TestValidPhone(t *testing.T) {
	for _, tp := range []string{"", "0771234567", "+94 77 123-4567"} {
		assert.True(t, validPhone(tp), tp)
	}
	for _, tp := range []string{"-", "+", " - ", "+ ", "٠٧٧١٢٣", "077１２３", "0771234567x"} {
		assert.False(t, validPhone(tp), tp)
	}

	svc := NewService(&memoryRepo{rows: map[string]Supplier{}})
	bad := validSupplier("S1")
	bad.TP1 = "--"
	_, err := svc.Create(context.Background(), bad)
	require.ErrorIs(t, err, httpx.ErrValidation)
}

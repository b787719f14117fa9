package departments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
	"github.com/smartstock/smartstock/internal/platform/httpx"
)

type stubRepo struct {
	created []Department
	deleted []int64
}

func (s *stubRepo) List(context.Context, shared.ListFilters) ([]Department, int, error) {
	return s.created, len(s.created), nil
}

func (s *stubRepo) Count(context.Context) (int, error) { return len(s.created), nil }

func (s *stubRepo) Create(_ context.Context, d Department) (Department, error) {
	d.ID = int64(len(s.created) + 1)
	s.created = append(s.created, d)
	return d, nil
}

func (s *stubRepo) Update(_ context.Context, id int64, d Department) (Department, error) {
	if id > int64(len(s.created)) {
		return Department{}, shared.ErrNotFound
	}
	d.ID = id
	s.created[id-1] = d
	return d, nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func TestDepartmentService(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	d, err := svc.Create(ctx, Department{Name: " Stores ", Code: "ST", Description: "Main stores"})
	require.NoError(t, err)
	require.Equal(t, "Stores", d.Name)

	_, err = svc.Create(ctx, Department{Name: "Finance"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = svc.Update(ctx, 9, Department{Name: "X", Code: "X", Description: "X"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
	_, err = svc.Update(ctx, 0, Department{})
	require.ErrorIs(t, err, httpx.ErrValidation)

	require.ErrorIs(t, svc.Delete(ctx, -1), httpx.ErrValidation)
	require.NoError(t, svc.Delete(ctx, 1))
	require.Equal(t, []int64{1}, repo.deleted)
}

package items

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstock/smartstock/internal/masterdata/shared"
	"github.com/smartstock/smartstock/internal/platform/httpx"
)

type memoryRepo struct {
	items     map[string]Item
	nextID    int64
	failWrite error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]Item)}
}

func (m *memoryRepo) List(_ context.Context, f shared.ListFilters) ([]Item, int, error) {
	var out []Item
	for _, it := range m.items {
		if f.Search == "" || strings.Contains(strings.ToLower(it.ItemCode+" "+it.Description), strings.ToLower(f.Search)) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	return out, len(out), nil
}

func (m *memoryRepo) Search(_ context.Context, term string, limit int) ([]Item, error) {
	all, _, _ := m.List(context.Background(), shared.ListFilters{})
	var out []Item
	term = strings.ToLower(term)
	for _, it := range all {
		hay := strings.ToLower(it.ItemCode + "\x00" + it.Description + "\x00" + it.RackNumber)
		if strings.Contains(hay, term) {
			out = append(out, it)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, code string) (Item, error) {
	it, ok := m.items[code]
	if !ok {
		return Item{}, shared.ErrNotFound
	}
	return it, nil
}

func (m *memoryRepo) Create(_ context.Context, it Item) (Item, error) {
	if m.failWrite != nil {
		return Item{}, m.failWrite
	}
	if _, ok := m.items[it.ItemCode]; ok {
		return Item{}, shared.ErrDuplicate
	}
	m.nextID++
	it.ID = m.nextID
	m.items[it.ItemCode] = it
	return it, nil
}

func (m *memoryRepo) Update(_ context.Context, code string, it Item) (Item, error) {
	if m.failWrite != nil {
		return Item{}, m.failWrite
	}
	cur, ok := m.items[code]
	if !ok {
		return Item{}, shared.ErrNotFound
	}
	it.ID = cur.ID
	m.items[code] = it
	return it, nil
}

func (m *memoryRepo) Delete(_ context.Context, code string) (Item, error) {
	it, ok := m.items[code]
	if !ok {
		return Item{}, shared.ErrNotFound
	}
	delete(m.items, code)
	return it, nil
}

type fakeImages struct {
	saved   map[string]string
	removed []string
	n       int
}

func newFakeImages() *fakeImages {
	return &fakeImages{saved: make(map[string]string)}
}

func (f *fakeImages) Save(original string, r io.Reader) (string, error) {
	if strings.HasSuffix(original, ".exe") {
		return "", errors.New("unsupported")
	}
	body, _ := io.ReadAll(r)
	f.n++
	path := "/uploads/img" + string(rune('0'+f.n)) + ".png"
	f.saved[path] = string(body)
	return path, nil
}

func (f *fakeImages) Remove(path string) error {
	f.removed = append(f.removed, path)
	delete(f.saved, path)
	return nil
}

func TestCreateItemWithImage(t *testing.T) {
	repo, images := newMemoryRepo(), newFakeImages()
	svc := NewService(repo, images, nil)

	created, err := svc.Create(context.Background(), Item{ItemCode: " A-1 ", UnitPrice: "12.50", ImagePath: "/etc/passwd"},
		&Upload{Filename: "bolt.png", Body: strings.NewReader("img")})
	require.NoError(t, err)
	assert.Equal(t, "A-1", created.ItemCode)
	assert.Equal(t, "/uploads/img1.png", created.ImagePath)
	assert.Equal(t, "img", images.saved[created.ImagePath])
}

func TestCreateItemDuplicateDiscardsImage(t *testing.T) {
	repo, images := newMemoryRepo(), newFakeImages()
	svc := NewService(repo, images, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Item{ItemCode: "A-1"}, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, Item{ItemCode: "A-1"}, &Upload{Filename: "x.png", Body: strings.NewReader("img")})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
	assert.Equal(t, []string{"/uploads/img1.png"}, images.removed)
	assert.Empty(t, images.saved)
}

func TestCreateItemValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	_, err := svc.Create(context.Background(), Item{Description: "no code"}, nil)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), Item{ItemCode: "A"}, &Upload{Filename: "a.png", Body: strings.NewReader("")})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateItemKeepsCodeAndReplacesImage(t *testing.T) {
	repo, images := newMemoryRepo(), newFakeImages()
	svc := NewService(repo, images, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Item{ItemCode: "A-1", Description: "Bolt"}, &Upload{Filename: "a.png", Body: strings.NewReader("v1")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "A-1", Item{ItemCode: "CHANGED", Description: "Hex bolt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "A-1", updated.ItemCode)
	assert.Equal(t, "Hex bolt", updated.Description)
	assert.Equal(t, "/uploads/img1.png", updated.ImagePath)

	updated, err = svc.Update(ctx, "A-1", Item{Description: "Hex bolt"}, &Upload{Filename: "b.png", Body: strings.NewReader("v2")})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/img2.png", updated.ImagePath)
	assert.Equal(t, []string{"/uploads/img1.png"}, images.removed)

	_, err = svc.Update(ctx, "missing", Item{}, nil)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteItemRemovesImage(t *testing.T) {
	repo, images := newMemoryRepo(), newFakeImages()
	svc := NewService(repo, images, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Item{ItemCode: "A-1"}, &Upload{Filename: "a.png", Body: strings.NewReader("v1")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "A-1"))
	assert.Equal(t, []string{"/uploads/img1.png"}, images.removed)

	require.ErrorIs(t, svc.Delete(ctx, "A-1"), httpx.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "  "), httpx.ErrValidation)
}

func TestSearchIsCapped(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	for i := 0; i < 30; i++ {
		_, err := svc.Create(ctx, Item{ItemCode: "BOLT-" + string(rune('A'+i)), RackNumber: "R1"}, nil)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, Item{ItemCode: "NUT", RackNumber: "R9"}, nil)
	require.NoError(t, err)

	found, err := svc.Search(ctx, "bolt")
	require.NoError(t, err)
	assert.Len(t, found, shared.SearchLimit)

	found, err = svc.Search(ctx, "r9")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "NUT", found[0].ItemCode)
}

package product

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

type stubRepo struct {
	items     map[string]*Product
	lastQuery Query
	lists     int
}

func newStubRepo() *stubRepo { return &stubRepo{items: map[string]*Product{}} }

func (s *stubRepo) Create(_ context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubRepo) List(_ context.Context, q Query) (Page, error) {
	s.lists++
	s.lastQuery = q
	out := []Product{}
	for _, p := range s.items {
		out = append(out, *p)
	}
	return Page{Total: len(out), Page: q.Page, TotalPages: totalPages(len(out), q.Limit), Products: out}, nil
}

func (s *stubRepo) ByTag(_ context.Context, tag string, limit int) ([]Product, error) {
	out := []Product{}
	for _, p := range s.items {
		for _, t := range p.Tags {
			if t == tag && len(out) < limit {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (s *stubRepo) Update(_ context.Context, p *Product) error {
	if _, ok := s.items[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *stubRepo) LowStock(_ context.Context, threshold, limit int) ([]Product, int, error) {
	return nil, 0, nil
}

type memCache struct {
	version     int64
	pages       map[string]Page
	invalidated int
}

func newMemCache() *memCache { return &memCache{pages: map[string]Page{}} }

func (m *memCache) Version(context.Context) (int64, bool) { return m.version, true }

func (m *memCache) GetPage(_ context.Context, version int64, key string) (*Page, bool) {
	p, ok := m.pages[fmt.Sprintf("%d:%s", version, key)]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (m *memCache) SetPage(version int64, key string, page Page) {
	m.pages[fmt.Sprintf("%d:%s", version, key)] = page
}

func (m *memCache) Invalidate(context.Context) {
	m.invalidated++
	m.version++
}

// writeDuringList simulates a stock write that commits while a listing query is in flight.
type writeDuringList struct {
	*stubRepo
	svc  *Service
	once bool
}

func (r *writeDuringList) List(ctx context.Context, q Query) (Page, error) {
	page, err := r.stubRepo.List(ctx, q)
	if !r.once {
		r.once = true
		for _, p := range r.items {
			p.Stock = 0
		}
		r.svc.StockChanged(ctx)
	}
	return page, err
}

func validInput() Input {
	return Input{
		Name:     "Raawr Classic Tee",
		Price:    decimal.RequireFromString("45.00"),
		Stock:    50,
		Category: "Tops",
		Sizes:    []string{"S", "M"},
		Tags:     []string{TagTrending},
	}
}

func TestService_ListUsesCache(t *testing.T) {
	repo := newStubRepo()
	cache := newMemCache()
	svc := NewService(repo, cache, zap.NewNop())
	ctx := context.Background()

	_, err := svc.List(ctx, Query{Categories: []string{"Tops"}})
	require.NoError(t, err)
	_, err = svc.List(ctx, Query{Categories: []string{"Tops"}})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)
	assert.Equal(t, DefaultLimit, repo.lastQuery.Limit)

	_, err = svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	_, err = svc.List(ctx, Query{Categories: []string{"Tops"}})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
}

func TestService_ListDoesNotCacheAcrossInvalidation(t *testing.T) {
	repo := &writeDuringList{stubRepo: newStubRepo()}
	cache := newMemCache()
	svc := NewService(repo, cache, zap.NewNop())
	repo.svc = svc
	ctx := context.Background()

	in := validInput()
	in.Stock = 5
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	first, err := svc.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, first.Products, 1)
	assert.Equal(t, 5, first.Products[0].Stock)

	second, err := svc.List(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
	require.Len(t, second.Products, 1)
	assert.Equal(t, 0, second.Products[0].Stock)

	_, err = svc.List(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
}

func TestService_ListRejectsInvertedPriceRange(t *testing.T) {
	svc := NewService(newStubRepo(), nil, zap.NewNop())
	lo, hi := decimal.NewFromInt(50), decimal.NewFromInt(10)
	_, err := svc.List(context.Background(), Query{MinPrice: &lo, MaxPrice: &hi})
	assert.Equal(t, 400, apperr.Status(err))
}

func TestService_CreateValidates(t *testing.T) {
	svc := NewService(newStubRepo(), nil, zap.NewNop())
	ctx := context.Background()

	in := validInput()
	in.Name = ""
	_, err := svc.Create(ctx, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")

	in = validInput()
	in.Price = decimal.Zero
	_, err = svc.Create(ctx, in)
	assert.Equal(t, 400, apperr.Status(err))

	in = validInput()
	in.Stock = -1
	_, err = svc.Create(ctx, in)
	assert.Equal(t, 400, apperr.Status(err))

	in = validInput()
	g := "Aliens"
	in.Gender = &g
	_, err = svc.Create(ctx, in)
	assert.Equal(t, 400, apperr.Status(err))
}

func TestService_UpdateAndDelete(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, zap.NewNop())
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.Colors)

	stock := 3
	orig := decimal.RequireFromString("60")
	in := UpdateInput{Stock: &stock, OriginalPrice: &orig}
	up, err := svc.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 3, up.Stock)
	assert.True(t, up.OriginalPrice.Valid)

	_, err = svc.Update(ctx, uuid.NewString(), in)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, p.ID), ErrNotFound))
}

func TestService_UpdateKeepsOmittedFields(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, zap.NewNop())
	ctx := context.Background()

	in := validInput()
	in.Description = "heavyweight cotton"
	in.Images = []string{"https://cdn.example.com/tee.jpg"}
	orig := decimal.RequireFromString("55")
	in.OriginalPrice = &orig
	g := "Men"
	in.Gender = &g
	p, err := svc.Create(ctx, in)
	require.NoError(t, err)

	price := decimal.RequireFromString("40")
	up, err := svc.Update(ctx, p.ID, UpdateInput{Price: &price})
	require.NoError(t, err)
	assert.True(t, up.Price.Equal(price))
	assert.Equal(t, 50, up.Stock)
	assert.Equal(t, "Raawr Classic Tee", up.Name)
	assert.Equal(t, "heavyweight cotton", up.Description)
	assert.Equal(t, []string{"S", "M"}, up.Sizes)
	assert.Equal(t, []string{TagTrending}, up.Tags)
	assert.Equal(t, []string{"https://cdn.example.com/tee.jpg"}, up.Images)
	require.NotNil(t, up.Gender)
	assert.Equal(t, "Men", *up.Gender)
	assert.True(t, up.OriginalPrice.Valid)

	stock := 7
	up, err = svc.Update(ctx, p.ID, UpdateInput{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 7, up.Stock)
	assert.True(t, up.Price.Equal(price))

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Stock)
	assert.Equal(t, "Tops", stored.Category)

	empty := []string{}
	up, err = svc.Update(ctx, p.ID, UpdateInput{Sizes: &empty})
	require.NoError(t, err)
	assert.Equal(t, []string{}, up.Sizes)
}

func TestService_UpdateValidatesPresentFields(t *testing.T) {
	svc := NewService(newStubRepo(), nil, zap.NewNop())
	ctx := context.Background()
	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	blank := ""
	_, err = svc.Update(ctx, p.ID, UpdateInput{Name: &blank})
	assert.Equal(t, 400, apperr.Status(err))

	neg := -2
	_, err = svc.Update(ctx, p.ID, UpdateInput{Stock: &neg})
	assert.Equal(t, 400, apperr.Status(err))

	zero := decimal.Zero
	_, err = svc.Update(ctx, p.ID, UpdateInput{Price: &zero})
	assert.Equal(t, 400, apperr.Status(err))

	g := "Aliens"
	_, err = svc.Update(ctx, p.ID, UpdateInput{Gender: &g})
	assert.Equal(t, 400, apperr.Status(err))
}

func TestService_Trending(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, zap.NewNop())
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		_, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
	}
	got, err := svc.Trending(ctx)
	require.NoError(t, err)
	assert.Len(t, got, highlightLimit)

	best, err := svc.Bestsellers(ctx)
	require.NoError(t, err)
	assert.Empty(t, best)
}

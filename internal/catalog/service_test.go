package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type countingRepo struct {
	mu    sync.Mutex
	inner Repository
	gets  int
	lists int
}

func (r *countingRepo) List(ctx context.Context) ([]Product, error) {
	r.mu.Lock()
	r.lists++
	r.mu.Unlock()
	return r.inner.List(ctx)
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (Product, error) {
	r.mu.Lock()
	r.gets++
	r.mu.Unlock()
	return r.inner.GetByID(ctx, id)
}

func (r *countingRepo) Create(ctx context.Context, p Product) (Product, error) {
	return r.inner.Create(ctx, p)
}

func (r *countingRepo) Update(ctx context.Context, id string, p Product) (Product, error) {
	return r.inner.Update(ctx, id, p)
}

func (r *countingRepo) Delete(ctx context.Context, id string) error {
	return r.inner.Delete(ctx, id)
}

func testCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client)
}

func testProduct() Product {
	return Product{ID: "p1", Name: "Caneca", Description: "Caneca de cerâmica", Price: 5000, Stock: 3, Category: "cozinha"}
}

func TestGetByIDServesFromCache(t *testing.T) {
	cache := testCache(t)
	if err := cache.SetProduct(context.Background(), testProduct()); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	repo := &countingRepo{inner: NewInMemoryRepository(nil)}
	svc := NewService(repo, cache, zap.NewNop())

	p, err := svc.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "Caneca" || p.Price != 5000 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if repo.gets != 0 {
		t.Fatalf("repository must not be hit on a cache hit, got %d calls", repo.gets)
	}
}

func TestGetByIDFallsBackToRepository(t *testing.T) {
	repo := &countingRepo{inner: NewInMemoryRepository([]Product{testProduct()})}
	svc := NewService(repo, testCache(t), zap.NewNop())

	p, err := svc.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != "p1" {
		t.Fatalf("unexpected product: %+v", p)
	}
	if repo.gets != 1 {
		t.Fatalf("expected one repository read, got %d", repo.gets)
	}
}

func TestGetByIDUnknownProduct(t *testing.T) {
	repo := &countingRepo{inner: NewInMemoryRepository(nil)}
	svc := NewService(repo, testCache(t), zap.NewNop())

	if _, err := svc.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListServesFromCache(t *testing.T) {
	cache := testCache(t)
	if err := cache.SetList(context.Background(), []Product{testProduct()}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	repo := &countingRepo{inner: NewInMemoryRepository(nil)}
	svc := NewService(repo, cache, zap.NewNop())

	products, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("unexpected products: %+v", products)
	}
	if repo.lists != 0 {
		t.Fatalf("repository must not be hit on a cache hit, got %d calls", repo.lists)
	}
}

func TestWritesInvalidateCache(t *testing.T) {
	cache := testCache(t)
	repo := &countingRepo{inner: NewInMemoryRepository([]Product{testProduct()})}
	svc := NewService(repo, cache, zap.NewNop())

	if err := cache.SetProduct(context.Background(), testProduct()); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	if err := cache.SetList(context.Background(), []Product{testProduct()}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	updated := testProduct()
	updated.Price = 6000
	if _, err := svc.Update(context.Background(), "p1", updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := cache.GetProduct(context.Background(), "p1"); err != ErrCacheMiss {
		t.Fatalf("product cache entry should be invalidated, got %v", err)
	}
	if _, err := cache.GetList(context.Background()); err != ErrCacheMiss {
		t.Fatalf("list cache entry should be invalidated, got %v", err)
	}
}

func TestReadsFailOpenWhenCacheIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	repo := &countingRepo{inner: NewInMemoryRepository([]Product{testProduct()})}
	svc := NewService(repo, NewRedisCache(client), zap.NewNop())

	p, err := svc.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("a dead cache must not fail reads: %v", err)
	}
	if p.ID != "p1" {
		t.Fatalf("unexpected product: %+v", p)
	}
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("catalog cache miss")

// Cache fronts the product repository for reads.
type Cache interface {
	GetProduct(ctx context.Context, id string) (Product, error)
	SetProduct(ctx context.Context, p Product) error
	GetList(ctx context.Context) ([]Product, error)
	SetList(ctx context.Context, products []Product) error
	Invalidate(ctx context.Context, id string) error
}

const listKey = "products:all"

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *RedisCache) GetProduct(ctx context.Context, id string) (Product, error) {
	data, err := r.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Product{}, ErrCacheMiss
	}
	if err != nil {
		return Product{}, fmt.Errorf("redis get failed: %w", err)
	}

	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return Product{}, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return p, nil
}

func (r *RedisCache) SetProduct(ctx context.Context, p Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}
	if err := r.client.Set(ctx, productKey(p.ID), data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) GetList(ctx context.Context) ([]Product, error) {
	data, err := r.client.Get(ctx, listKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

func (r *RedisCache) SetList(ctx context.Context, products []Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}
	if err := r.client.Set(ctx, listKey, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate drops both the product entry and the list, since any write
// changes the list contents too.
func (r *RedisCache) Invalidate(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, productKey(id), listKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// ttl adds jitter so cached entries do not expire in lockstep.
func (r *RedisCache) ttl() time.Duration {
	return r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
}

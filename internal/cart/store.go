package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Namespace is the fixed storage prefix carts persist under. Bump the
// version suffix if the serialized shape ever changes incompatibly.
const Namespace = "storefront:cart:v1"

var ErrNotPersisted = errors.New("no persisted cart")

// Persister stores the serialized cart for one owner. Save runs
// synchronously on every mutation so a crash never loses more than the
// in-flight operation.
type Persister interface {
	Save(ctx context.Context, owner string, data []byte) error
	Load(ctx context.Context, owner string) ([]byte, error)
}

type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPersister(client *redis.Client) *RedisPersister {
	return &RedisPersister{
		client: client,
		ttl:    90 * 24 * time.Hour,
	}
}

func (r *RedisPersister) Save(ctx context.Context, owner string, data []byte) error {
	if err := r.client.Set(ctx, persistKey(owner), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cart save failed: %w", err)
	}
	return nil
}

func (r *RedisPersister) Load(ctx context.Context, owner string) ([]byte, error) {
	data, err := r.client.Get(ctx, persistKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotPersisted
	}
	if err != nil {
		return nil, fmt.Errorf("cart load failed: %w", err)
	}
	return data, nil
}

func persistKey(owner string) string {
	return Namespace + ":" + owner
}

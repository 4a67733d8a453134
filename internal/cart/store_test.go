package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/lojinha/storefront-backend/internal/catalog"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewService(NewRedisPersister(client), zap.NewNop()), mr
}

func TestCartRoundTrip(t *testing.T) {
	svc, mr := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", catalog.Product{ID: "p1", Name: "Caneca", Price: 5000, Stock: 3})
	require.NoError(t, err)
	state, err := svc.AddItem(ctx, "u1", catalog.Product{ID: "p1", Name: "Caneca", Price: 5000, Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), state.Total)

	// a fresh service against the same redis must rehydrate the same cart
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	fresh := NewService(NewRedisPersister(client), zap.NewNop())

	got := fresh.Snapshot(ctx, "u1")
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "p1", got.Lines[0].Product.ID)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, int64(10000), got.Total)
}

func TestEveryMutationPersistsSynchronously(t *testing.T) {
	svc, mr := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", catalog.Product{ID: "p1", Price: 100, Stock: 1})
	require.NoError(t, err)
	require.True(t, mr.Exists(Namespace+":u1"), "add must persist before returning")

	_, err = svc.Clear(ctx, "u1")
	require.NoError(t, err)

	raw, err := mr.Get(Namespace + ":u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":null,"total":0}`, raw)
}

func TestRehydrationFailsOpenOnGarbage(t *testing.T) {
	svc, mr := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(Namespace+":u1", "{not json"))

	state := svc.Snapshot(ctx, "u1")
	assert.True(t, state.Empty(), "parse failure must yield an empty cart, not an error")
}

func TestRehydrationRecomputesTotal(t *testing.T) {
	svc, mr := setupTestService(t)
	ctx := context.Background()

	// stored total is stale on purpose; the derived value must win
	stored := `{"items":[{"product":{"id":"p1","name":"x","price":5000,"stock":1},"quantity":2}],"total":1}`
	require.NoError(t, mr.Set(Namespace+":u1", stored))

	state := svc.Snapshot(ctx, "u1")
	assert.Equal(t, int64(10000), state.Total)
}

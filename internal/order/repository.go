package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no order matches the lookup.
var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, ord Order) (Order, error)
	ListByOwner(ctx context.Context, owner string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	MarkPaidByBilling(ctx context.Context, billingID string) (Order, error)
}

// InMemoryRepository is a map-backed Repository for tests and local runs.
type InMemoryRepository struct {
	mu     sync.Mutex
	orders map[string]Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]Order)}
}

func (r *InMemoryRepository) Create(ctx context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ord.ID == "" {
		ord.ID = uuid.NewString()
	}
	r.orders[ord.ID] = ord
	return ord, nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, owner string) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.Owner == owner {
			out = append(out, ord)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Order, 0, len(r.orders))
	for _, ord := range r.orders {
		out = append(out, ord)
	}
	sortByCreation(out)
	return out, nil
}

func (r *InMemoryRepository) MarkPaidByBilling(ctx context.Context, billingID string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ord := range r.orders {
		if ord.BillingID == billingID {
			ord.Status = StatusPaid
			ord.UpdatedAt = time.Now().UTC()
			r.orders[id] = ord
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func sortByCreation(orders []Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}

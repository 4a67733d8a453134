package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/lojinha/storefront-backend/internal/catalog"
	"go.uber.org/zap"
)

// Service owns the per-owner cart states. Every mutation recomputes the
// total and writes the full state to the persister before returning; reads
// rehydrate from the persister on first access and fail open (an absent or
// unparseable record yields an empty cart, never an error).
type Service struct {
	mu        sync.Mutex
	states    map[string]*State
	persister Persister
	log       *zap.Logger
}

func NewService(persister Persister, log *zap.Logger) *Service {
	return &Service{
		states:    make(map[string]*State),
		persister: persister,
		log:       log,
	}
}

// Snapshot returns a copy of the owner's cart.
func (s *Service) Snapshot(ctx context.Context, owner string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx, owner).snapshot()
}

// AddItem increments the line for the product, or appends a new line with
// quantity 1. Stock is advisory: callers decide whether to skip the add for
// out-of-stock products, the store itself does not enforce it.
func (s *Service) AddItem(ctx context.Context, owner string, p catalog.Product) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.loadLocked(ctx, owner)
	state.AddItem(p)
	if err := s.persistLocked(ctx, owner, state); err != nil {
		return State{}, err
	}
	return state.snapshot(), nil
}

// UpdateQuantity sets the line quantity; below 1 removes the line. No upper
// bound is enforced against stock.
func (s *Service) UpdateQuantity(ctx context.Context, owner, productID string, quantity int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.loadLocked(ctx, owner)
	state.UpdateQuantity(productID, quantity)
	if err := s.persistLocked(ctx, owner, state); err != nil {
		return State{}, err
	}
	return state.snapshot(), nil
}

func (s *Service) RemoveItem(ctx context.Context, owner, productID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.loadLocked(ctx, owner)
	state.RemoveItem(productID)
	if err := s.persistLocked(ctx, owner, state); err != nil {
		return State{}, err
	}
	return state.snapshot(), nil
}

func (s *Service) Clear(ctx context.Context, owner string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.loadLocked(ctx, owner)
	state.Clear()
	if err := s.persistLocked(ctx, owner, state); err != nil {
		return State{}, err
	}
	return state.snapshot(), nil
}

// loadLocked returns the in-memory state for the owner, rehydrating it from
// the persister on first access. The caller must hold s.mu.
func (s *Service) loadLocked(ctx context.Context, owner string) *State {
	if state, ok := s.states[owner]; ok {
		return state
	}

	state := &State{}
	data, err := s.persister.Load(ctx, owner)
	switch {
	case err == nil:
		if uerr := json.Unmarshal(data, state); uerr != nil {
			s.log.Warn("persisted cart unreadable, starting empty",
				zap.String("owner", owner), zap.Error(uerr))
			*state = State{}
		}
		// never trust a stored total
		state.recomputeTotal()
	case errors.Is(err, ErrNotPersisted):
		// first visit, empty cart
	default:
		s.log.Warn("cart rehydration failed, starting empty",
			zap.String("owner", owner), zap.Error(err))
	}

	s.states[owner] = state
	return state
}

func (s *Service) persistLocked(ctx context.Context, owner string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.persister.Save(ctx, owner, data)
}

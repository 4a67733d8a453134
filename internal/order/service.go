package order

import (
	"context"
	"time"

	"github.com/lojinha/storefront-backend/internal/cart"
	"go.uber.org/zap"
)

// Service records orders at submission time and settles them on webhook
// confirmation. It satisfies the payment orchestrator's recorder interface.
type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// RecordPending stores a pending order for a billing that was just created
// at the provider.
func (s *Service) RecordPending(ctx context.Context, owner, billingID string, snapshot cart.State) error {
	now := time.Now().UTC()
	ord := Order{
		Owner:     owner,
		BillingID: billingID,
		Items:     itemsFromCart(snapshot),
		Total:     snapshot.Total,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.repo.Create(ctx, ord)
	if err != nil {
		return err
	}
	s.log.Info("order recorded",
		zap.String("order_id", created.ID),
		zap.String("owner", owner),
		zap.String("billing_id", billingID))
	return nil
}

// MarkPaid settles the order tied to the billing.
func (s *Service) MarkPaid(ctx context.Context, billingID string) (Order, error) {
	ord, err := s.repo.MarkPaidByBilling(ctx, billingID)
	if err != nil {
		return Order{}, err
	}
	s.log.Info("order paid", zap.String("order_id", ord.ID), zap.String("billing_id", billingID))
	return ord, nil
}

// ListByOwner returns the owner's orders, oldest first.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]Order, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// ListAll returns every order, oldest first.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

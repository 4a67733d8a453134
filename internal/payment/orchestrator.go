package payment

import (
	"context"
	"errors"
	"sync"

	"github.com/lojinha/storefront-backend/internal/cart"
	"github.com/lojinha/storefront-backend/internal/checkout"
	"go.uber.org/zap"
)

// BillingProvider creates billings; satisfied by AbacatePayClient.
type BillingProvider interface {
	CreateBilling(ctx context.Context, billing BillingCreate) (Billing, error)
}

// OrderRecorder persists an order for a billing that was handed to the
// provider. Recording happens before the cart is cleared.
type OrderRecorder interface {
	RecordPending(ctx context.Context, owner, billingID string, snapshot cart.State) error
}

// Orchestrator runs the submission step of checkout against the billing
// provider. It implements checkout.Submitter. At most one submission per
// owner may be in flight; a second submit while the first is pending is
// rejected rather than queued, so a double click can never produce two
// billings.
type Orchestrator struct {
	provider BillingProvider
	carts    *cart.Service
	orders   OrderRecorder
	origin   string
	log      *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewOrchestrator(provider BillingProvider, carts *cart.Service, orders OrderRecorder, origin string, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		carts:    carts,
		orders:   orders,
		origin:   origin,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// Submit creates one billing for the snapshot and returns the provider's
// payment URL. On any failure the cart and form are left untouched so the
// user can retry. On success the order is recorded and the cart cleared,
// exactly once.
func (o *Orchestrator) Submit(ctx context.Context, owner string, form checkout.FormData, snapshot cart.State) (string, error) {
	if snapshot.Empty() {
		return "", errors.New("Carrinho está vazio")
	}

	o.mu.Lock()
	if _, busy := o.inFlight[owner]; busy {
		o.mu.Unlock()
		return "", checkout.ErrSubmitInFlight
	}
	o.inFlight[owner] = struct{}{}
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.inFlight, owner)
		o.mu.Unlock()
	}()

	// a dropped connection must not abort a billing already on the wire
	ctx = context.WithoutCancel(ctx)

	billing, err := o.provider.CreateBilling(ctx, NewBillingRequest(o.origin, form, snapshot))
	if err != nil {
		o.log.Error("billing creation failed", zap.String("owner", owner), zap.Error(err))
		return "", errors.New("Não foi possível iniciar o pagamento. Tente novamente.")
	}
	if billing.URL == "" {
		o.log.Error("billing without payment url", zap.String("owner", owner), zap.String("billing_id", billing.ID))
		return "", errors.New("Nenhuma URL de pagamento recebida")
	}

	// the billing exists at the provider from here on; local bookkeeping
	// failures are logged, never surfaced as a payment failure
	if o.orders != nil {
		if err := o.orders.RecordPending(ctx, owner, billing.ID, snapshot); err != nil {
			o.log.Error("pending order not recorded", zap.String("owner", owner), zap.String("billing_id", billing.ID), zap.Error(err))
		}
	}
	if _, err := o.carts.Clear(ctx, owner); err != nil {
		o.log.Error("cart not cleared after billing", zap.String("owner", owner), zap.Error(err))
	}

	o.log.Info("billing created",
		zap.String("owner", owner),
		zap.String("billing_id", billing.ID),
		zap.Int64("total", snapshot.Total))
	return billing.URL, nil
}

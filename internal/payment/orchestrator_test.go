package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lojinha/storefront-backend/internal/cart"
	"github.com/lojinha/storefront-backend/internal/catalog"
	"github.com/lojinha/storefront-backend/internal/checkout"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type fakeProvider struct {
	mu      sync.Mutex
	calls   int
	billing Billing
	err     error
	block   chan struct{}
	last    BillingCreate
}

func (f *fakeProvider) CreateBilling(ctx context.Context, billing BillingCreate) (Billing, error) {
	f.mu.Lock()
	f.calls++
	f.last = billing
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.billing, f.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	pending []string
	err     error
}

func (f *fakeRecorder) RecordPending(ctx context.Context, owner, billingID string, snapshot cart.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, billingID)
	return f.err
}

func testCartService(t *testing.T) *cart.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cart.NewService(cart.NewRedisPersister(client), zap.NewNop())
}

func testForm() checkout.FormData {
	return checkout.FormData{
		Name:  "Ana Souza",
		Email: "ana@example.com",
		Phone: "(11) 98765-4321",
		TaxID: "123.456.789-01",
		Address: checkout.Address{
			Street: "Rua das Flores", Number: "123", Neighborhood: "Centro",
			City: "São Paulo", State: "SP", ZipCode: "99999-000",
		},
	}
}

func seedOwner(t *testing.T, carts *cart.Service, owner string) cart.State {
	t.Helper()
	p := catalog.Product{ID: "p1", Name: "Caneca", Description: "Caneca de cerâmica", Price: 5000, Stock: 3}
	if _, err := carts.AddItem(context.Background(), owner, p); err != nil {
		t.Fatalf("seed: %v", err)
	}
	state, err := carts.AddItem(context.Background(), owner, p)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return state
}

func TestSubmitCreatesBillingAndClearsCart(t *testing.T) {
	carts := testCartService(t)
	snapshot := seedOwner(t, carts, "u1")

	provider := &fakeProvider{billing: Billing{ID: "bill_1", URL: "https://pay.example/x"}}
	recorder := &fakeRecorder{}
	orch := NewOrchestrator(provider, carts, recorder, "https://loja.example", zap.NewNop())

	url, err := orch.Submit(context.Background(), "u1", testForm(), snapshot)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if url != "https://pay.example/x" {
		t.Fatalf("unexpected url %q", url)
	}
	if !carts.Snapshot(context.Background(), "u1").Empty() {
		t.Fatal("cart should be cleared after the provider returns a url")
	}
	if len(recorder.pending) != 1 || recorder.pending[0] != "bill_1" {
		t.Fatalf("expected one pending order for bill_1, got %v", recorder.pending)
	}

	req := provider.last
	if req.Frequency != "ONE_TIME" || len(req.Methods) != 1 || req.Methods[0] != "PIX" {
		t.Fatalf("unexpected billing mode: %+v", req)
	}
	if req.ReturnURL != "https://loja.example/cart" || req.CompletionURL != "https://loja.example/success" {
		t.Fatalf("unexpected redirect urls: %+v", req)
	}
	if len(req.Products) != 1 || req.Products[0].Quantity != 2 || req.Products[0].Price != 5000 {
		t.Fatalf("unexpected products: %+v", req.Products)
	}
	if req.Customer == nil || req.Customer.Cellphone != "(11) 98765-4321" {
		t.Fatalf("unexpected customer: %+v", req.Customer)
	}
}

func TestSubmitFailureLeavesCartIntact(t *testing.T) {
	carts := testCartService(t)
	snapshot := seedOwner(t, carts, "u1")

	provider := &fakeProvider{err: errors.New("boom")}
	orch := NewOrchestrator(provider, carts, nil, "https://loja.example", zap.NewNop())

	_, err := orch.Submit(context.Background(), "u1", testForm(), snapshot)
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "Não foi possível iniciar o pagamento. Tente novamente." {
		t.Fatalf("provider detail must not leak to the user, got %q", err.Error())
	}
	if carts.Snapshot(context.Background(), "u1").Empty() {
		t.Fatal("cart must stay intact on provider failure")
	}
}

func TestSubmitRejectsMissingPaymentURL(t *testing.T) {
	carts := testCartService(t)
	snapshot := seedOwner(t, carts, "u1")

	provider := &fakeProvider{billing: Billing{ID: "bill_1"}}
	orch := NewOrchestrator(provider, carts, nil, "https://loja.example", zap.NewNop())

	_, err := orch.Submit(context.Background(), "u1", testForm(), snapshot)
	if err == nil || err.Error() != "Nenhuma URL de pagamento recebida" {
		t.Fatalf("expected missing-url error, got %v", err)
	}
	if carts.Snapshot(context.Background(), "u1").Empty() {
		t.Fatal("cart must stay intact when no url comes back")
	}
}

func TestSubmitGuardAllowsOneInFlight(t *testing.T) {
	carts := testCartService(t)
	snapshot := seedOwner(t, carts, "u1")

	block := make(chan struct{})
	provider := &fakeProvider{billing: Billing{ID: "bill_1", URL: "https://pay.example/x"}, block: block}
	orch := NewOrchestrator(provider, carts, nil, "https://loja.example", zap.NewNop())

	first := make(chan error, 1)
	go func() {
		_, err := orch.Submit(context.Background(), "u1", testForm(), snapshot)
		first <- err
	}()

	// wait until the first submission is inside the provider call
	for {
		provider.mu.Lock()
		started := provider.calls == 1
		provider.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := orch.Submit(context.Background(), "u1", testForm(), snapshot); !errors.Is(err, checkout.ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(block)
	if err := <-first; err != nil {
		t.Fatalf("first submission should succeed: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected exactly one outbound billing request, got %d", provider.calls)
	}

	// once the first finishes, a new submission may start
	provider.block = nil
	snapshot = seedOwner(t, carts, "u1")
	if _, err := orch.Submit(context.Background(), "u1", testForm(), snapshot); err != nil {
		t.Fatalf("submit after completion: %v", err)
	}
}

func TestSubmitGuardIsPerOwner(t *testing.T) {
	carts := testCartService(t)
	s1 := seedOwner(t, carts, "u1")
	s2 := seedOwner(t, carts, "u2")

	block := make(chan struct{})
	provider := &fakeProvider{billing: Billing{ID: "bill_1", URL: "https://pay.example/x"}, block: block}
	orch := NewOrchestrator(provider, carts, nil, "https://loja.example", zap.NewNop())

	first := make(chan error, 1)
	go func() {
		_, err := orch.Submit(context.Background(), "u1", testForm(), s1)
		first <- err
	}()
	for {
		provider.mu.Lock()
		started := provider.calls == 1
		provider.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	second := make(chan error, 1)
	go func() {
		_, err := orch.Submit(context.Background(), "u2", testForm(), s2)
		second <- err
	}()

	close(block)
	if err := <-first; err != nil {
		t.Fatalf("u1 submission: %v", err)
	}
	if err := <-second; err != nil {
		t.Fatalf("u2 submission must not be blocked by u1: %v", err)
	}
}

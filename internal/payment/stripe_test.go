package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lojinha/storefront-backend/internal/checkout"
)

func intentRequest() IntentRequest {
	return IntentRequest{
		Items: []IntentItem{{ProductID: "p1", Quantity: 2}},
		Total: 10000,
		Name:  "Ana Souza",
		Email: "ana@example.com",
		Addr: checkout.Address{
			Street: "Rua das Flores", City: "São Paulo", State: "SP",
			ZipCode: "99999-000", Country: "BR",
		},
	}
}

func TestCreateIntentSendsFormEncodedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test_1" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("amount") != "10000" || r.PostForm.Get("currency") != "brl" {
			t.Errorf("unexpected amount/currency: %v", r.PostForm)
		}
		if r.PostForm.Get("shipping[address][postal_code]") != "99999-000" {
			t.Errorf("missing shipping address: %v", r.PostForm)
		}
		if r.PostForm.Get("metadata[userId]") != "u1" {
			t.Errorf("missing owner metadata: %v", r.PostForm)
		}
		w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret_abc"}`))
	}))
	defer srv.Close()

	client := NewStripeClient(srv.URL, "sk_test_1", time.Second)
	secret, err := client.CreateIntent(context.Background(), intentRequest(), "u1")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if secret != "pi_1_secret_abc" {
		t.Fatalf("unexpected client secret %q", secret)
	}
}

func TestCreateIntentMapsProviderErrors(t *testing.T) {
	cases := []struct {
		providerType string
		wantCode     string
	}{
		{"card_error", CodeInvalidArgument},
		{"invalid_request_error", CodeInvalidArgument},
		{"api_error", CodeInternal},
		{"authentication_error", CodePermissionDenied},
		{"idempotency_error", CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.providerType, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusPaymentRequired)
				fmt.Fprintf(w, `{"error":{"type":%q,"message":"declined"}}`, tc.providerType)
			}))
			defer srv.Close()

			client := NewStripeClient(srv.URL, "sk_test_1", time.Second)
			_, err := client.CreateIntent(context.Background(), intentRequest(), "u1")
			var intentErr *IntentError
			if !errors.As(err, &intentErr) {
				t.Fatalf("expected *IntentError, got %v", err)
			}
			if intentErr.Code != tc.wantCode {
				t.Fatalf("expected code %q, got %q (%s)", tc.wantCode, intentErr.Code, intentErr.Message)
			}
		})
	}
}

package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lojinha/storefront-backend/internal/checkout"
)

// Intent error codes, shared between the Stripe relay and its handler.
const (
	CodeUnauthenticated  = "unauthenticated"
	CodeInvalidArgument  = "invalid-argument"
	CodeInternal         = "internal"
	CodePermissionDenied = "permission-denied"
)

// IntentError is a payment-intent failure with a stable code the client can
// branch on.
type IntentError struct {
	Code    string
	Message string
}

func (e *IntentError) Error() string { return e.Message }

// IntentRequest is the client's payment-intent payload.
type IntentRequest struct {
	Items []IntentItem     `json:"items"`
	Total int64            `json:"total"`
	Name  string           `json:"name"`
	Email string           `json:"email"`
	Addr  checkout.Address `json:"address"`
}

type IntentItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// IntentProvider creates a payment intent and returns its client secret.
type IntentProvider interface {
	CreateIntent(ctx context.Context, req IntentRequest, userID string) (string, error)
}

// StripeClient relays payment intents to the Stripe REST API.
type StripeClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewStripeClient(baseURL, secretKey string, timeout time.Duration) *StripeClient {
	return &StripeClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// CreateIntent creates a BRL payment intent carrying the shipping address
// and the owner in the metadata. Failures come back as *IntentError.
func (s *StripeClient) CreateIntent(ctx context.Context, req IntentRequest, userID string) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Total, 10))
	form.Set("currency", "brl")
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("receipt_email", req.Email)
	form.Set("shipping[name]", req.Name)
	form.Set("shipping[address][line1]", req.Addr.Street)
	if req.Addr.Complement != "" {
		form.Set("shipping[address][line2]", req.Addr.Complement)
	}
	form.Set("shipping[address][city]", req.Addr.City)
	form.Set("shipping[address][state]", req.Addr.State)
	form.Set("shipping[address][postal_code]", req.Addr.ZipCode)
	form.Set("shipping[address][country]", req.Addr.Country)
	form.Set("metadata[userId]", userID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &IntentError{Code: CodeInternal, Message: "An unexpected error occurred."}
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.http.Do(httpReq)
	if err != nil {
		return "", &IntentError{Code: CodeInternal, Message: "Stripe connection error."}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &IntentError{Code: CodeInternal, Message: "Stripe connection error."}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var failure struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(raw, &failure); err != nil {
			return "", &IntentError{Code: CodeInternal, Message: "An unexpected Stripe error occurred."}
		}
		switch failure.Error.Type {
		case "card_error":
			return "", &IntentError{Code: CodeInvalidArgument, Message: fmt.Sprintf("Card error: %s", failure.Error.Message)}
		case "invalid_request_error":
			return "", &IntentError{Code: CodeInvalidArgument, Message: fmt.Sprintf("Invalid request: %s", failure.Error.Message)}
		case "api_error":
			return "", &IntentError{Code: CodeInternal, Message: "Stripe API error."}
		case "authentication_error":
			return "", &IntentError{Code: CodePermissionDenied, Message: "Stripe authentication error."}
		default:
			return "", &IntentError{Code: CodeInternal, Message: "An unexpected Stripe error occurred."}
		}
	}

	var intent struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(raw, &intent); err != nil {
		return "", &IntentError{Code: CodeInternal, Message: "An unexpected Stripe error occurred."}
	}
	return intent.ClientSecret, nil
}

package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AbacatePayClient is a thin HTTP client for the AbacatePay billing API.
type AbacatePayClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewAbacatePayClient(baseURL, apiKey string, timeout time.Duration) *AbacatePayClient {
	return &AbacatePayClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateCustomer registers a customer ahead of billing creation.
func (c *AbacatePayClient) CreateCustomer(ctx context.Context, customer CustomerCreate) (Customer, error) {
	var out Customer
	err := c.post(ctx, "/customer/create", customer, &out)
	return out, err
}

// CreateBilling creates a one-time billing and returns the payment URL.
func (c *AbacatePayClient) CreateBilling(ctx context.Context, billing BillingCreate) (Billing, error) {
	var out Billing
	err := c.post(ctx, "/billing/create", billing, &out)
	return out, err
}

// ListCustomers returns every customer registered under the API key.
func (c *AbacatePayClient) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	err := c.get(ctx, "/customer/list", &out)
	return out, err
}

// ListBillings returns every billing created under the API key.
func (c *AbacatePayClient) ListBillings(ctx context.Context) ([]Billing, error) {
	var out []Billing
	err := c.get(ctx, "/billing/list", &out)
	return out, err
}

func (c *AbacatePayClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *AbacatePayClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	return c.do(req, out)
}

func (c *AbacatePayClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("abacatepay %s: %w", req.URL.Path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("abacatepay %s: read response: %w", req.URL.Path, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("abacatepay %s: status %d: %s", req.URL.Path, res.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	// responses come wrapped in a data envelope; fall back to the bare body
	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		if envelope.Error != "" {
			return fmt.Errorf("abacatepay %s: %s", req.URL.Path, envelope.Error)
		}
		raw = envelope.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("abacatepay %s: decode response: %w", req.URL.Path, err)
	}
	return nil
}

package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

type fakeIntents struct {
	secret string
	err    error
	calls  int
}

func (f *fakeIntents) CreateIntent(ctx context.Context, req IntentRequest, userID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.secret, nil
}

func makeIntentApp(intents IntentProvider) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": v}})
		}
		return c.Next()
	})
	NewHandler(intents, zap.NewNop()).RegisterProtectedRoutes(app)
	return app
}

func postIntent(t *testing.T, app *fiber.App, userID string, payload any) (int, string) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/v1/payment/intent", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestIntentRequiresAuthentication(t *testing.T) {
	app := makeIntentApp(&fakeIntents{secret: "pi_1_secret"})

	code, body := postIntent(t, app, "", intentRequest())
	if code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", code, body)
	}
	if !strings.Contains(body, CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated code, got %s", body)
	}
}

func TestIntentValidatesPayload(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*IntentRequest)
		want   string
	}{
		{"no items", func(r *IntentRequest) { r.Items = nil }, `"items"`},
		{"zero total", func(r *IntentRequest) { r.Total = 0 }, `"total"`},
		{"no name", func(r *IntentRequest) { r.Name = "" }, `"name"`},
		{"no email", func(r *IntentRequest) { r.Email = "" }, `"email"`},
		{"no street", func(r *IntentRequest) { r.Addr.Street = "" }, `"address.street"`},
		{"no country", func(r *IntentRequest) { r.Addr.Country = "" }, `"address.country"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intents := &fakeIntents{secret: "pi_1_secret"}
			app := makeIntentApp(intents)

			req := intentRequest()
			tc.mutate(&req)
			code, body := postIntent(t, app, "u1", req)
			if code != fiber.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", code, body)
			}
			if !strings.Contains(body, CodeInvalidArgument) || !strings.Contains(body, tc.want) {
				t.Fatalf("expected invalid-argument naming %s, got %s", tc.want, body)
			}
			if intents.calls != 0 {
				t.Fatal("provider must not be called for invalid payloads")
			}
		})
	}
}

func TestIntentReturnsClientSecret(t *testing.T) {
	app := makeIntentApp(&fakeIntents{secret: "pi_1_secret_abc"})

	code, body := postIntent(t, app, "u1", intentRequest())
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	var parsed struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if parsed.ClientSecret != "pi_1_secret_abc" {
		t.Fatalf("unexpected secret %q", parsed.ClientSecret)
	}
}

func TestIntentMapsProviderErrorCodes(t *testing.T) {
	app := makeIntentApp(&fakeIntents{err: &IntentError{Code: CodePermissionDenied, Message: "Stripe authentication error."}})

	code, body := postIntent(t, app, "u1", intentRequest())
	if code != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", code, body)
	}
	if !strings.Contains(body, CodePermissionDenied) {
		t.Fatalf("expected permission-denied code, got %s", body)
	}
}

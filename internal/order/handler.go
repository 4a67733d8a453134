package order

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lojinha/storefront-backend/internal/user"
	"go.uber.org/zap"
)

// Handler exposes order listing and the payment-completed webhook.
type Handler struct {
	service       *Service
	webhookSecret string
	log           *zap.Logger
}

func NewHandler(service *Service, webhookSecret string, log *zap.Logger) *Handler {
	return &Handler{service: service, webhookSecret: webhookSecret, log: log}
}

// RegisterPublicRoutes mounts the provider webhook. It sits outside the JWT
// middleware; the shared secret is the only authentication.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/completed", h.paymentCompleted)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.listOwn)
	app.Get("/api/v1/admin/orders", user.AdminOnly, h.listAll)
}

type completedRequest struct {
	BillingID string `json:"billingId"`
	Status    string `json:"status"`
}

func (h *Handler) paymentCompleted(c *fiber.Ctx) error {
	secret := c.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid webhook secret"})
	}

	payload := new(completedRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.BillingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "billingId is required"})
	}

	ord, err := h.service.MarkPaid(c.Context(), payload.BillingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		h.log.Error("webhook settlement failed", zap.String("billing_id", payload.BillingID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(ord)
}

func (h *Handler) listOwn(c *fiber.Ctx) error {
	owner, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orders, err := h.service.ListByOwner(c.Context(), owner)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

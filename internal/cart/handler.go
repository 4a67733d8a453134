package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lojinha/storefront-backend/internal/catalog"
	"github.com/lojinha/storefront-backend/internal/user"
)

// Handler delegates cart operations to the cart service. This keeps
// cart-specific HTTP routing isolated.
type Handler struct {
	service *Service
	catalog *catalog.Service
}

func NewHandler(service *Service, catalogService *catalog.Service) *Handler {
	return &Handler{service: service, catalog: catalogService}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:productId", h.updateQuantity)
	app.Delete("/api/v1/cart/items/:productId", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	owner, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.JSON(h.service.Snapshot(c.Context(), owner))
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	owner, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	p, err := h.catalog.GetByID(c.Context(), payload.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	// Stock is advisory: an out-of-stock add is a silent no-op, the
	// current cart comes back unchanged.
	if p.Stock == 0 {
		return c.JSON(h.service.Snapshot(c.Context(), owner))
	}

	state, err := h.service.AddItem(c.Context(), owner, p)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(state)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	owner, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(updateQuantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	state, err := h.service.UpdateQuantity(c.Context(), owner, c.Params("productId"), payload.Quantity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(state)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	owner, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	state, err := h.service.RemoveItem(c.Context(), owner, c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(state)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	owner, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if _, err := h.service.Clear(c.Context(), owner); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

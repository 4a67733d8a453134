package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lojinha/storefront-backend/internal/forms"
	"github.com/lojinha/storefront-backend/internal/user"
)

// Handler exposes the public catalog reads and the admin back-office CRUD.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/product/:id", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/products", user.AdminOnly, h.createProduct)
	app.Put("/api/v1/product/:id", user.AdminOnly, h.updateProduct)
	app.Delete("/api/v1/product/:id", user.AdminOnly, h.deleteProduct)
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if errs := validateProduct(payload); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": errs})
	}

	created, err := h.service.Create(c.Context(), productFromRequest(payload))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if errs := validateProduct(payload); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": errs})
	}

	updated, err := h.service.Update(c.Context(), c.Params("id"), productFromRequest(payload))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// validateProduct runs the admin product form through the same rule engine
// the checkout uses, plus the numeric constraints the engine does not cover.
func validateProduct(payload *productRequest) map[string]string {
	f := forms.New(forms.ProductSchema())
	f.Change("name", payload.Name)
	f.Change("description", payload.Description)
	f.Change("category", payload.Category)
	errs := f.ValidateAll()

	if payload.Price < 0 {
		errs["price"] = "Preço deve ser maior ou igual a zero"
	}
	if payload.Stock < 0 {
		errs["stock"] = "Estoque não pode ser negativo"
	}
	return errs
}

func productFromRequest(payload *productRequest) Product {
	return Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Category:    payload.Category,
		ImageURL:    payload.ImageURL,
	}
}

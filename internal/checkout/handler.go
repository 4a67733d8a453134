package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lojinha/storefront-backend/internal/cart"
	"github.com/lojinha/storefront-backend/internal/places"
	"github.com/lojinha/storefront-backend/internal/user"
	"go.uber.org/zap"
)

// Handler exposes the checkout flow. Every route re-checks the empty-cart
// guard: a cart emptied mid-flow (another tab, a completed payment) kicks
// the client back to the catalog and discards the session.
type Handler struct {
	carts      *cart.Service
	sessions   *SessionStore
	submitter  Submitter
	mergeSteps bool
	log        *zap.Logger
}

func NewHandler(carts *cart.Service, sessions *SessionStore, submitter Submitter, mergeSteps bool, log *zap.Logger) *Handler {
	return &Handler{
		carts:      carts,
		sessions:   sessions,
		submitter:  submitter,
		mergeSteps: mergeSteps,
		log:        log,
	}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout", h.start)
	app.Get("/api/v1/checkout", h.state)
	app.Post("/api/v1/checkout/field", h.changeField)
	app.Post("/api/v1/checkout/blur", h.blurField)
	app.Post("/api/v1/checkout/address", h.applyAddress)
	app.Post("/api/v1/checkout/next", h.next)
	app.Post("/api/v1/checkout/back", h.back)
	app.Post("/api/v1/checkout/submit", h.submit)
}

type fieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (h *Handler) start(c *fiber.Ctx) error {
	owner, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if redirected, err := h.guardEmptyCart(c, owner); redirected || err != nil {
		return err
	}

	sess := h.sessions.Start(owner, h.mergeSteps)
	return c.Status(fiber.StatusCreated).JSON(h.sessionResponse(sess))
}

func (h *Handler) state(c *fiber.Ctx) error {
	owner, sess, err := h.activeSession(c)
	if err != nil {
		return err
	}
	if redirected, err := h.guardEmptyCart(c, owner); redirected || err != nil {
		return err
	}
	return c.JSON(h.sessionResponse(sess))
}

func (h *Handler) changeField(c *fiber.Ctx) error {
	owner, sess, err := h.activeSession(c)
	if err != nil {
		return err
	}
	if redirected, err := h.guardEmptyCart(c, owner); redirected || err != nil {
		return err
	}

	payload := new(fieldRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	value, fieldErr := sess.Controller.Change(payload.Name, payload.Value)
	return c.JSON(fiber.Map{"name": payload.Name, "value": value, "error": fieldErr})
}

func (h *Handler) blurField(c *fiber.Ctx) error {
	owner, sess, err := h.activeSession(c)
	if err != nil {
		return err
	}
	if redirected, err := h.guardEmptyCart(c, owner); redirected || err != nil {
		return err
	}

	payload := new(fieldRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	fieldErr := sess.Controller.Blur(payload.Name)
	return c.JSON(fiber.Map{"name": payload.Name, "error": fieldErr})
}

func (h *Handler) applyAddress(c *fiber.Ctx) error {
	owner, sess, err := h.activeSession(c)
	if err != nil {
		return err
	}
	if redirected, err := h.guardEmptyCart(c, owner); redirected || err != nil {
		return err
	}

	place := new(places.PlaceResult)
	if err := c.BodyParser(place); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	addr := places.ResolveAddress(*place)
	sess.Controller.ApplyAddress(addr)
	return c.JSON(addr)
}

func (h *Handler) next(c *fiber.Ctx) error {
	owner, sess, err := h.activeSession(c)
	if err != nil {
		return err
	}
	if redirected, err := h.guardEmptyCart(c, owner); redirected || err != nil {
		return err
	}

	advanced, errs := sess.Controller.Next()
	if !advanced {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Por favor, corrija os erros no formulário.",
			"errors":  errs,
			"step":    sess.Controller.Step(),
		})
	}
	return c.JSON(h.sessionResponse(sess))
}

func (h *Handler) back(c *fiber.Ctx) error {
	owner, sess, err := h.activeSession(c)
	if err != nil {
		return err
	}
	if redirected, err := h.guardEmptyCart(c, owner); redirected || err != nil {
		return err
	}

	if !sess.Controller.Back() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "already at the first step"})
	}
	return c.JSON(h.sessionResponse(sess))
}

func (h *Handler) submit(c *fiber.Ctx) error {
	owner, sess, err := h.activeSession(c)
	if err != nil {
		return err
	}
	if redirected, err := h.guardEmptyCart(c, owner); redirected || err != nil {
		return err
	}

	if !sess.Controller.AtPaymentStep() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "checkout has remaining steps"})
	}
	// final validation before submission, across every step
	if errs := sess.Controller.ValidateAll(); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Por favor, corrija os erros no formulário.",
			"errors":  errs,
		})
	}

	snapshot := h.carts.Snapshot(c.Context(), owner)
	url, err := h.submitter.Submit(c.Context(), owner, sess.Controller.FormData(), snapshot)
	if err != nil {
		if errors.Is(err, ErrSubmitInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		}
		// form and cart are untouched; the user can fix input and retry
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}

	h.sessions.End(owner)
	return c.JSON(fiber.Map{"url": url})
}

// activeSession resolves the caller and the in-progress session.
func (h *Handler) activeSession(c *fiber.Ctx) (string, *Session, error) {
	owner, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return "", nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sess := h.sessions.Get(owner)
	if sess == nil {
		return "", nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no active checkout"})
	}
	return owner, sess, nil
}

// guardEmptyCart enforces the navigation guard: checkout over an empty cart
// is never allowed. Returns true when the response was already written.
func (h *Handler) guardEmptyCart(c *fiber.Ctx, owner string) (bool, error) {
	if h.carts.Snapshot(c.Context(), owner).Empty() {
		h.sessions.End(owner)
		return true, c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":  "carrinho vazio",
			"redirect": "/products",
		})
	}
	return false, nil
}

func (h *Handler) sessionResponse(sess *Session) fiber.Map {
	return fiber.Map{
		"sessionId": sess.ID,
		"step":      sess.Controller.Step(),
		"labels":    sess.Controller.Labels(),
		"values":    sess.Controller.Values(),
		"errors":    sess.Controller.Errors(),
	}
}

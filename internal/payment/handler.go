package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lojinha/storefront-backend/internal/user"
	"go.uber.org/zap"
)

// Handler exposes the payment-intent relay.
type Handler struct {
	intents IntentProvider
	log     *zap.Logger
}

func NewHandler(intents IntentProvider, log *zap.Logger) *Handler {
	return &Handler{intents: intents, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/intent", h.createIntent)
}

func (h *Handler) createIntent(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return intentFailure(c, &IntentError{Code: CodeUnauthenticated, Message: "User must be authenticated."})
	}

	payload := new(IntentRequest)
	if err := c.BodyParser(payload); err != nil {
		return intentFailure(c, &IntentError{Code: CodeInvalidArgument, Message: err.Error()})
	}
	if failure := validateIntent(payload); failure != nil {
		return intentFailure(c, failure)
	}

	secret, err := h.intents.CreateIntent(c.Context(), *payload, userID)
	if err != nil {
		h.log.Error("payment intent failed", zap.String("owner", userID), zap.Error(err))
		var intentErr *IntentError
		if errors.As(err, &intentErr) {
			return intentFailure(c, intentErr)
		}
		return intentFailure(c, &IntentError{Code: CodeInternal, Message: "An unexpected error occurred."})
	}
	return c.JSON(fiber.Map{"clientSecret": secret})
}

// validateIntent rejects structurally invalid payloads field by field,
// before anything touches the provider.
func validateIntent(req *IntentRequest) *IntentError {
	invalid := func(msg string) *IntentError {
		return &IntentError{Code: CodeInvalidArgument, Message: msg}
	}
	if len(req.Items) == 0 {
		return invalid(`The "items" array must be provided and not empty.`)
	}
	if req.Total <= 0 {
		return invalid(`The "total" must be a positive number.`)
	}
	if req.Name == "" {
		return invalid(`The "name" must be a string.`)
	}
	if req.Email == "" {
		return invalid(`The "email" must be a string.`)
	}
	if req.Addr.Street == "" {
		return invalid(`The "address.street" must be a string.`)
	}
	if req.Addr.City == "" {
		return invalid(`The "address.city" must be a string.`)
	}
	if req.Addr.State == "" {
		return invalid(`The "address.state" must be a string.`)
	}
	if req.Addr.ZipCode == "" {
		return invalid(`The "address.zipCode" must be a string.`)
	}
	if req.Addr.Country == "" {
		return invalid(`The "address.country" must be a string.`)
	}
	return nil
}

func intentFailure(c *fiber.Ctx, failure *IntentError) error {
	status := fiber.StatusInternalServerError
	switch failure.Code {
	case CodeUnauthenticated:
		status = fiber.StatusUnauthorized
	case CodeInvalidArgument:
		status = fiber.StatusBadRequest
	case CodePermissionDenied:
		status = fiber.StatusForbidden
	case CodeInternal:
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{"code": failure.Code, "message": failure.Message})
}

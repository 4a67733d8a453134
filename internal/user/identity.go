// Package user reads the identity claims issued by the external auth
// provider. The provider itself is an opaque collaborator: this service
// only consumes the user id and role carried in the bearer token.
package user

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const RoleAdmin = "admin"

// GetUserIDFromCtx extracts the user_id claim from the JWT token stored in
// `c.Locals("user")`. Several packages need this, so it is exported here
// for reuse.
func GetUserIDFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	raw, ok := claims["user_id"]
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", fiber.ErrUnauthorized
		}
		return v, nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", fiber.ErrUnauthorized
	}
}

// RoleFromCtx returns the role claim, or the empty string when absent.
func RoleFromCtx(c *fiber.Ctx) string {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// AdminOnly rejects requests whose token does not carry the admin role.
func AdminOnly(c *fiber.Ctx) error {
	if RoleFromCtx(c) != RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
	}
	return c.Next()
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	u := c.Locals("user")
	if u == nil {
		return nil, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

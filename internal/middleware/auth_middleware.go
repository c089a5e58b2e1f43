package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"recipeapi/internal/models"
	"recipeapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// TokenResolver turns a token key into its owning user.
type TokenResolver interface {
	ResolveToken(ctx context.Context, key string) (*models.User, error)
}

// AuthRequired is a Fiber middleware that rejects requests without a valid
// API token. Both "Token <key>" and "Bearer <key>" schemes are accepted.
func AuthRequired(resolver TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication credentials were not provided",
			})
		}

		scheme, key, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
		if !ok || !(strings.EqualFold(scheme, "Token") || strings.EqualFold(scheme, "Bearer")) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Token <key>' or 'Bearer <key>'",
			})
		}

		user, err := resolver.ResolveToken(c.UserContext(), strings.TrimSpace(key))
		if err != nil {
			if !errors.Is(err, services.ErrInvalidToken) {
				slog.ErrorContext(c.UserContext(), "token lookup failed", "error", err)
				return err
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token",
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

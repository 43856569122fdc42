// Package middleware holds the request guards shared by the API routes.
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"eventplannerservice/pkg/models"
	"eventplannerservice/pkg/repository"
	"eventplannerservice/pkg/token"
)

// UserIDKey is the Locals key holding the authenticated user's id.
const UserIDKey = "userID"

type userSource interface {
	GetUser(ctx context.Context, id string) (models.User, error)
}

// RequireAuth verifies the Bearer access token and checks the user still
// exists before letting the request through.
func RequireAuth(accessSecret string, users userSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authorization header missing"})
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == header || raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid authorization header"})
		}

		p, err := token.Verify(raw, accessSecret)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Your token has expired"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		if _, err := users.GetUser(c.Context(), p.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "User associated with token not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to verify user"})
		}

		c.Locals(UserIDKey, p.UserID)
		return c.Next()
	}
}

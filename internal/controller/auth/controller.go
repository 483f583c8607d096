package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	resp "github.com/GintGld/media-engine/internal/lib/api/response"
)

// Static implements the fixed shared-secret header check every
// mutating endpoint goes through. The token is an opaque
// server-held secret, compared in constant time.
type Static struct {
	token []byte
}

func New(token []byte) *Static {
	return &Static{token: token}
}

func (s *Static) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(fiber.HeaderAuthorization)

		if got == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(
				resp.Failure("No API token provided."),
			)
		}

		if subtle.ConstantTimeCompare([]byte(got), s.token) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(
				resp.Failure("Invalid API token."),
			)
		}

		return c.Next()
	}
}

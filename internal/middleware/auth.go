package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cv-coach/internal/services"
)

const candidateIDKey = "candidateID"

// RequireAuth rejects requests without a valid Bearer token and stores the
// authenticated candidate id in the request locals.
func RequireAuth(auth services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or malformed Authorization header")
		}

		candidateID, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(candidateIDKey, candidateID)
		return c.Next()
	}
}

// CandidateID returns the id stored by RequireAuth.
func CandidateID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(candidateIDKey).(uuid.UUID)
	return id, ok
}

package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localsUserID = "user_id"

// authRequired validates the bearer token and stores the user ID in the
// request locals.
func (s *Server) authRequired(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}

	userID, err := s.userService.ValidateAccessToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals(localsUserID, userID)
	return c.Next()
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}

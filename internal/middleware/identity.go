package middleware

import (
	"log"

	"catalog/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser is a Fiber middleware that resolves the authenticated
// caller from the X-User-Id header set by the upstream gateway and
// stores the full user record in the request context under "user".
// Authentication itself happens upstream; this middleware only consumes
// the already-verified identity.
func CurrentUser(userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-Id")
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "X-User-Id header is required",
			})
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			log.Printf("Identity lookup failed for %s: %v", userID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unknown user identity",
			})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User is inactive",
			})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// darts-league-system/middleware/stream_auth.go
package middleware

import (
	"log"
	"strings"

	"darts-league-system/services"

	"github.com/gofiber/fiber/v2"
)

// StreamAuthMiddleware validates a `token` query param via the identity
// provider. EventSource and WebSocket clients cannot set request headers,
// so the stream endpoints authenticate with the token in the query instead
// of the gateway's X-User-ID header.
//
// Usage:
//
//	app.Get("/matches/:id/events", middleware.StreamAuthMiddleware(authClient), matchService.StreamMatchEventsSSE)
func StreamAuthMiddleware(authClient *services.AuthServiceClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(c.Query("token"))
		if accessToken == "" {
			log.Printf("[StreamAuth] ❌ Missing token query param for %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing token in query",
			})
		}

		resp, err := authClient.ValidateToken(accessToken)
		if err != nil {
			log.Printf("[StreamAuth] ❌ Validation failed for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		// Attach to fiber context, same shape as UserContextMiddleware
		c.Locals("user_id", resp.UserID)
		c.Locals("user_roles", resp.Roles)

		return c.Next()
	}
}

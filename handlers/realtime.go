package handlers

import (
	"darts-league-system/middleware"
	"darts-league-system/realtime"
	"darts-league-system/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func SetupRealtimeRoutes(app *fiber.App, hub *realtime.Hub, authClient *services.AuthServiceClient) {
	ws := app.Group("/ws", middleware.StreamAuthMiddleware(authClient))

	ws.Use(func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	ws.Get("/matches/:id", websocket.New(func(conn *websocket.Conn) {
		matchID := conn.Params("id")
		userID, _ := conn.Locals("user_id").(string)
		if matchID == "" || userID == "" {
			_ = conn.Close()
			return
		}
		hub.Serve(conn, matchID, userID)
	}))
}

package handlers

import (
	"darts-league-system/middleware"
	"darts-league-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService, authClient *services.AuthServiceClient) {
	// 🔐 Authenticated routes — identity comes from the gateway headers
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Player snapshot lookups (populated by the profile sync worker)
	secured.Get("/players", matchService.ListPlayers)
	secured.Get("/players/search", matchService.SearchPlayers)

	// Match lifecycle
	secured.Post("/matches", matchService.CreateMatch)
	secured.Get("/matches", matchService.ListMatches)
	secured.Get("/matches/:id", matchService.GetMatch)
	secured.Post("/matches/:id/accept", matchService.AcceptMatch)
	secured.Post("/matches/:id/decline", matchService.DeclineMatch)
	secured.Post("/matches/:id/cancel", matchService.CancelMatch)

	// Turn engine
	secured.Get("/matches/:id/turns", matchService.ListTurns)
	secured.Post("/matches/:id/turns", matchService.SubmitTurn)

	// Confirmation protocol
	secured.Get("/matches/:id/confirmations", matchService.ListConfirmations)
	secured.Post("/matches/:id/confirmations", matchService.SubmitConfirmation)

	// Match chat
	secured.Get("/matches/:id/messages", matchService.ListMessages)
	secured.Post("/matches/:id/messages", matchService.PostMessage)

	// SSE fallback stream — EventSource can't set headers, so auth is a
	// query token validated against the identity provider.
	app.Get("/matches/:id/events",
		middleware.StreamAuthMiddleware(authClient),
		matchService.StreamMatchEventsSSE)
}

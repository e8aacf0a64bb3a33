package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Snapshot ingest and readback
		api.Post("/snapshot", handler.RecordSnapshot)
		api.Get("/snapshot", handler.GetSnapshot)

		// Derived analysis for the current snapshot
		api.Get("/analysis", handler.GetAnalysis)

		// Chat assistant (remote-first, local fallback)
		api.Post("/chat", handler.Chat)

		// Stored history and rollups
		api.Get("/history/:domain", handler.GetHistory)
		api.Delete("/history/:domain", handler.ClearHistory)
		api.Get("/aggregates/:domain", handler.GetAggregates)
		api.Get("/stats", handler.GetStats)
	}
}

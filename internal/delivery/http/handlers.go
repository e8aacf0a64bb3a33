package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/insight/internal/analysis"
	"github.com/smartcity/insight/internal/domain"
	"github.com/smartcity/insight/internal/service"
	"github.com/smartcity/insight/internal/store"
)

// Handler contains all HTTP handlers
type Handler struct {
	ingest  *service.IngestService
	chat    *service.ChatService
	history *service.HistoryService
	storage domain.BucketStorage

	air     *store.AirStore
	traffic *store.TrafficStore
	weather *store.WeatherStore
}

// NewHandler creates a new handler
func NewHandler(
	ingest *service.IngestService,
	chat *service.ChatService,
	history *service.HistoryService,
	storage domain.BucketStorage,
	air *store.AirStore,
	traffic *store.TrafficStore,
	weather *store.WeatherStore,
) *Handler {
	return &Handler{
		ingest:  ingest,
		chat:    chat,
		history: history,
		storage: storage,
		air:     air,
		traffic: traffic,
		weather: weather,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	storageStatus := "ok"
	if err := h.storage.Health(c.Context()); err != nil {
		storageStatus = "unavailable"
	}
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "city-insight",
		"storage": storageStatus,
	})
}

// RecordSnapshot ingests one live snapshot into the record stores
func (h *Handler) RecordSnapshot(c *fiber.Ctx) error {
	var snap domain.CitySnapshot
	if err := c.BodyParser(&snap); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid snapshot body")
	}

	stored := h.ingest.RecordSnapshot(c.Context(), snap)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stored,
	})
}

// GetSnapshot returns the current snapshot rebuilt from the stores
func (h *Handler) GetSnapshot(c *fiber.Ctx) error {
	snap := h.ingest.CurrentSnapshot(c.Context())
	return c.JSON(fiber.Map{
		"success": true,
		"data":    snap,
	})
}

// GetAnalysis returns the full derived analysis for the current snapshot
func (h *Handler) GetAnalysis(c *fiber.Ctx) error {
	snap := h.ingest.CurrentSnapshot(c.Context())
	result := analysis.AnalyzeCity(snap, time.Now())
	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// ChatRequest is the body of a chat query.
type ChatRequest struct {
	Query  string `json:"query"`
	UserID *int64 `json:"user_id"`
}

// Chat answers one user query, remote-first with local fallback
func (h *Handler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Query must not be empty")
	}

	snap := h.ingest.CurrentSnapshot(c.Context())
	resp := h.chat.Respond(c.Context(), req.Query, req.UserID, snap)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}

// GetHistory returns recent records for one sensor domain, newest first
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > store.SensorCap {
		limit = 50
	}

	ctx := c.Context()
	var data any
	switch c.Params("domain") {
	case "air":
		data = h.air.ReadRecent(ctx, limit)
	case "traffic":
		data = h.traffic.ReadRecent(ctx, limit)
	case "weather":
		data = h.weather.ReadRecent(ctx, limit)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Unknown history domain")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// ClearHistory empties one sensor domain store
func (h *Handler) ClearHistory(c *fiber.Ctx) error {
	ctx := c.Context()
	switch c.Params("domain") {
	case "air":
		h.air.Clear(ctx)
	case "traffic":
		h.traffic.Clear(ctx)
	case "weather":
		h.weather.Clear(ctx)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Unknown history domain")
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetAggregates returns hourly or daily rollups for one domain field
func (h *Handler) GetAggregates(c *fiber.Ctx) error {
	ctx := c.Context()
	by := c.Query("by", "hour")
	field := c.Query("field", "")

	var data any
	var err error
	switch c.Params("domain") {
	case "air":
		data, err = airAggregates(h.air.ReadAll(ctx), field, by)
	case "traffic":
		data, err = trafficAggregates(h.traffic.ReadAll(ctx), field, by)
	case "weather":
		data, err = weatherAggregates(h.weather.ReadAll(ctx), field, by)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Unknown aggregate domain")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// GetStats returns per-store statistics and a text summary
func (h *Handler) GetStats(c *fiber.Ctx) error {
	ctx := c.Context()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.history.StoreStats(ctx),
		"summary": h.history.Stats(ctx),
	})
}

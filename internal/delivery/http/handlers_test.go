package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcity/insight/internal/domain"
	"github.com/smartcity/insight/internal/repository/memory"
	"github.com/smartcity/insight/internal/service"
	"github.com/smartcity/insight/internal/store"
)

type offlineRemote struct{}

func (offlineRemote) Analyze(ctx context.Context, query string, userID *int64, snap domain.CitySnapshot, history []domain.ChatTurn) (domain.ChatResponse, error) {
	return domain.ChatResponse{}, errors.New("remote unavailable")
}

func newTestApp(t *testing.T) (*fiber.App, *service.IngestService) {
	t.Helper()

	kv := memory.NewMemoryStorage()
	air := store.NewAirStore(kv, nil)
	traffic := store.NewTrafficStore(kv, nil)
	weather := store.NewWeatherStore(kv, nil)
	chatStore := store.NewChatStore(kv, nil)
	queries := store.NewQueryStore(kv, nil)

	ingest := service.NewIngestService(air, traffic, weather, nil)
	history := service.NewHistoryService(air, traffic, weather)
	chat := service.NewChatService(offlineRemote{}, history, chatStore, queries, nil)

	// Mirror the JSON error handler installed by cmd/server so error
	// responses are JSON here too, as they are in production.
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		},
	})
	handler := NewHandler(ingest, chat, history, kv, air, traffic, weather)
	SetupRoutes(app, handler)
	return app, ingest
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*nethttp.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := nethttp.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]json.RawMessage
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodGet, "/health", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"ok"`, string(body["status"]))
	assert.JSONEq(t, `"ok"`, string(body["storage"]))
}

func TestSnapshotRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/api/v1/snapshot", domain.CitySnapshot{
		Air:     domain.AirQualityData{AQI: 130, PM25: 42},
		Traffic: domain.TrafficData{CongestionLevel: 80, AverageSpeed: 15, Incidents: 4},
		Weather: domain.WeatherData{Temperature: 30, Humidity: 40, Description: "Sunny", WindSpeed: 5},
	})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, nethttp.MethodGet, "/api/v1/snapshot", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var snap domain.CitySnapshot
	require.NoError(t, json.Unmarshal(body["data"], &snap))
	assert.Equal(t, 130.0, snap.Air.AQI)
	assert.Equal(t, "Unhealthy for Sensitive", snap.Air.Category)
	assert.Equal(t, 80.0, snap.Traffic.CongestionLevel)
}

func TestAnalysisEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	doJSON(t, app, nethttp.MethodPost, "/api/v1/snapshot", domain.CitySnapshot{
		Air:     domain.AirQualityData{AQI: 160},
		Traffic: domain.TrafficData{CongestionLevel: 85, AverageSpeed: 10, Incidents: 3},
		Weather: domain.WeatherData{Temperature: 20, Humidity: 50, Description: "Clear", WindSpeed: 4},
	})

	resp, body := doJSON(t, app, nethttp.MethodGet, "/api/v1/analysis", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var result domain.CityAnalysis
	require.NoError(t, json.Unmarshal(body["data"], &result))
	assert.Equal(t, "Heavy", result.TrafficStatus)
	assert.NotEmpty(t, result.Insights)
	assert.Greater(t, len(result.Predictions), 0)
}

func TestChatEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, nethttp.MethodPost, "/api/v1/chat", ChatRequest{Query: "how is the air"})
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var chatResp domain.ChatResponse
	require.NoError(t, json.Unmarshal(body["data"], &chatResp))
	assert.NotEmpty(t, chatResp.Response)
	assert.Equal(t, domain.LocalEngineSource, chatResp.Source)
}

func TestChatEmptyQueryRejected(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodPost, "/api/v1/chat", ChatRequest{Query: ""})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestHistoryEndpoint(t *testing.T) {
	app, ingest := newTestApp(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ingest.RecordSnapshot(ctx, domain.CitySnapshot{
			Air: domain.AirQualityData{AQI: float64(50 + i*10)},
		})
	}

	resp, body := doJSON(t, app, nethttp.MethodGet, "/api/v1/history/air?limit=2", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var records []domain.AirQualityRecord
	require.NoError(t, json.Unmarshal(body["data"], &records))
	require.Len(t, records, 2)
	assert.Equal(t, 70.0, records[0].AQI)
	assert.Equal(t, 60.0, records[1].AQI)
}

func TestHistoryUnknownDomain(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, nethttp.MethodGet, "/api/v1/history/noise", nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestClearHistory(t *testing.T) {
	app, ingest := newTestApp(t)
	ctx := context.Background()
	ingest.RecordSnapshot(ctx, domain.CitySnapshot{})

	resp, _ := doJSON(t, app, nethttp.MethodDelete, "/api/v1/history/air", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	_, body := doJSON(t, app, nethttp.MethodGet, "/api/v1/history/air", nil)
	assert.JSONEq(t, "null", string(body["data"]))
}

func TestAggregatesEndpoint(t *testing.T) {
	app, ingest := newTestApp(t)
	ctx := context.Background()
	ingest.RecordSnapshot(ctx, domain.CitySnapshot{Air: domain.AirQualityData{AQI: 60}})
	ingest.RecordSnapshot(ctx, domain.CitySnapshot{Air: domain.AirQualityData{AQI: 80}})

	resp, body := doJSON(t, app, nethttp.MethodGet, "/api/v1/aggregates/air?field=aqi&by=hour", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var points []struct {
		Hour  int     `json:"hour"`
		Value float64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(body["data"], &points))
	require.Len(t, points, 1)
	assert.Equal(t, 70.0, points[0].Value)

	resp, _ = doJSON(t, app, nethttp.MethodGet, "/api/v1/aggregates/air?field=bogus", nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	app, ingest := newTestApp(t)
	ingest.RecordSnapshot(context.Background(), domain.CitySnapshot{})

	resp, body := doJSON(t, app, nethttp.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var stats map[string]domain.StoreStats
	require.NoError(t, json.Unmarshal(body["data"], &stats))
	assert.Equal(t, 1, stats["air"].Count)

	var summary string
	require.NoError(t, json.Unmarshal(body["summary"], &summary))
	assert.Contains(t, summary, "Database contains 1 air quality records")
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smartcity/insight/internal/domain"
)

// AIBridge handles communication with the remote analysis service.
type AIBridge struct {
	baseURL    string
	httpClient *http.Client
}

// NewAIBridge creates a new AI bridge.
func NewAIBridge(baseURL string) *AIBridge {
	return &AIBridge{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type analyzeContext struct {
	Weather domain.WeatherData    `json:"weather"`
	Air     domain.AirQualityData `json:"air"`
	Traffic domain.TrafficData    `json:"traffic"`
	History []domain.ChatTurn     `json:"history"`
}

type analyzeRequest struct {
	Query                  string         `json:"query"`
	UserID                 *int64         `json:"user_id"`
	EnableInternetFallback bool           `json:"enable_internet_fallback"`
	Context                analyzeContext `json:"context"`
}

// Only Response is required; everything else is best-effort metadata.
type analyzeResponse struct {
	Response             string   `json:"response"`
	IntentDetected       string   `json:"intent_detected"`
	IntentConfidence     float64  `json:"intent_confidence"`
	Source               string   `json:"source"`
	WebSources           []string `json:"web_sources"`
	ProcessingTimeMS     float64  `json:"processing_time_ms"`
	ProactiveSuggestions []string `json:"proactive_suggestions"`
	RoutingReason        string   `json:"routing_reason"`
	DebugTraceID         string   `json:"debug_trace_id"`
}

// Analyze sends one query with snapshot context and bounded history to
// the remote service. Any transport failure or non-2xx status comes
// back as an error; the caller decides how to degrade.
func (b *AIBridge) Analyze(ctx context.Context, query string, userID *int64, snap domain.CitySnapshot, history []domain.ChatTurn) (domain.ChatResponse, error) {
	if history == nil {
		history = []domain.ChatTurn{}
	}
	body, err := json.Marshal(analyzeRequest{
		Query:                  query,
		UserID:                 userID,
		EnableInternetFallback: false,
		Context: analyzeContext{
			Weather: snap.Weather,
			Air:     snap.Air,
			Traffic: snap.Traffic,
			History: history,
		},
	})
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("ai_bridge: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/ai/analyze", b.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("ai_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("ai_bridge: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ChatResponse{}, fmt.Errorf("ai_bridge: analysis returned status %d", resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.ChatResponse{}, fmt.Errorf("ai_bridge: failed to decode response: %w", err)
	}

	return domain.ChatResponse{
		Response:             parsed.Response,
		Intent:               parsed.IntentDetected,
		Confidence:           parsed.IntentConfidence,
		Source:               parsed.Source,
		WebSources:           parsed.WebSources,
		ProcessingTimeMS:     parsed.ProcessingTimeMS,
		ProactiveSuggestions: parsed.ProactiveSuggestions,
		RoutingReason:        parsed.RoutingReason,
		DebugTraceID:         parsed.DebugTraceID,
	}, nil
}

// Health checks remote service connectivity.
func (b *AIBridge) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", b.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ai_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ai_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ai_bridge: health check returned status %d", resp.StatusCode)
	}
	return nil
}

package domain

import "time"

// InsightType classifies what kind of finding an insight is.
type InsightType string

const (
	InsightPrediction     InsightType = "prediction"
	InsightAlert          InsightType = "alert"
	InsightRecommendation InsightType = "recommendation"
	InsightTrend          InsightType = "trend"
)

// InsightCategory names the domain an insight belongs to.
type InsightCategory string

const (
	CategoryTraffic InsightCategory = "traffic"
	CategoryAir     InsightCategory = "air"
	CategoryWeather InsightCategory = "weather"
	CategoryGeneral InsightCategory = "general"
)

// Priority orders insights by urgency.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the sort rank of a priority; lower is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Insight is a generated, prioritized human-readable finding.
type Insight struct {
	ID          string          `json:"id"`
	Type        InsightType     `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Confidence  float64         `json:"confidence"`
	Category    InsightCategory `json:"category"`
	Priority    Priority        `json:"priority"`
	Timestamp   time.Time       `json:"timestamp"`
}

// CityAnalysis is the full derived view of one snapshot. It is computed
// on demand and never persisted.
type CityAnalysis struct {
	OverallScore  int       `json:"overall_score"`
	TrafficStatus string    `json:"traffic_status"`
	AirStatus     string    `json:"air_status"`
	WeatherStatus string    `json:"weather_status"`
	Insights      []Insight `json:"insights"`
	Predictions   []string  `json:"predictions"`
	HealthScore   int       `json:"health_score"`
}

// ChatTurn is the compact history form sent to the remote analysis service.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LocalEngineSource marks responses produced by the local fallback path.
const LocalEngineSource = "local_engine"

// ChatResponse is the answer to one user query. Source tells callers
// whether it came from the remote service or the local engine.
type ChatResponse struct {
	Response             string   `json:"response"`
	Intent               string   `json:"intent,omitempty"`
	Confidence           float64  `json:"confidence,omitempty"`
	Source               string   `json:"source,omitempty"`
	WebSources           []string `json:"web_sources,omitempty"`
	ProcessingTimeMS     float64  `json:"processing_time_ms,omitempty"`
	ProactiveSuggestions []string `json:"proactive_suggestions,omitempty"`
	RoutingReason        string   `json:"routing_reason,omitempty"`
	DebugTraceID         string   `json:"debug_trace_id,omitempty"`
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smartcity/insight/internal/analysis"
	"github.com/smartcity/insight/internal/domain"
	"github.com/smartcity/insight/internal/store"
)

// RemoteAnalyzer is the remote half of the chat router. *AIBridge is the
// production implementation.
type RemoteAnalyzer interface {
	Analyze(ctx context.Context, query string, userID *int64, snap domain.CitySnapshot, history []domain.ChatTurn) (domain.ChatResponse, error)
}

// Bounds on the history slice sent to the remote service.
const (
	historyWindow    = 14
	historyTurnLimit = 320
)

// ChatService routes a user query: remote analysis first, deterministic
// keyword cascade when the remote service is unreachable. It never
// fails; the worst case is a locally generated answer.
type ChatService struct {
	remote  RemoteAnalyzer
	history *HistoryService
	chat    *store.ChatStore
	queries *store.QueryStore
	log     *zap.Logger
}

// NewChatService creates a new chat service.
func NewChatService(remote RemoteAnalyzer, history *HistoryService, chat *store.ChatStore, queries *store.QueryStore, log *zap.Logger) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{remote: remote, history: history, chat: chat, queries: queries, log: log}
}

// Respond answers one user query against the given snapshot. Both turns
// and the answered query are persisted. The returned Source field tells
// the caller whether the answer came from the remote service or the
// local engine.
func (s *ChatService) Respond(ctx context.Context, query string, userID *int64, snap domain.CitySnapshot) domain.ChatResponse {
	compact := s.compactHistory(ctx)
	s.chat.Create(ctx, domain.ChatMessage{Role: domain.RoleUser, Content: query})

	resp, err := s.remote.Analyze(ctx, query, userID, snap, compact)
	category := resp.Intent
	if err != nil {
		s.log.Warn("remote analysis unavailable, falling back to local engine", zap.Error(err))
		resp, category = s.localAnswer(ctx, query, snap)
	}
	if category == "" {
		category = "general"
	}

	s.chat.Create(ctx, domain.ChatMessage{
		Role:           domain.RoleAssistant,
		Content:        resp.Response,
		Intent:         resp.Intent,
		Confidence:     resp.Confidence,
		Source:         resp.Source,
		ProcessingTime: resp.ProcessingTimeMS,
	})
	s.queries.Create(ctx, domain.UserQuery{
		Query:    query,
		Response: resp.Response,
		Category: category,
	})
	return resp
}

// compactHistory returns the last turns oldest-first, whitespace
// collapsed and truncated per turn.
func (s *ChatService) compactHistory(ctx context.Context) []domain.ChatTurn {
	recent := s.chat.ReadRecent(ctx, historyWindow)

	turns := make([]domain.ChatTurn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		content := strings.Join(strings.Fields(recent[i].Content), " ")
		if r := []rune(content); len(r) > historyTurnLimit {
			content = string(r[:historyTurnLimit])
		}
		turns = append(turns, domain.ChatTurn{Role: recent[i].Role, Content: content})
	}
	return turns
}

// fallbackRule is one branch of the keyword cascade. Rules are evaluated
// top to bottom, first match wins; reordering changes observable
// behavior for queries matching several categories.
type fallbackRule struct {
	name    string
	match   func(q string) bool
	respond func(ctx context.Context, q string, snap domain.CitySnapshot) string
}

func (s *ChatService) localAnswer(ctx context.Context, query string, snap domain.CitySnapshot) (domain.ChatResponse, string) {
	q := strings.ToLower(query)
	for _, rule := range s.fallbackRules() {
		if !rule.match(q) {
			continue
		}
		return domain.ChatResponse{
			Response:   rule.respond(ctx, q, snap),
			Source:     domain.LocalEngineSource,
			Confidence: 1.0,
		}, rule.name
	}
	// Unreachable: the last rule matches everything.
	return domain.ChatResponse{Source: domain.LocalEngineSource}, "general"
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func matchAll(string) bool { return true }

func (s *ChatService) fallbackRules() []fallbackRule {
	return []fallbackRule{
		{
			name:  "history",
			match: func(q string) bool { return containsAny(q, "history", "trend", "historical", "past") },
			respond: func(ctx context.Context, q string, _ domain.CitySnapshot) string {
				if containsAny(q, "air", "quality", "pollution") {
					return s.history.TrendSummary(ctx, "air")
				}
				if containsAny(q, "traffic", "congestion") {
					return s.history.TrendSummary(ctx, "traffic")
				}
				return s.history.Stats(ctx)
			},
		},
		{
			name:  "database",
			match: func(q string) bool { return containsAny(q, "database", "records", "data", "stored") },
			respond: func(ctx context.Context, _ string, _ domain.CitySnapshot) string {
				return s.history.Stats(ctx)
			},
		},
		{
			name:    "traffic",
			match:   func(q string) bool { return containsAny(q, "traffic", "congestion", "road", "drive") },
			respond: s.trafficAnswer,
		},
		{
			name:    "air",
			match:   func(q string) bool { return containsAny(q, "air", "pollution", "aqi", "breathe") },
			respond: s.airAnswer,
		},
		{
			name:    "weather",
			match:   func(q string) bool { return containsAny(q, "weather", "temperature", "hot", "cold", "rain") },
			respond: s.weatherAnswer,
		},
		{
			name:    "prediction",
			match:   func(q string) bool { return containsAny(q, "predict", "forecast", "expect", "will", "next") },
			respond: s.predictionAnswer,
		},
		{
			name:  "comparison",
			match: func(q string) bool { return containsAny(q, "compare", "versus", "vs", "better", "worse") },
			respond: func(ctx context.Context, _ string, _ domain.CitySnapshot) string {
				return fmt.Sprintf("Comparison analysis:\n\n%s\n\n%s",
					s.history.TrendSummary(ctx, "air"), s.history.TrendSummary(ctx, "traffic"))
			},
		},
		{
			name:    "status",
			match:   func(q string) bool { return containsAny(q, "status", "overview", "how", "city", "summary") },
			respond: s.statusAnswer,
		},
		{
			name:    "alerts",
			match:   func(q string) bool { return containsAny(q, "alert", "warning", "danger", "problem") },
			respond: s.alertsAnswer,
		},
		{
			name:  "help",
			match: func(q string) bool { return containsAny(q, "help", "can you", "what can") },
			respond: func(context.Context, string, domain.CitySnapshot) string {
				return "I can help you with:\n\n" +
					"- Traffic conditions & congestion\n" +
					"- Air quality & pollution levels\n" +
					"- Weather information\n" +
					"- City predictions & forecasts\n" +
					"- Historical trends & analysis\n" +
					"- Database records & statistics\n" +
					"- Active alerts & warnings\n\n" +
					"Try: \"Show traffic trends\" or \"What's the air quality history?\""
			},
		},
		{
			name:  "general",
			match: matchAll,
			respond: func(context.Context, string, domain.CitySnapshot) string {
				return "I'm your Smart City AI assistant. I can provide real-time information about:\n\n" +
					"- Traffic & road conditions\n" +
					"- Air quality & pollution\n" +
					"- Weather & forecasts\n" +
					"- Historical trends\n" +
					"- City predictions\n\n" +
					"What would you like to know?"
			},
		},
	}
}

func (s *ChatService) trafficAnswer(_ context.Context, _ string, snap domain.CitySnapshot) string {
	t := snap.Traffic
	advice := "Roads are relatively clear for travel."
	if t.CongestionLevel > 50 {
		advice = "Recommendation: Consider alternative routes or delay travel."
	}
	return fmt.Sprintf("Traffic Status: %s\n"+
		"- Congestion: %.0f%%\n"+
		"- Average Speed: %.0f km/h\n"+
		"- Active Incidents: %d\n\n%s",
		analysis.TrafficStatus(t.CongestionLevel), t.CongestionLevel, t.AverageSpeed, t.Incidents, advice)
}

func (s *ChatService) airAnswer(_ context.Context, _ string, snap domain.CitySnapshot) string {
	a := snap.Air
	advice := "Air quality is acceptable for outdoor activities."
	if a.AQI > 100 {
		advice = "Sensitive groups should limit outdoor activities."
	}
	return fmt.Sprintf("Air Quality: %s\n"+
		"- AQI: %.0f\n"+
		"- PM2.5: %.1f µg/m³\n"+
		"- PM10: %.1f µg/m³\n"+
		"- O3: %.1f µg/m³\n\n%s",
		a.Category, a.AQI, a.PM25, a.PM10, a.O3, advice)
}

func (s *ChatService) weatherAnswer(_ context.Context, _ string, snap domain.CitySnapshot) string {
	w := snap.Weather
	return fmt.Sprintf("Weather in %s: %s\n"+
		"- Temperature: %.0f°C (feels like %.0f°C)\n"+
		"- Humidity: %.0f%%\n"+
		"- Wind: %.0f km/h\n"+
		"- Pressure: %.0f hPa",
		w.CityName, w.Description, w.Temperature, w.FeelsLike, w.Humidity, w.WindSpeed, w.Pressure)
}

func (s *ChatService) predictionAnswer(_ context.Context, _ string, snap domain.CitySnapshot) string {
	predictions := analysis.Predictions(snap, time.Now())
	if len(predictions) == 0 {
		return "Based on current data, conditions are expected to remain stable for the next few hours."
	}
	return "Predictions:\n- " + strings.Join(predictions, "\n- ")
}

func (s *ChatService) statusAnswer(_ context.Context, _ string, snap domain.CitySnapshot) string {
	a := analysis.AnalyzeCity(snap, time.Now())

	summary := "No active alerts."
	if len(a.Insights) > 0 {
		alerts := 0
		for _, in := range a.Insights {
			if in.Type == domain.InsightAlert {
				alerts++
			}
		}
		summary = fmt.Sprintf("Active Alerts: %d", alerts)
	}
	return fmt.Sprintf("City Health Score: %d/100\n\n"+
		"Traffic: %s\n"+
		"Air Quality: %s\n"+
		"Weather: %s\n\n%s",
		a.OverallScore, a.TrafficStatus, a.AirStatus, a.WeatherStatus, summary)
}

func (s *ChatService) alertsAnswer(_ context.Context, _ string, snap domain.CitySnapshot) string {
	a := analysis.AnalyzeCity(snap, time.Now())

	var lines []string
	for _, in := range a.Insights {
		if in.Type == domain.InsightAlert || in.Priority == domain.PriorityHigh || in.Priority == domain.PriorityCritical {
			lines = append(lines, fmt.Sprintf("- %s: %s", in.Title, in.Description))
		}
	}
	if len(lines) == 0 {
		return "No active alerts or warnings. City conditions are normal."
	}
	return "Active Alerts:\n" + strings.Join(lines, "\n")
}

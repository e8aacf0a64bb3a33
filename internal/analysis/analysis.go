package analysis

import (
	"time"

	"github.com/smartcity/insight/internal/domain"
)

// TrafficStatus maps a congestion level onto the dashboard label.
func TrafficStatus(congestion float64) string {
	switch {
	case congestion > 70:
		return "Heavy"
	case congestion > 40:
		return "Moderate"
	default:
		return "Light"
	}
}

// AnalyzeCity derives the full analysis for one snapshot: statuses,
// sorted insights, predictions and both composite scores.
func AnalyzeCity(snap domain.CitySnapshot, now time.Time) domain.CityAnalysis {
	return domain.CityAnalysis{
		OverallScore:  OverallScore(snap),
		TrafficStatus: TrafficStatus(snap.Traffic.CongestionLevel),
		AirStatus:     snap.Air.Category,
		WeatherStatus: snap.Weather.Description,
		Insights:      CombinedInsights(snap, now),
		Predictions:   Predictions(snap, now),
		HealthScore:   HealthScore(snap.Air, snap.Traffic),
	}
}

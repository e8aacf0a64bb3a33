package service

import (
	"context"
	"fmt"

	"github.com/smartcity/insight/internal/analysis"
	"github.com/smartcity/insight/internal/domain"
	"github.com/smartcity/insight/internal/store"
)

// HistoryService answers questions about stored sensor history: trend
// summaries, per-store statistics and aggregate series.
type HistoryService struct {
	air     *store.AirStore
	traffic *store.TrafficStore
	weather *store.WeatherStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(air *store.AirStore, traffic *store.TrafficStore, weather *store.WeatherStore) *HistoryService {
	return &HistoryService{air: air, traffic: traffic, weather: weather}
}

// TrendSummary builds a one-paragraph trend description for "air" or
// "traffic" from the stored history.
func (s *HistoryService) TrendSummary(ctx context.Context, category string) string {
	switch category {
	case "air":
		return s.airTrend(ctx)
	case "traffic":
		return s.trafficTrend(ctx)
	default:
		return "Unknown category."
	}
}

const notEnoughData = "Not enough historical data to analyze trends yet."

func (s *HistoryService) airTrend(ctx context.Context) string {
	records := s.air.ReadAll(ctx)
	if len(records) < 3 {
		return notEnoughData
	}

	recent := records[max(0, len(records)-5):]
	avgAQI := meanOf(recent, func(r domain.AirQualityRecord) float64 { return r.AQI })

	// Compare the last 5 readings against the 5 before them.
	earlier := sliceWindow(records, len(records)-10, len(records)-5)
	earlierAvg := avgAQI
	if len(earlier) > 0 {
		earlierAvg = meanOf(earlier, func(r domain.AirQualityRecord) float64 { return r.AQI })
	}

	trend := "stable"
	if avgAQI > earlierAvg+10 {
		trend = "worsening"
	} else if avgAQI < earlierAvg-10 {
		trend = "improving"
	}

	hourly := analysis.HourlyAverages(records, func(r domain.AirQualityRecord) float64 { return r.AQI })
	peakHour := peakHourOf(hourly, 8)

	return fmt.Sprintf("Air quality trend is %s. Average AQI: %.0f. Peak pollution typically occurs around %d:00. Based on %d records.",
		trend, avgAQI, peakHour, len(records))
}

func (s *HistoryService) trafficTrend(ctx context.Context) string {
	records := s.traffic.ReadAll(ctx)
	if len(records) < 3 {
		return notEnoughData
	}

	recent := records[max(0, len(records)-5):]
	avgCongestion := meanOf(recent, func(r domain.TrafficRecord) float64 { return r.CongestionLevel })
	avgSpeed := meanOf(recent, func(r domain.TrafficRecord) float64 { return r.AverageSpeed })

	hourly := analysis.HourlyAverages(records, func(r domain.TrafficRecord) float64 { return r.CongestionLevel })
	peakHour := peakHourOf(hourly, 17)

	return fmt.Sprintf("Average congestion: %.0f%%. Peak traffic typically at %d:00. Average speed: %.0f km/h. Based on %d records.",
		avgCongestion, peakHour, avgSpeed, len(records))
}

// Stats describes what the database currently holds.
func (s *HistoryService) Stats(ctx context.Context) string {
	airStats := s.air.Stats(ctx)
	trafficCount := s.traffic.Count(ctx)
	weatherCount := s.weather.Count(ctx)

	text := fmt.Sprintf("Database contains %d air quality records, %d traffic records, and %d weather records.",
		airStats.Count, trafficCount, weatherCount)
	if airStats.Oldest != nil {
		text += fmt.Sprintf(" Data collection started: %s.", airStats.Oldest.Format("Jan 2, 2006"))
	}
	return text
}

// StoreStats returns the raw per-store statistics.
func (s *HistoryService) StoreStats(ctx context.Context) map[string]domain.StoreStats {
	return map[string]domain.StoreStats{
		"air":     s.air.Stats(ctx),
		"traffic": s.traffic.Stats(ctx),
		"weather": s.weather.Stats(ctx),
	}
}

func meanOf[T any](records []T, field func(T) float64) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += field(r)
	}
	return sum / float64(len(records))
}

// sliceWindow returns records[from:to] with both bounds clamped to the
// valid range; out-of-range windows yield an empty slice.
func sliceWindow[T any](records []T, from, to int) []T {
	from = max(0, from)
	to = max(0, to)
	if to > len(records) {
		to = len(records)
	}
	if from >= to {
		return nil
	}
	return records[from:to]
}

// peakHourOf returns the hour with the highest value; first wins on
// ties, fallback when the series is empty.
func peakHourOf(points []analysis.HourlyPoint, fallback int) int {
	if len(points) == 0 {
		return fallback
	}
	peak := points[0]
	for _, p := range points[1:] {
		if p.Value > peak.Value {
			peak = p
		}
	}
	return peak.Hour
}

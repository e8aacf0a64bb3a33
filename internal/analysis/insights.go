package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/smartcity/insight/internal/domain"
)

func newInsight(category domain.InsightCategory, seq int, now time.Time) domain.Insight {
	return domain.Insight{
		ID:        fmt.Sprintf("%s-%d-%d", category, now.UnixMilli(), seq),
		Category:  category,
		Timestamp: now,
	}
}

// TrafficInsights evaluates the traffic rules against one snapshot.
func TrafficInsights(traffic domain.TrafficData, now time.Time) []domain.Insight {
	var insights []domain.Insight
	hour := now.Hour()

	if traffic.CongestionLevel > 70 {
		in := newInsight(domain.CategoryTraffic, 1, now)
		in.Type = domain.InsightAlert
		in.Title = "High Traffic Congestion"
		in.Description = fmt.Sprintf("Current congestion at %.0f%%. Consider alternative routes or delay travel.", traffic.CongestionLevel)
		in.Confidence = 0.85
		in.Priority = domain.PriorityHigh
		insights = append(insights, in)
	}

	if (hour >= 6 && hour < 8) || (hour >= 16 && hour < 18) {
		trend := "remain elevated for the next 2 hours"
		if hour < 12 {
			trend = "peak within 1-2 hours"
		}
		in := newInsight(domain.CategoryTraffic, 2, now)
		in.Type = domain.InsightPrediction
		in.Title = "Rush Hour Traffic Increase"
		in.Description = fmt.Sprintf("Traffic is expected to %s based on historical patterns.", trend)
		in.Confidence = 0.78
		in.Priority = domain.PriorityMedium
		insights = append(insights, in)
	}

	if traffic.Incidents > 2 {
		in := newInsight(domain.CategoryTraffic, 3, now)
		in.Type = domain.InsightAlert
		in.Title = "Multiple Traffic Incidents"
		in.Description = fmt.Sprintf("%d incidents detected. Average speed reduced to %.0f km/h.", traffic.Incidents, traffic.AverageSpeed)
		in.Confidence = 0.92
		in.Priority = domain.PriorityHigh
		insights = append(insights, in)
	}

	return insights
}

// AirQualityInsights evaluates the air quality rules against one snapshot.
func AirQualityInsights(air domain.AirQualityData, now time.Time) []domain.Insight {
	var insights []domain.Insight

	if air.AQI > 100 {
		priority := domain.PriorityHigh
		if air.AQI > 150 {
			priority = domain.PriorityCritical
		}
		in := newInsight(domain.CategoryAir, 1, now)
		in.Type = domain.InsightAlert
		in.Title = "Poor Air Quality Alert"
		in.Description = fmt.Sprintf("AQI at %.0f (%s). Sensitive groups should limit outdoor activities.", air.AQI, air.Category)
		in.Confidence = 0.95
		in.Priority = priority
		insights = append(insights, in)
	}

	if air.PM25 > 35 {
		in := newInsight(domain.CategoryAir, 2, now)
		in.Type = domain.InsightRecommendation
		in.Title = "PM2.5 Elevated"
		in.Description = fmt.Sprintf("Fine particulate matter at %.1f µg/m³. Consider wearing masks outdoors.", air.PM25)
		in.Confidence = 0.88
		in.Priority = domain.PriorityMedium
		insights = append(insights, in)
	}

	if hour := now.Hour(); hour >= 7 && hour <= 9 {
		in := newInsight(domain.CategoryAir, 3, now)
		in.Type = domain.InsightPrediction
		in.Title = "Morning Air Quality Trend"
		in.Description = "Air quality typically worsens during morning rush hours. Expect PM2.5 levels to rise."
		in.Confidence = 0.72
		in.Priority = domain.PriorityLow
		insights = append(insights, in)
	}

	return insights
}

// WeatherInsights evaluates the weather rules against one snapshot.
// Heat and freeze alerts are mutually exclusive.
func WeatherInsights(weather domain.WeatherData, now time.Time) []domain.Insight {
	var insights []domain.Insight

	if weather.Temperature > 35 {
		in := newInsight(domain.CategoryWeather, 1, now)
		in.Type = domain.InsightAlert
		in.Title = "Extreme Heat Warning"
		in.Description = fmt.Sprintf("Temperature at %.0f°C. Stay hydrated and avoid prolonged sun exposure.", weather.Temperature)
		in.Confidence = 0.95
		in.Priority = domain.PriorityHigh
		insights = append(insights, in)
	} else if weather.Temperature < 0 {
		in := newInsight(domain.CategoryWeather, 1, now)
		in.Type = domain.InsightAlert
		in.Title = "Freezing Temperature"
		in.Description = fmt.Sprintf("Temperature at %.0f°C. Roads may be icy, drive carefully.", weather.Temperature)
		in.Confidence = 0.95
		in.Priority = domain.PriorityHigh
		insights = append(insights, in)
	}

	if weather.WindSpeed > 40 {
		in := newInsight(domain.CategoryWeather, 2, now)
		in.Type = domain.InsightAlert
		in.Title = "Strong Wind Advisory"
		in.Description = fmt.Sprintf("Wind speed at %.0f km/h. Secure loose objects and avoid tall structures.", weather.WindSpeed)
		in.Confidence = 0.90
		in.Priority = domain.PriorityMedium
		insights = append(insights, in)
	}

	if weather.Humidity > 80 {
		in := newInsight(domain.CategoryWeather, 3, now)
		in.Type = domain.InsightRecommendation
		in.Title = "High Humidity"
		in.Description = fmt.Sprintf("Humidity at %.0f%%. May feel warmer than actual temperature.", weather.Humidity)
		in.Confidence = 0.85
		in.Priority = domain.PriorityLow
		insights = append(insights, in)
	}

	return insights
}

// CombinedInsights runs all three analyzers and stable-sorts the result
// by priority, most urgent first. Ties keep traffic, air, weather order.
func CombinedInsights(snap domain.CitySnapshot, now time.Time) []domain.Insight {
	var all []domain.Insight
	all = append(all, TrafficInsights(snap.Traffic, now)...)
	all = append(all, AirQualityInsights(snap.Air, now)...)
	all = append(all, WeatherInsights(snap.Weather, now)...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Priority.Rank() < all[j].Priority.Rank()
	})
	return all
}

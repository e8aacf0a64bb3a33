package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcity/insight/internal/domain"
)

// 13:00 sits outside every time-of-day trigger window.
var quietHour = time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

func TestTrafficInsights(t *testing.T) {
	tests := []struct {
		name    string
		traffic domain.TrafficData
		now     time.Time
		titles  []string
	}{
		{
			name:    "calm traffic yields nothing",
			traffic: domain.TrafficData{CongestionLevel: 30, Incidents: 0},
			now:     quietHour,
			titles:  nil,
		},
		{
			name:    "heavy congestion",
			traffic: domain.TrafficData{CongestionLevel: 85},
			now:     quietHour,
			titles:  []string{"High Traffic Congestion"},
		},
		{
			name:    "morning rush window",
			traffic: domain.TrafficData{CongestionLevel: 40},
			now:     time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC),
			titles:  []string{"Rush Hour Traffic Increase"},
		},
		{
			name:    "evening rush window",
			traffic: domain.TrafficData{CongestionLevel: 40},
			now:     time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC),
			titles:  []string{"Rush Hour Traffic Increase"},
		},
		{
			name:    "incident pileup",
			traffic: domain.TrafficData{CongestionLevel: 40, Incidents: 3, AverageSpeed: 22},
			now:     quietHour,
			titles:  []string{"Multiple Traffic Incidents"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TrafficInsights(tc.traffic, tc.now)
			require.Len(t, got, len(tc.titles))
			for i, title := range tc.titles {
				assert.Equal(t, title, got[i].Title)
				assert.Equal(t, domain.CategoryTraffic, got[i].Category)
			}
		})
	}
}

func TestRushHourTextVariesByHalfDay(t *testing.T) {
	morning := TrafficInsights(domain.TrafficData{}, time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC))
	evening := TrafficInsights(domain.TrafficData{}, time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC))

	require.Len(t, morning, 1)
	require.Len(t, evening, 1)
	assert.Contains(t, morning[0].Description, "peak within 1-2 hours")
	assert.Contains(t, evening[0].Description, "remain elevated for the next 2 hours")
}

func TestAirQualityAlertPriorityEscalates(t *testing.T) {
	high := AirQualityInsights(domain.AirQualityData{AQI: 120, Category: "Unhealthy for Sensitive"}, quietHour)
	require.Len(t, high, 1)
	assert.Equal(t, domain.PriorityHigh, high[0].Priority)
	assert.Equal(t, 0.95, high[0].Confidence)

	// One and only one air alert, and above 150 it is critical.
	critical := AirQualityInsights(domain.AirQualityData{AQI: 160, Category: "Hazardous"}, quietHour)
	alerts := 0
	for _, in := range critical {
		if in.Type == domain.InsightAlert {
			alerts++
			assert.Equal(t, domain.PriorityCritical, in.Priority)
		}
	}
	assert.Equal(t, 1, alerts)
}

func TestAirQualityMorningAndParticulates(t *testing.T) {
	got := AirQualityInsights(domain.AirQualityData{AQI: 40, PM25: 38.5}, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	require.Len(t, got, 2)
	assert.Equal(t, "PM2.5 Elevated", got[0].Title)
	assert.Equal(t, domain.InsightRecommendation, got[0].Type)
	assert.Equal(t, "Morning Air Quality Trend", got[1].Title)
	assert.Equal(t, domain.InsightPrediction, got[1].Type)
}

func TestWeatherHeatAndFreezeAreExclusive(t *testing.T) {
	heat := WeatherInsights(domain.WeatherData{Temperature: 38}, quietHour)
	require.Len(t, heat, 1)
	assert.Equal(t, "Extreme Heat Warning", heat[0].Title)

	freeze := WeatherInsights(domain.WeatherData{Temperature: -5}, quietHour)
	require.Len(t, freeze, 1)
	assert.Equal(t, "Freezing Temperature", freeze[0].Title)

	mild := WeatherInsights(domain.WeatherData{Temperature: 20}, quietHour)
	assert.Empty(t, mild)
}

func TestWeatherWindAndHumidity(t *testing.T) {
	got := WeatherInsights(domain.WeatherData{Temperature: 20, WindSpeed: 45, Humidity: 85}, quietHour)
	require.Len(t, got, 2)
	assert.Equal(t, "Strong Wind Advisory", got[0].Title)
	assert.Equal(t, domain.PriorityMedium, got[0].Priority)
	assert.Equal(t, "High Humidity", got[1].Title)
	assert.Equal(t, domain.PriorityLow, got[1].Priority)
}

func TestCombinedInsightsSortedByPriority(t *testing.T) {
	snap := domain.CitySnapshot{
		Traffic: domain.TrafficData{CongestionLevel: 80},             // high
		Air:     domain.AirQualityData{AQI: 160, Category: "Severe"}, // critical
		Weather: domain.WeatherData{Temperature: 20, Humidity: 85},   // low
	}

	got := CombinedInsights(snap, quietHour)
	require.Len(t, got, 3)
	assert.Equal(t, domain.PriorityCritical, got[0].Priority)
	assert.Equal(t, domain.CategoryAir, got[0].Category)
	assert.Equal(t, domain.PriorityHigh, got[1].Priority)
	assert.Equal(t, domain.CategoryTraffic, got[1].Category)
	assert.Equal(t, domain.PriorityLow, got[2].Priority)
}

func TestCombinedInsightsTieKeepsGenerationOrder(t *testing.T) {
	// Two high-priority alerts: traffic must come before weather.
	snap := domain.CitySnapshot{
		Traffic: domain.TrafficData{CongestionLevel: 80},
		Weather: domain.WeatherData{Temperature: 38},
	}

	got := CombinedInsights(snap, quietHour)
	require.Len(t, got, 2)
	assert.Equal(t, domain.CategoryTraffic, got[0].Category)
	assert.Equal(t, domain.CategoryWeather, got[1].Category)
}

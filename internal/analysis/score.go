package analysis

import (
	"math"

	"github.com/smartcity/insight/internal/domain"
	"github.com/smartcity/insight/pkg/utils"
)

// OverallScore starts from a 100 baseline and subtracts weighted
// penalties for pollution, congestion, temperature extremes and wind.
// Recomputed from scratch on every snapshot.
func OverallScore(snap domain.CitySnapshot) int {
	score := 100.0

	if snap.Air.AQI > 50 {
		score -= math.Min((snap.Air.AQI-50)*0.3, 30)
	}
	if snap.Traffic.CongestionLevel > 30 {
		score -= (snap.Traffic.CongestionLevel - 30) * 0.3
	}
	if snap.Weather.Temperature > 35 || snap.Weather.Temperature < 0 {
		score -= 10
	}
	if snap.Weather.WindSpeed > 30 {
		score -= 5
	}

	return int(math.Round(utils.Clamp(score, 0, 100)))
}

// HealthScore weighs air quality and congestion penalties into a
// separate 0-100 wellbeing metric.
func HealthScore(air domain.AirQualityData, traffic domain.TrafficData) int {
	var aqiPenalty, trafficPenalty float64
	if air.AQI > 50 {
		aqiPenalty = (air.AQI - 50) * 0.5
	}
	if traffic.CongestionLevel > 30 {
		trafficPenalty = (traffic.CongestionLevel - 30) * 0.4
	}

	score := 100 - (aqiPenalty*0.6 + trafficPenalty*0.4)
	return int(math.Round(utils.Clamp(score, 0, 100)))
}

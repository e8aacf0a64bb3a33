package analysis

import (
	"time"

	"github.com/smartcity/insight/internal/domain"
)

// Predictions evaluates the forward-looking heuristics in fixed order.
// Unlike the insight alerts, every matching rule is emitted.
func Predictions(snap domain.CitySnapshot, now time.Time) []string {
	var predictions []string
	hour := now.Hour()

	if hour < 7 {
		predictions = append(predictions, "Traffic congestion expected to increase between 7-9 AM")
	} else if hour < 16 {
		predictions = append(predictions, "Evening rush hour (5-7 PM) will likely see 40-60% congestion increase")
	} else if hour < 20 {
		predictions = append(predictions, "Traffic expected to normalize after 8 PM")
	}

	if snap.Air.AQI < 50 && hour < 7 {
		predictions = append(predictions, "Air quality may degrade during morning traffic hours")
	} else if snap.Air.AQI > 100 {
		predictions = append(predictions, "Air quality expected to improve by evening as traffic reduces")
	}

	if snap.Weather.Humidity > 70 && snap.Weather.Temperature > 25 {
		predictions = append(predictions, "Chance of afternoon thunderstorms based on humidity levels")
	}

	if snap.Traffic.CongestionLevel > 50 && snap.Air.AQI > 80 {
		predictions = append(predictions, "Correlation detected: High traffic may further degrade air quality")
	}

	return predictions
}

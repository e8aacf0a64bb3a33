package domain

import "time"

// WeatherData is the live weather portion of a snapshot.
type WeatherData struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Pressure    float64 `json:"pressure"`
	FeelsLike   float64 `json:"feels_like"`
	CityName    string  `json:"city_name"`
}

// AirQualityData is the live air quality portion of a snapshot.
type AirQualityData struct {
	AQI      float64 `json:"aqi"`
	PM25     float64 `json:"pm25"`
	PM10     float64 `json:"pm10"`
	O3       float64 `json:"o3"`
	NO2      float64 `json:"no2"`
	Category string  `json:"category"`
}

// TrafficData is the live traffic portion of a snapshot.
type TrafficData struct {
	CongestionLevel float64 `json:"congestion_level"`
	AverageSpeed    float64 `json:"average_speed"`
	Incidents       int     `json:"incidents"`
}

// CitySnapshot is one periodic observation of all three domains.
type CitySnapshot struct {
	Weather   WeatherData    `json:"weather"`
	Air       AirQualityData `json:"air"`
	Traffic   TrafficData    `json:"traffic"`
	Timestamp time.Time      `json:"timestamp"`
}

// Fallback values used when an upstream sensor feed delivers nothing.
func DefaultWeather() WeatherData {
	return WeatherData{
		Temperature: 18,
		Description: "Clear sky",
		Humidity:    45,
		WindSpeed:   3,
		Pressure:    720,
		FeelsLike:   16,
		CityName:    "Almaty",
	}
}

func DefaultAirQuality() AirQualityData {
	return AirQualityData{AQI: 50, PM25: 12, PM10: 20, O3: 40, NO2: 10, Category: "Good"}
}

func DefaultTraffic() TrafficData {
	return TrafficData{CongestionLevel: 45, AverageSpeed: 40, Incidents: 1}
}

// AQICategory maps an AQI value onto the standard EPA category labels.
func AQICategory(aqi float64) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

package http

import (
	"fmt"

	"github.com/smartcity/insight/internal/analysis"
	"github.com/smartcity/insight/internal/domain"
)

// Field accessors for the aggregate endpoints. The empty field name
// selects the domain's primary metric.

func airField(name string) (func(domain.AirQualityRecord) float64, error) {
	switch name {
	case "", "aqi":
		return func(r domain.AirQualityRecord) float64 { return r.AQI }, nil
	case "pm25":
		return func(r domain.AirQualityRecord) float64 { return r.PM25 }, nil
	case "pm10":
		return func(r domain.AirQualityRecord) float64 { return r.PM10 }, nil
	case "o3":
		return func(r domain.AirQualityRecord) float64 { return r.O3 }, nil
	case "no2":
		return func(r domain.AirQualityRecord) float64 { return r.NO2 }, nil
	default:
		return nil, fmt.Errorf("unknown air field %q", name)
	}
}

func trafficField(name string) (func(domain.TrafficRecord) float64, error) {
	switch name {
	case "", "congestion":
		return func(r domain.TrafficRecord) float64 { return r.CongestionLevel }, nil
	case "speed":
		return func(r domain.TrafficRecord) float64 { return r.AverageSpeed }, nil
	case "incidents":
		return func(r domain.TrafficRecord) float64 { return float64(r.Incidents) }, nil
	default:
		return nil, fmt.Errorf("unknown traffic field %q", name)
	}
}

func weatherField(name string) (func(domain.WeatherRecord) float64, error) {
	switch name {
	case "", "temperature":
		return func(r domain.WeatherRecord) float64 { return r.Temperature }, nil
	case "humidity":
		return func(r domain.WeatherRecord) float64 { return r.Humidity }, nil
	case "wind":
		return func(r domain.WeatherRecord) float64 { return r.WindSpeed }, nil
	default:
		return nil, fmt.Errorf("unknown weather field %q", name)
	}
}

func rollup[T domain.Record](records []T, field func(T) float64, by string) (any, error) {
	switch by {
	case "hour":
		return analysis.HourlyAverages(records, field), nil
	case "day":
		return analysis.DailyTrend(records, field), nil
	default:
		return nil, fmt.Errorf("unknown rollup %q, want hour or day", by)
	}
}

func airAggregates(records []domain.AirQualityRecord, field, by string) (any, error) {
	f, err := airField(field)
	if err != nil {
		return nil, err
	}
	return rollup(records, f, by)
}

func trafficAggregates(records []domain.TrafficRecord, field, by string) (any, error) {
	f, err := trafficField(field)
	if err != nil {
		return nil, err
	}
	return rollup(records, f, by)
}

func weatherAggregates(records []domain.WeatherRecord, field, by string) (any, error) {
	f, err := weatherField(field)
	if err != nil {
		return nil, err
	}
	return rollup(records, f, by)
}

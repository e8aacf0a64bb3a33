package service

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/smartcity/insight/internal/domain"
	"github.com/smartcity/insight/internal/store"
)

// IngestService records incoming snapshots into the per-domain stores
// and rebuilds the current snapshot from the newest stored records.
type IngestService struct {
	air     *store.AirStore
	traffic *store.TrafficStore
	weather *store.WeatherStore
	log     *zap.Logger
}

// NewIngestService creates a new ingest service.
func NewIngestService(air *store.AirStore, traffic *store.TrafficStore, weather *store.WeatherStore, log *zap.Logger) *IngestService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IngestService{air: air, traffic: traffic, weather: weather, log: log}
}

// RecordSnapshot normalizes and persists one snapshot. Domains the
// caller left empty are filled with the documented fallback values, and
// a missing AQI category is derived from the AQI value.
func (s *IngestService) RecordSnapshot(ctx context.Context, snap domain.CitySnapshot) domain.CitySnapshot {
	if snap.Weather == (domain.WeatherData{}) {
		snap.Weather = domain.DefaultWeather()
	}
	if snap.Air == (domain.AirQualityData{}) {
		snap.Air = domain.DefaultAirQuality()
	}
	if snap.Traffic == (domain.TrafficData{}) {
		snap.Traffic = domain.DefaultTraffic()
	}
	if snap.Air.Category == "" {
		snap.Air.Category = domain.AQICategory(snap.Air.AQI)
	}
	snap.Timestamp = time.Now()

	s.air.Create(ctx, domain.AirQualityRecord{
		AQI:      snap.Air.AQI,
		PM25:     snap.Air.PM25,
		PM10:     snap.Air.PM10,
		O3:       snap.Air.O3,
		NO2:      snap.Air.NO2,
		Category: snap.Air.Category,
	})
	s.traffic.Create(ctx, domain.TrafficRecord{
		CongestionLevel: snap.Traffic.CongestionLevel,
		AverageSpeed:    snap.Traffic.AverageSpeed,
		Incidents:       snap.Traffic.Incidents,
	})
	s.weather.Create(ctx, domain.WeatherRecord{
		Temperature: snap.Weather.Temperature,
		Humidity:    snap.Weather.Humidity,
		Description: snap.Weather.Description,
		WindSpeed:   snap.Weather.WindSpeed,
	})

	s.log.Debug("snapshot recorded",
		zap.Float64("aqi", snap.Air.AQI),
		zap.Float64("congestion", snap.Traffic.CongestionLevel),
		zap.Float64("temperature", snap.Weather.Temperature))
	return snap
}

// CurrentSnapshot rebuilds the live snapshot from the newest record of
// each store, falling back to defaults for stores that are still empty.
func (s *IngestService) CurrentSnapshot(ctx context.Context) domain.CitySnapshot {
	snap := domain.CitySnapshot{
		Weather:   domain.DefaultWeather(),
		Air:       domain.DefaultAirQuality(),
		Traffic:   domain.DefaultTraffic(),
		Timestamp: time.Now(),
	}

	if recs := s.weather.ReadRecent(ctx, 1); len(recs) > 0 {
		r := recs[0]
		snap.Weather.Temperature = r.Temperature
		snap.Weather.Humidity = r.Humidity
		snap.Weather.Description = r.Description
		snap.Weather.WindSpeed = r.WindSpeed
	}
	if recs := s.air.ReadRecent(ctx, 1); len(recs) > 0 {
		r := recs[0]
		snap.Air = domain.AirQualityData{
			AQI: r.AQI, PM25: r.PM25, PM10: r.PM10, O3: r.O3, NO2: r.NO2,
			Category: r.Category,
		}
	}
	if recs := s.traffic.ReadRecent(ctx, 1); len(recs) > 0 {
		r := recs[0]
		snap.Traffic = domain.TrafficData{
			CongestionLevel: r.CongestionLevel,
			AverageSpeed:    r.AverageSpeed,
			Incidents:       r.Incidents,
		}
	}
	return snap
}

// SeedDemoData fills empty air and traffic stores with 24 synthetic
// readings shaped like a typical day, rush-hour peaks included. Used in
// demo deployments so trend queries have something to chew on.
func (s *IngestService) SeedDemoData(ctx context.Context) {
	if s.air.Count(ctx) == 0 {
		for i := 23; i >= 0; i-- {
			hour := 24 - i
			isPeak := (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19)

			rec := domain.AirQualityRecord{
				AQI:  40 + rand.Float64()*30,
				PM25: 10 + rand.Float64()*15,
				PM10: 20 + rand.Float64()*20,
				O3:   50 + rand.Float64()*30,
				NO2:  20 + rand.Float64()*20,
			}
			rec.Category = "Good"
			if isPeak {
				rec.AQI = 70 + rand.Float64()*40
				rec.PM25 = 25 + rand.Float64()*20
				rec.PM10 = 40 + rand.Float64()*30
				rec.Category = "Moderate"
			}
			s.air.Create(ctx, rec)
		}
		s.log.Info("seeded demo air quality data", zap.Int("records", 24))
	}

	if s.traffic.Count(ctx) == 0 {
		now := time.Now()
		for i := 23; i >= 0; i-- {
			hour := now.Add(-time.Duration(i) * time.Hour).Hour()
			isPeak := (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19)

			rec := domain.TrafficRecord{
				CongestionLevel: 20 + rand.Float64()*30,
				AverageSpeed:    45 + rand.Float64()*15,
				Incidents:       rand.Intn(2),
			}
			if isPeak {
				rec.CongestionLevel = 60 + rand.Float64()*30
				rec.AverageSpeed = 25 + rand.Float64()*15
				rec.Incidents = rand.Intn(5)
			}
			s.traffic.Create(ctx, rec)
		}
		s.log.Info("seeded demo traffic data", zap.Int("records", 24))
	}
}

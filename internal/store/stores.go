package store

import (
	"go.uber.org/zap"

	"github.com/smartcity/insight/internal/domain"
)

// Retention caps per store kind.
const (
	SensorCap = 500
	ChatCap   = 200
	QueryCap  = 100
)

// Bucket names. One namespace key per logical store.
const (
	airBucket     = "smartcity_air_quality"
	trafficBucket = "smartcity_traffic"
	weatherBucket = "smartcity_weather"
	chatBucket    = "smartcity_chat"
	queryBucket   = "smartcity_queries"
)

// Specialized stores.
type (
	AirStore     = Store[domain.AirQualityRecord, *domain.AirQualityRecord]
	TrafficStore = Store[domain.TrafficRecord, *domain.TrafficRecord]
	WeatherStore = Store[domain.WeatherRecord, *domain.WeatherRecord]
	ChatStore    = Store[domain.ChatMessage, *domain.ChatMessage]
	QueryStore   = Store[domain.UserQuery, *domain.UserQuery]
)

func NewAirStore(kv domain.BucketStorage, log *zap.Logger) *AirStore {
	return New[domain.AirQualityRecord](airBucket, SensorCap, kv, log)
}

func NewTrafficStore(kv domain.BucketStorage, log *zap.Logger) *TrafficStore {
	return New[domain.TrafficRecord](trafficBucket, SensorCap, kv, log)
}

func NewWeatherStore(kv domain.BucketStorage, log *zap.Logger) *WeatherStore {
	return New[domain.WeatherRecord](weatherBucket, SensorCap, kv, log)
}

func NewChatStore(kv domain.BucketStorage, log *zap.Logger) *ChatStore {
	return New[domain.ChatMessage](chatBucket, ChatCap, kv, log)
}

func NewQueryStore(kv domain.BucketStorage, log *zap.Logger) *QueryStore {
	return New[domain.UserQuery](queryBucket, QueryCap, kv, log)
}

package domain

import "time"

// Meta carries the identity fields shared by every stored record.
// The store assigns both fields at creation time; consumers never set them.
type Meta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordID returns the store-scoped unique id.
func (m Meta) RecordID() string { return m.ID }

// RecordTime returns the creation timestamp.
func (m Meta) RecordTime() time.Time { return m.Timestamp }

// SetMeta is called by the store when a record is created.
func (m *Meta) SetMeta(id string, ts time.Time) {
	m.ID = id
	m.Timestamp = ts
}

// Record is the read-side view of a stored record.
type Record interface {
	RecordID() string
	RecordTime() time.Time
}

// AirQualityRecord is one air quality reading.
type AirQualityRecord struct {
	Meta
	AQI      float64 `json:"aqi"`
	PM25     float64 `json:"pm25"`
	PM10     float64 `json:"pm10"`
	O3       float64 `json:"o3"`
	NO2      float64 `json:"no2"`
	Category string  `json:"category"`
}

// TrafficRecord is one traffic reading.
type TrafficRecord struct {
	Meta
	CongestionLevel float64 `json:"congestion_level"`
	AverageSpeed    float64 `json:"average_speed"`
	Incidents       int     `json:"incidents"`
	District        string  `json:"district,omitempty"`
}

// WeatherRecord is one weather reading.
type WeatherRecord struct {
	Meta
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Meta
	Role           string  `json:"role"`
	Content        string  `json:"content"`
	Intent         string  `json:"intent,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	Source         string  `json:"source,omitempty"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
}

// UserQuery is one answered user question, kept for analytics.
type UserQuery struct {
	Meta
	Query    string `json:"query"`
	Response string `json:"response"`
	Category string `json:"category"`
}

// StoreStats summarizes one store. Oldest and Newest are the first and
// last records by insertion order; both are nil for an empty store.
type StoreStats struct {
	Count  int        `json:"count"`
	Oldest *time.Time `json:"oldest"`
	Newest *time.Time `json:"newest"`
}

// Package analysis holds the pure rule engine: aggregation, insight
// generation, composite scores and prediction heuristics. Nothing here
// touches storage or the network, so every function is deterministic
// for a given input and safe to call from any goroutine.
package analysis

import (
	"sort"

	"github.com/smartcity/insight/internal/domain"
	"github.com/smartcity/insight/pkg/utils"
)

// HourlyPoint is the average of a field over one hour-of-day bucket.
type HourlyPoint struct {
	Hour  int     `json:"hour"`
	Value float64 `json:"value"`
}

// DailyPoint is the average of a field over one calendar date.
type DailyPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// HourlyAverages groups records by hour-of-day regardless of date and
// averages the selected field per bucket. Buckets with no contributing
// records are omitted; the result is sorted ascending by hour.
func HourlyAverages[T domain.Record](records []T, field func(T) float64) []HourlyPoint {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, rec := range records {
		hour := rec.RecordTime().Hour()
		sums[hour] += field(rec)
		counts[hour]++
	}

	out := make([]HourlyPoint, 0, len(sums))
	for hour, sum := range sums {
		out = append(out, HourlyPoint{
			Hour:  hour,
			Value: utils.RoundTo(sum/float64(counts[hour]), 2),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// DailyTrend groups records by calendar date and averages the selected
// field per date. Only the last 7 dates present are returned, sorted
// ascending by date.
func DailyTrend[T domain.Record](records []T, field func(T) float64) []DailyPoint {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		date := rec.RecordTime().Format("2006-01-02")
		sums[date] += field(rec)
		counts[date]++
	}

	out := make([]DailyPoint, 0, len(sums))
	for date, sum := range sums {
		out = append(out, DailyPoint{
			Date:  date,
			Value: utils.RoundTo(sum/float64(counts[date]), 2),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	if len(out) > 7 {
		out = out[len(out)-7:]
	}
	return out
}

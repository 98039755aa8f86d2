package domain

import (
	"encoding/json"
	"math"
	"slices"
	"time"
)

// Feed identifies one of the polled SWPC products.
type Feed string

const (
	FeedKp       Feed = "kp"
	FeedWind     Feed = "wind"
	FeedXray     Feed = "xray"
	FeedForecast Feed = "forecast"
)

// Feeds lists every polled feed in fetch order.
var Feeds = []Feed{FeedKp, FeedWind, FeedXray, FeedForecast}

// Metric names carried by samples.
const (
	MetricKp      = "kp"
	MetricDensity = "density"
	MetricSpeed   = "speed"
	MetricFlux    = "flux"
)

// Sample is one timestamped reading. Metric values are always finite.
type Sample struct {
	Time    time.Time          `json:"time"`
	Metrics map[string]float64 `json:"metrics"`
}

// Value returns the named metric and whether it is present.
func (s Sample) Value(name string) (float64, bool) {
	v, ok := s.Metrics[name]
	return v, ok
}

// newSample builds a sample, dropping non-finite values.
func newSample(t time.Time, metrics map[string]float64) Sample {
	for k, v := range metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(metrics, k)
		}
	}
	return Sample{Time: t, Metrics: metrics}
}

// Series is an ordered run of samples, ascending by time. The zero value is
// an empty series.
type Series struct {
	samples []Sample
}

// NewSeries wraps samples as a Series. Feeds are expected to arrive sorted;
// when they do not, the samples are stable-sorted so Latest stays correct.
func NewSeries(samples []Sample) Series {
	sorted := slices.IsSortedFunc(samples, func(a, b Sample) int {
		return a.Time.Compare(b.Time)
	})
	if !sorted {
		samples = slices.Clone(samples)
		slices.SortStableFunc(samples, func(a, b Sample) int {
			return a.Time.Compare(b.Time)
		})
	}
	return Series{samples: samples}
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.samples) }

// At returns the i-th sample.
func (s Series) At(i int) Sample { return s.samples[i] }

// Samples returns the underlying samples. Callers must not modify them.
func (s Series) Samples() []Sample { return s.samples }

// Latest returns the most recent sample.
func (s Series) Latest() (Sample, bool) {
	if len(s.samples) == 0 {
		return Sample{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// MarshalJSON encodes the series as a plain sample array.
func (s Series) MarshalJSON() ([]byte, error) {
	if s.samples == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.samples)
}

// ForecastSlotHours are the UTC start hours of the eight 3-hour forecast slots.
var ForecastSlotHours = [8]int{0, 3, 6, 9, 12, 15, 18, 21}

// ForecastDays is the number of calendar days kept in a ForecastGrid.
const ForecastDays = 3

// ForecastSlot is one 3-hour prediction. Valid is false when the feed had no
// prediction for the slot.
type ForecastSlot struct {
	Hour  int     `json:"hour"`
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// ForecastDay holds the slots for one UTC calendar day (YYYY-MM-DD).
type ForecastDay struct {
	Date  string          `json:"date"`
	Slots [8]ForecastSlot `json:"slots"`
}

// ForecastGrid holds up to ForecastDays days of predictions, ascending by date.
type ForecastGrid struct {
	Days []ForecastDay `json:"days"`
}

// Day returns the grid row for date.
func (g ForecastGrid) Day(date string) (ForecastDay, bool) {
	for _, d := range g.Days {
		if d.Date == date {
			return d, true
		}
	}
	return ForecastDay{}, false
}

func emptyForecastDay(date string) ForecastDay {
	day := ForecastDay{Date: date}
	for i, h := range ForecastSlotHours {
		day.Slots[i] = ForecastSlot{Hour: h}
	}
	return day
}

func forecastSlotIndex(hour int) (int, bool) {
	if hour < 0 || hour > 21 || hour%3 != 0 {
		return 0, false
	}
	return hour / 3, true
}

// FeedRecord is the last successfully parsed state of one feed. A new record
// replaces the previous one wholesale.
type FeedRecord struct {
	Feed      Feed         `json:"feed"`
	Raw       []byte       `json:"-"`
	Series    Series       `json:"series"`
	Forecast  ForecastGrid `json:"forecast"`
	UpdatedAt time.Time    `json:"updated_at"`
}

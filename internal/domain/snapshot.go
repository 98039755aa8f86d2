package domain

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// CycleStatus summarises the outcome of the latest ingestion cycle.
type CycleStatus string

const (
	StatusPending  CycleStatus = "pending"
	StatusOnline   CycleStatus = "online"
	StatusDegraded CycleStatus = "degraded"
)

// StatusFor returns online when at least one feed produced data.
func StatusFor(succeeded int) CycleStatus {
	if succeeded > 0 {
		return StatusOnline
	}
	return StatusDegraded
}

// Label returns the status line shown by dashboards.
func (s CycleStatus) Label() string {
	switch s {
	case StatusOnline:
		return "SYSTEM ONLINE"
	case StatusDegraded:
		return "CONNECTION LOST"
	default:
		return "RECEIVING TELEMETRY..."
	}
}

// NoDataMarker fills forecast cells without a prediction.
const NoDataMarker = "-"

// Point is one plotted sample with its display label.
type Point struct {
	Time   time.Time          `json:"time"`
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
}

// GeomagneticView is the render payload for the Kp channel.
type GeomagneticView struct {
	Value     float64   `json:"value"`
	Display   string    `json:"display"`
	Tier      Tier      `json:"tier"`
	Points    []Point   `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WindView is the render payload for solar wind plasma.
type WindView struct {
	Speed          float64   `json:"speed"`
	Density        float64   `json:"density"`
	SpeedDisplay   string    `json:"speed_display"`
	DensityDisplay string    `json:"density_display"`
	Points         []Point   `json:"points"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FlareView is the render payload for the X-ray flare channel.
type FlareView struct {
	Flux      float64   `json:"flux"`
	Display   string    `json:"display"`
	Class     string    `json:"class"`
	Tier      Tier      `json:"tier"`
	Points    []Point   `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RadioBlackoutView is the render payload for the HF radio blackout channel.
type RadioBlackoutView struct {
	Flux float64 `json:"flux"`
	Tier Tier    `json:"tier"`
}

// ForecastCell is one rendered forecast slot.
type ForecastCell struct {
	Hour  string  `json:"hour"`
	Value float64 `json:"value,omitempty"`
	Valid bool    `json:"valid"`
	Text  string  `json:"text"`
	Class string  `json:"class,omitempty"`
}

// ForecastDayView is one rendered forecast row.
type ForecastDayView struct {
	Date  string         `json:"date"`
	Label string         `json:"label"`
	Cells []ForecastCell `json:"cells"`
}

// ForecastView is the render payload for the Kp forecast grid.
type ForecastView struct {
	Days      []ForecastDayView `json:"days"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Snapshot is everything a render sink needs for one cycle. Channel views are
// nil until their feed has produced data at least once. Alerts holds only the
// episodes opened by the cycle that produced the snapshot; re-renders carry none.
type Snapshot struct {
	Status      CycleStatus            `json:"status"`
	StatusText  string                 `json:"status_text"`
	Timezone    string                 `json:"timezone"`
	UpdatedAt   time.Time              `json:"updated_at"`
	UpdatedTime string                 `json:"updated_time"`
	UpdatedDate string                 `json:"updated_date"`
	Geomagnetic *GeomagneticView       `json:"geomagnetic,omitempty"`
	Wind        *WindView              `json:"wind,omitempty"`
	Flare       *FlareView             `json:"flare,omitempty"`
	Radio       *RadioBlackoutView     `json:"radio_blackout,omitempty"`
	Forecast    *ForecastView          `json:"forecast,omitempty"`
	AlertStates map[Channel]AlertState `json:"alert_states"`
	Alerts      []AlertEvent           `json:"alerts"`
	Imagery     []ImageRef             `json:"imagery,omitempty"`
	Feeds       map[Feed]FeedStatus    `json:"feeds"`
}

// FeedStatus reports per-feed freshness.
type FeedStatus struct {
	OK        bool      `json:"ok"`
	Outcome   string    `json:"outcome"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Points renders a series as plot points labelled in loc.
func Points(s Series, loc *time.Location) []Point {
	out := make([]Point, 0, s.Len())
	for _, sample := range s.Samples() {
		out = append(out, Point{
			Time:   sample.Time,
			Label:  FormatClock(sample.Time, loc),
			Values: sample.Metrics,
		})
	}
	return out
}

// ForecastCells renders a forecast day, using NoDataMarker for empty slots.
func ForecastCells(day ForecastDay) []ForecastCell {
	cells := make([]ForecastCell, 0, len(day.Slots))
	for _, slot := range day.Slots {
		cell := ForecastCell{Hour: fmt.Sprintf("%02d", slot.Hour), Text: NoDataMarker}
		if slot.Valid {
			cell.Value = slot.Value
			cell.Valid = true
			cell.Text = strconv.FormatFloat(slot.Value, 'f', 1, 64)
			cell.Class = ClassifyForecastKp(slot.Value).Class
		}
		cells = append(cells, cell)
	}
	return cells
}

// FormatKp renders a Kp value with two decimals.
func FormatKp(kp float64) string { return strconv.FormatFloat(kp, 'f', 2, 64) }

// FormatSpeed renders a wind speed rounded to whole km/s.
func FormatSpeed(speed float64) string { return strconv.FormatFloat(math.Round(speed), 'f', 0, 64) }

// FormatDensity renders a proton density with one decimal.
func FormatDensity(density float64) string { return strconv.FormatFloat(density, 'f', 1, 64) }

// FormatFlux renders an X-ray flux in exponent form with the unit.
func FormatFlux(flux float64) string { return strconv.FormatFloat(flux, 'e', 2, 64) + " W/m²" }

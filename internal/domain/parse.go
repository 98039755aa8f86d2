package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Failure classes for a single feed. All of them are local to that feed and
// leave its previously parsed data in place.
var (
	ErrTransport = errors.New("transport failure")
	ErrDecode    = errors.New("decode failure")
	ErrNoData    = errors.New("no usable data")
)

const (
	xrayLongBand    = "0.1-0.8nm"
	forecastLabel   = "predicted"
	forecastLabelAt = 2
)

// ParseFeed dispatches payload to the parser for feed and wraps the result as
// a FeedRecord stamped with the current clock time.
func ParseFeed(feed Feed, payload []byte) (FeedRecord, error) {
	rec := FeedRecord{Feed: feed, Raw: payload, UpdatedAt: clock.Now()}

	var err error
	switch feed {
	case FeedKp:
		rec.Series, err = ParseKp(payload)
	case FeedWind:
		rec.Series, err = ParseWind(payload)
	case FeedXray:
		rec.Series, err = ParseXray(payload)
	case FeedForecast:
		rec.Forecast, err = ParseForecast(payload)
	default:
		err = fmt.Errorf("unknown feed %q", feed)
	}
	if err != nil {
		return FeedRecord{}, fmt.Errorf("parse %s feed: %w", feed, err)
	}
	return rec, nil
}

// ParseKp reads the planetary K index table. The header row is always
// skipped; rows with an unparseable time or Kp value are dropped.
func ParseKp(payload []byte) (Series, error) {
	rows, err := decodeRows(payload)
	if err != nil {
		return Series{}, err
	}

	samples := make([]Sample, 0, len(rows))
	for _, row := range skipHeader(rows) {
		if len(row) < 2 {
			continue
		}
		t, ok := timeCell(row[0])
		if !ok {
			continue
		}
		kp, ok := numberCell(row[1])
		if !ok {
			continue
		}
		samples = append(samples, newSample(t, map[string]float64{MetricKp: kp}))
	}

	if len(samples) == 0 {
		return Series{}, fmt.Errorf("kp index: %w", ErrNoData)
	}
	return NewSeries(samples), nil
}

// ParseWind reads the solar wind plasma table. A row is usable only when both
// density and speed are present.
func ParseWind(payload []byte) (Series, error) {
	rows, err := decodeRows(payload)
	if err != nil {
		return Series{}, err
	}

	samples := make([]Sample, 0, len(rows))
	for _, row := range skipHeader(rows) {
		if len(row) < 3 {
			continue
		}
		t, ok := timeCell(row[0])
		if !ok {
			continue
		}
		density, okD := numberCell(row[1])
		speed, okS := numberCell(row[2])
		if !okD || !okS {
			continue
		}
		samples = append(samples, newSample(t, map[string]float64{
			MetricDensity: density,
			MetricSpeed:   speed,
		}))
	}

	if len(samples) == 0 {
		return Series{}, fmt.Errorf("solar wind: %w", ErrNoData)
	}
	return NewSeries(samples), nil
}

// xrayRecord is one GOES X-ray flux reading.
type xrayRecord struct {
	TimeTag   string   `json:"time_tag"`
	Satellite int      `json:"satellite"`
	Flux      *float64 `json:"flux"`
	Energy    string   `json:"energy"`
}

// ParseXray reads GOES X-ray records, keeping only the 0.1-0.8nm channel with
// positive flux. Record order is preserved.
func ParseXray(payload []byte) (Series, error) {
	items, err := decodeArray(payload)
	if err != nil {
		return Series{}, err
	}

	samples := make([]Sample, 0, len(items)/2)
	for _, item := range items {
		var rec xrayRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		if !isLongBand(rec.Energy) || rec.Flux == nil || !(*rec.Flux > 0) {
			continue
		}
		t, ok := ParseTimestamp(rec.TimeTag)
		if !ok {
			continue
		}
		samples = append(samples, newSample(t, map[string]float64{MetricFlux: *rec.Flux}))
	}

	if len(samples) == 0 {
		return Series{}, fmt.Errorf("xray flux: %w", ErrNoData)
	}
	return NewSeries(samples), nil
}

// isLongBand reports whether an energy label names the 0.1-0.8nm channel.
// Whitespace and dash variants are tolerated.
func isLongBand(energy string) bool {
	energy = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t':
			return -1
		case '–', '—':
			return '-'
		}
		return r
	}, energy)
	return strings.EqualFold(energy, xrayLongBand)
}

// ParseForecast reads the 3-day Kp forecast table. Only rows labelled
// "predicted" contribute; they are grouped by UTC calendar day and reduced to
// the ForecastDays earliest days. The first prediction for a slot wins.
func ParseForecast(payload []byte) (ForecastGrid, error) {
	rows, err := decodeRows(payload)
	if err != nil {
		return ForecastGrid{}, err
	}

	days := make(map[string]*ForecastDay)
	for _, row := range rows {
		if len(row) <= forecastLabelAt {
			continue
		}
		label, ok := row[forecastLabelAt].(string)
		if !ok || strings.TrimSpace(label) != forecastLabel {
			continue
		}
		t, ok := timeCell(row[0])
		if !ok {
			continue
		}

		date := t.Format(isoDate)
		day, ok := days[date]
		if !ok {
			d := emptyForecastDay(date)
			day = &d
			days[date] = day
		}

		if t.Minute() != 0 || t.Second() != 0 {
			continue
		}
		idx, ok := forecastSlotIndex(t.Hour())
		if !ok || day.Slots[idx].Valid {
			continue
		}
		kp, ok := numberCell(row[1])
		if !ok {
			continue
		}
		day.Slots[idx].Value = kp
		day.Slots[idx].Valid = true
	}

	if len(days) == 0 {
		return ForecastGrid{}, fmt.Errorf("kp forecast: %w", ErrNoData)
	}

	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	if len(dates) > ForecastDays {
		dates = dates[:ForecastDays]
	}

	grid := ForecastGrid{Days: make([]ForecastDay, 0, len(dates))}
	for _, d := range dates {
		grid.Days = append(grid.Days, *days[d])
	}
	return grid, nil
}

// decodeArray splits a JSON array payload into its elements.
func decodeArray(payload []byte) ([]json.RawMessage, error) {
	if !json.Valid(payload) {
		return nil, fmt.Errorf("invalid json: %w", ErrDecode)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("expected array: %w", ErrNoData)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty payload: %w", ErrNoData)
	}
	return items, nil
}

// decodeRows decodes a row table. Elements that are not arrays are dropped.
func decodeRows(payload []byte) ([][]any, error) {
	items, err := decodeArray(payload)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		var row []any
		if err := json.Unmarshal(item, &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func skipHeader(rows [][]any) [][]any {
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}

func timeCell(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	return ParseTimestamp(s)
}

// numberCell reads a numeric cell that may be a JSON number or a numeric
// string. Null, empty, and non-finite cells report false.
func numberCell(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

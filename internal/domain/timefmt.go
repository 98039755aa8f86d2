package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// TimezoneLocal selects the zone of the running process.
	TimezoneLocal = "local"

	// InvalidTime is rendered in place of a timestamp that could not be parsed.
	InvalidTime = "Invalid Date"

	clockLayout = "3:04 PM"
	dateLayout  = "1/2/2006"
	dayLayout   = "Mon, Jan 2"
	isoDate     = "2006-01-02"
)

// ErrInvalidTimezone is returned when a display zone name cannot be loaded.
var ErrInvalidTimezone = errors.New("invalid timezone")

// ParseTimestamp converts a feed timestamp into an absolute instant.
// It accepts RFC 3339 strings with a zone designator as well as the
// space-separated "YYYY-MM-DD hh:mm:ss[.sss]" form used by the SWPC row feeds,
// which carries no zone and is read as UTC. Empty or unparseable input
// returns false.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}

	iso := strings.Replace(s, " ", "T", 1)
	if !strings.HasSuffix(iso, "Z") {
		iso += "Z"
	}
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// DisplayConfig selects the zone used when formatting instants for display.
// Parsers never read it.
type DisplayConfig struct {
	Timezone string `json:"timezone"`
}

// NewDisplayConfig validates tz and returns a DisplayConfig for it. An empty
// name means TimezoneLocal.
func NewDisplayConfig(tz string) (DisplayConfig, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = TimezoneLocal
	}
	d := DisplayConfig{Timezone: tz}
	if _, err := d.Location(); err != nil {
		return DisplayConfig{}, err
	}
	return d, nil
}

// Location resolves the configured zone. "local" maps to time.Local; any other
// value is treated as an IANA zone name.
func (d DisplayConfig) Location() (*time.Location, error) {
	if d.Timezone == "" || d.Timezone == TimezoneLocal {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTimezone, d.Timezone, err)
	}
	return loc, nil
}

// FormatClock renders t as a 12-hour clock time ("3:04 PM") in loc.
func FormatClock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return InvalidTime
	}
	return t.In(orUTC(loc)).Format(clockLayout)
}

// FormatDate renders t as month/day/year ("5/10/2024") in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return InvalidTime
	}
	return t.In(orUTC(loc)).Format(dateLayout)
}

// FormatTimestamp parses a raw feed timestamp and renders its clock time.
func FormatTimestamp(raw string, loc *time.Location) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return InvalidTime
	}
	return FormatClock(t, loc)
}

// FormatDay renders a calendar date (YYYY-MM-DD) as a short row header
// ("Fri, May 10"). The date is not shifted into any zone.
func FormatDay(date string) string {
	d, err := time.Parse(isoDate, date)
	if err != nil {
		return InvalidTime
	}
	return d.Format(dayLayout)
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

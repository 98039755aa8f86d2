package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{"space separated without zone", "2024-05-10 14:30:00", want, true},
		{"space separated with millis", "2024-05-10 14:30:00.000", want, true},
		{"iso with Z", "2024-05-10T14:30:00Z", want, true},
		{"iso without zone", "2024-05-10T14:30:00", want, true},
		{"iso with offset", "2024-05-10T16:30:00+02:00", want, true},
		{"surrounding whitespace", "  2024-05-10 14:30:00  ", want, true},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
		{"date only", "2024-05-10", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseTimestamp_ZonelessMatchesZulu(t *testing.T) {
	a, ok := ParseTimestamp("2024-05-10 00:00:00.000")
	require.True(t, ok)
	b, ok := ParseTimestamp("2024-05-10T00:00:00Z")
	require.True(t, ok)
	assert.True(t, a.Equal(b))
	assert.Equal(t, time.UTC, a.Location())
}

func TestNewDisplayConfig(t *testing.T) {
	t.Run("empty means local", func(t *testing.T) {
		d, err := NewDisplayConfig("")
		require.NoError(t, err)
		assert.Equal(t, TimezoneLocal, d.Timezone)
		loc, err := d.Location()
		require.NoError(t, err)
		assert.Equal(t, time.Local, loc)
	})

	t.Run("iana zone", func(t *testing.T) {
		d, err := NewDisplayConfig("America/Denver")
		require.NoError(t, err)
		loc, err := d.Location()
		require.NoError(t, err)
		assert.Equal(t, "America/Denver", loc.String())
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, err := NewDisplayConfig("Europe/Atlantis")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTimezone)
	})
}

func TestFormatClockAndDate(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	require.NoError(t, err)
	instant := time.Date(2024, 5, 10, 3, 5, 0, 0, time.UTC)

	tests := []struct {
		name      string
		loc       *time.Location
		wantClock string
		wantDate  string
	}{
		{"utc", time.UTC, "3:05 AM", "5/10/2024"},
		{"denver crosses midnight", denver, "9:05 PM", "5/9/2024"},
		{"nil location is utc", nil, "3:05 AM", "5/10/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantClock, FormatClock(instant, tt.loc))
			assert.Equal(t, tt.wantDate, FormatDate(instant, tt.loc))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2:30 PM", FormatTimestamp("2024-05-10 14:30:00", time.UTC))
	assert.Equal(t, InvalidTime, FormatTimestamp("", time.UTC))
	assert.Equal(t, InvalidTime, FormatClock(time.Time{}, time.UTC))
	assert.Equal(t, InvalidTime, FormatDate(time.Time{}, time.UTC))
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "Fri, May 10", FormatDay("2024-05-10"))
	assert.Equal(t, "Wed, Jan 1", FormatDay("2025-01-01"))
	assert.Equal(t, InvalidTime, FormatDay("10/05/2024"))
}

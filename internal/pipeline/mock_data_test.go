package pipeline_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/space-weather-monitor/internal/adapter/fixture"
	"github.com/couchcryptid/space-weather-monitor/internal/domain"
	"github.com/couchcryptid/space-weather-monitor/internal/pipeline"
)

func TestPipeline_WithMockFeedData(t *testing.T) {
	freezeClock(t)
	sink := &recordingSink{}
	p, _ := newTestPipeline(t, fixture.NewFetcher(filepath.Join("..", "..", "data", "mock")), "UTC", sink)

	res := p.RunCycle(context.Background())
	require.Equal(t, domain.StatusOnline, res.Status)
	for _, feed := range domain.Feeds {
		require.Equal(t, pipeline.OutcomeSuccess, res.Outcomes[feed], feed)
	}

	snap := sink.last()

	t.Run("geomagnetic", func(t *testing.T) {
		require.NotNil(t, snap.Geomagnetic)
		assert.Equal(t, "8.33", snap.Geomagnetic.Display)
		assert.Equal(t, domain.GeomagneticStorm, snap.Geomagnetic.Tier)
		assert.Len(t, snap.Geomagnetic.Points, 24)
	})

	t.Run("wind is sampled every fifth point", func(t *testing.T) {
		require.NotNil(t, snap.Wind)
		// 1440 rows, three with null density.
		assert.Len(t, snap.Wind.Points, 289)
		last := snap.Wind.Points[len(snap.Wind.Points)-1]
		assert.Equal(t, cycleTime, last.Time)
	})

	t.Run("xray is sampled every second point", func(t *testing.T) {
		require.NotNil(t, snap.Flare)
		assert.Len(t, snap.Flare.Points, 181)
		assert.Equal(t, "X2.1", snap.Flare.Class)
		assert.Equal(t, domain.FlareSevere, snap.Flare.Tier)
		assert.Equal(t, domain.RadioR3, snap.Radio.Tier)
	})

	t.Run("forecast keeps three days", func(t *testing.T) {
		require.NotNil(t, snap.Forecast)
		require.Len(t, snap.Forecast.Days, domain.ForecastDays)
		labels := make([]string, 0, len(snap.Forecast.Days))
		for _, d := range snap.Forecast.Days {
			labels = append(labels, d.Label)
			assert.Len(t, d.Cells, len(domain.ForecastSlotHours))
		}
		assert.Equal(t, []string{"Fri, May 10", "Sat, May 11", "Sun, May 12"}, labels)

		// Predictions start at 12:00 on the first day.
		first := snap.Forecast.Days[0].Cells
		for _, c := range first[:4] {
			assert.Equal(t, domain.NoDataMarker, c.Text)
		}
		assert.Equal(t, "7.7", first[4].Text)
		assert.Equal(t, "kp-high", first[4].Class)
	})

	t.Run("alerts", func(t *testing.T) {
		require.Len(t, res.Alerts, 1)
		assert.Equal(t, domain.ChannelFlare, res.Alerts[0].Channel)
		assert.Equal(t, domain.FlareSevere.Label, snap.StatusText)
	})
}

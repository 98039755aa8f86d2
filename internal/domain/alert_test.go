package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertMachine_OneEventPerEpisode(t *testing.T) {
	m := NewFlareAlertMachine()
	t0 := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	seq := []Tier{FlareNormal, FlareSevere, FlareSevere, FlareSevere, FlareNormal, FlareSevere}
	var fired []int
	for i, tier := range seq {
		ev, ok := m.Observe(tier, t0.Add(time.Duration(i)*time.Minute))
		if ok {
			fired = append(fired, i)
			assert.Equal(t, ChannelFlare, ev.Channel)
			assert.Equal(t, FlareSevere, ev.Tier)
			assert.Equal(t, "X-CLASS FLARE DETECTED", ev.Title)
			assert.Contains(t, ev.Message, "10^-4 W/m²")
			assert.Equal(t, t0.Add(time.Duration(i)*time.Minute), ev.At)
		}
	}

	assert.Equal(t, []int{1, 5}, fired)
	assert.True(t, m.State().EpisodeActive)
}

func TestAlertMachine_ModerateClearsEpisode(t *testing.T) {
	m := NewFlareAlertMachine()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	_, ok := m.Observe(FlareSevere, now)
	require.True(t, ok)

	_, ok = m.Observe(FlareModerate, now)
	assert.False(t, ok)
	assert.False(t, m.State().EpisodeActive)
	assert.Equal(t, FlareModerate, m.State().Current)

	_, ok = m.Observe(FlareSevere, now)
	assert.True(t, ok)
}

func TestAlertMachine_WithoutEpisodeTracksTierOnly(t *testing.T) {
	m := NewAlertMachine(ChannelGeomagnetic, GeomagneticNormal)
	assert.Equal(t, ChannelGeomagnetic, m.Channel())

	_, ok := m.Observe(GeomagneticStorm, time.Now())
	assert.False(t, ok)
	assert.Equal(t, AlertState{Current: GeomagneticStorm}, m.State())
}

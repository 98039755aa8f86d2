package pipeline

import (
	"github.com/couchcryptid/space-weather-monitor/internal/domain"
)

// render builds the snapshot from held state. Callers hold m.mu.
func (m *Monitor) render() domain.Snapshot {
	snap := domain.Snapshot{
		Status:      m.status,
		StatusText:  m.status.Label(),
		Timezone:    m.display.Timezone,
		UpdatedAt:   m.updatedAt,
		UpdatedTime: domain.FormatClock(m.updatedAt, m.loc),
		UpdatedDate: domain.FormatDate(m.updatedAt, m.loc),
		AlertStates: make(map[domain.Channel]domain.AlertState, len(m.machines)),
		Alerts:      []domain.AlertEvent{},
		Feeds:       make(map[domain.Feed]domain.FeedStatus, len(domain.Feeds)),
	}
	for ch, machine := range m.machines {
		snap.AlertStates[ch] = machine.State()
	}
	for _, feed := range domain.Feeds {
		rec, ok := m.feeds[feed]
		outcome, seen := m.outcomes[feed]
		if !seen {
			outcome = OutcomePending
		}
		snap.Feeds[feed] = domain.FeedStatus{
			OK:        outcome == OutcomeSuccess,
			Outcome:   string(outcome),
			UpdatedAt: rec.UpdatedAt,
		}
		if !ok {
			continue
		}
		switch feed {
		case domain.FeedKp:
			snap.Geomagnetic = m.renderGeomagnetic(rec)
		case domain.FeedWind:
			snap.Wind = m.renderWind(rec)
		case domain.FeedXray:
			snap.Flare, snap.Radio = m.renderXray(rec)
		case domain.FeedForecast:
			snap.Forecast = renderForecast(rec)
		}
	}

	// An active flare alert overrides the connection status line.
	if flare := m.machines[domain.ChannelFlare].State(); flare.Current.Level > domain.FlareNormal.Level && m.status == domain.StatusOnline {
		snap.StatusText = flare.Current.Label
	}
	if m.imagery && !m.updatedAt.IsZero() {
		snap.Imagery = domain.Imagery(m.updatedAt)
	}
	return snap
}

func (m *Monitor) renderGeomagnetic(rec domain.FeedRecord) *domain.GeomagneticView {
	latest, ok := rec.Series.Latest()
	if !ok {
		return nil
	}
	kp, _ := latest.Value(domain.MetricKp)
	return &domain.GeomagneticView{
		Value:     kp,
		Display:   domain.FormatKp(kp),
		Tier:      m.machines[domain.ChannelGeomagnetic].State().Current,
		Points:    domain.Points(domain.Downsample(rec.Series, domain.KpPlotBudget), m.loc),
		UpdatedAt: rec.UpdatedAt,
	}
}

func (m *Monitor) renderWind(rec domain.FeedRecord) *domain.WindView {
	latest, ok := rec.Series.Latest()
	if !ok {
		return nil
	}
	speed, _ := latest.Value(domain.MetricSpeed)
	density, _ := latest.Value(domain.MetricDensity)
	return &domain.WindView{
		Speed:          speed,
		Density:        density,
		SpeedDisplay:   domain.FormatSpeed(speed),
		DensityDisplay: domain.FormatDensity(density),
		Points:         domain.Points(domain.Downsample(rec.Series, domain.WindPlotBudget), m.loc),
		UpdatedAt:      rec.UpdatedAt,
	}
}

func (m *Monitor) renderXray(rec domain.FeedRecord) (*domain.FlareView, *domain.RadioBlackoutView) {
	latest, ok := rec.Series.Latest()
	if !ok {
		return nil, nil
	}
	flux, _ := latest.Value(domain.MetricFlux)
	flare := &domain.FlareView{
		Flux:      flux,
		Display:   domain.FormatFlux(flux),
		Class:     domain.FlareClass(flux),
		Tier:      m.machines[domain.ChannelFlare].State().Current,
		Points:    domain.Points(domain.Downsample(rec.Series, domain.XrayPlotBudget), m.loc),
		UpdatedAt: rec.UpdatedAt,
	}
	radio := &domain.RadioBlackoutView{
		Flux: flux,
		Tier: m.machines[domain.ChannelRadioBlackout].State().Current,
	}
	return flare, radio
}

func renderForecast(rec domain.FeedRecord) *domain.ForecastView {
	view := &domain.ForecastView{
		Days:      make([]domain.ForecastDayView, 0, len(rec.Forecast.Days)),
		UpdatedAt: rec.UpdatedAt,
	}
	for _, day := range rec.Forecast.Days {
		view.Days = append(view.Days, domain.ForecastDayView{
			Date:  day.Date,
			Label: domain.FormatDay(day.Date),
			Cells: domain.ForecastCells(day),
		})
	}
	return view
}

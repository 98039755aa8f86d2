package pipeline

import (
	"maps"
	"sync"
	"time"

	"github.com/couchcryptid/space-weather-monitor/internal/domain"
)

// Monitor is the process-wide state of the dashboard: the last good record per
// feed, the alert machines, and the display zone. It is created at startup and
// lives for the whole process. Feed records are replaced wholesale by Apply
// and never merged.
type Monitor struct {
	mu sync.Mutex

	display domain.DisplayConfig
	loc     *time.Location

	feeds    map[domain.Feed]domain.FeedRecord
	outcomes map[domain.Feed]Outcome
	machines map[domain.Channel]*domain.AlertMachine

	status    domain.CycleStatus
	updatedAt time.Time
	imagery   bool
}

// NewMonitor creates a Monitor with every channel at its normal tier.
func NewMonitor(display domain.DisplayConfig, imagery bool) (*Monitor, error) {
	loc, err := display.Location()
	if err != nil {
		return nil, err
	}
	return &Monitor{
		display:  display,
		loc:      loc,
		feeds:    make(map[domain.Feed]domain.FeedRecord),
		outcomes: make(map[domain.Feed]Outcome),
		machines: map[domain.Channel]*domain.AlertMachine{
			domain.ChannelGeomagnetic:   domain.NewAlertMachine(domain.ChannelGeomagnetic, domain.GeomagneticNormal),
			domain.ChannelFlare:         domain.NewFlareAlertMachine(),
			domain.ChannelRadioBlackout: domain.NewAlertMachine(domain.ChannelRadioBlackout, domain.RadioNormal),
		},
		status:  domain.StatusPending,
		imagery: imagery,
	}, nil
}

// Apply installs the results of one cycle. Only feeds present in records are
// replaced and only their channels are re-classified; feeds that failed keep
// their previous record and alert state. It returns the alert events opened
// by this cycle and the cycle status.
func (m *Monitor) Apply(records []domain.FeedRecord, outcomes map[domain.Feed]Outcome, now time.Time) ([]domain.AlertEvent, domain.CycleStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []domain.AlertEvent
	for _, rec := range records {
		m.feeds[rec.Feed] = rec

		latest, ok := rec.Series.Latest()
		if !ok {
			continue
		}
		switch rec.Feed {
		case domain.FeedKp:
			if kp, ok := latest.Value(domain.MetricKp); ok {
				events = m.observe(events, domain.ChannelGeomagnetic, domain.ClassifyGeomagnetic(kp), now)
			}
		case domain.FeedXray:
			if flux, ok := latest.Value(domain.MetricFlux); ok {
				events = m.observe(events, domain.ChannelFlare, domain.ClassifyFlare(flux), now)
				events = m.observe(events, domain.ChannelRadioBlackout, domain.ClassifyRadioBlackout(flux), now)
			}
		}
	}
	maps.Copy(m.outcomes, outcomes)

	m.status = domain.StatusFor(len(records))
	m.updatedAt = now
	return events, m.status
}

func (m *Monitor) observe(events []domain.AlertEvent, ch domain.Channel, tier domain.Tier, now time.Time) []domain.AlertEvent {
	if ev, ok := m.machines[ch].Observe(tier, now); ok {
		events = append(events, ev)
	}
	return events
}

// SetTimezone switches the display zone. The held data is not re-fetched;
// the returned snapshot is re-rendered in the new zone.
func (m *Monitor) SetTimezone(tz string) (domain.Snapshot, error) {
	display, err := domain.NewDisplayConfig(tz)
	if err != nil {
		return domain.Snapshot{}, err
	}
	loc, err := display.Location()
	if err != nil {
		return domain.Snapshot{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.display = display
	m.loc = loc
	return m.render(), nil
}

// Display returns the active display configuration.
func (m *Monitor) Display() domain.DisplayConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.display
}

// Feed returns the last good record for feed.
func (m *Monitor) Feed(feed domain.Feed) (domain.FeedRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.feeds[feed]
	return rec, ok
}

// AlertState returns the current state of a channel.
func (m *Monitor) AlertState(ch domain.Channel) (domain.AlertState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	machine, ok := m.machines[ch]
	if !ok {
		return domain.AlertState{}, false
	}
	return machine.State(), true
}

// Status returns the status of the last cycle.
func (m *Monitor) Status() domain.CycleStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Snapshot renders the current state for render sinks. Alert events are not
// held, so the result never carries any.
func (m *Monitor) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.render()
}

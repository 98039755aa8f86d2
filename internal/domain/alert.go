package domain

import "time"

// AlertState is the escalation state of one channel.
type AlertState struct {
	Current       Tier `json:"current"`
	EpisodeActive bool `json:"episode_active"`
}

// AlertEvent announces the start of an escalation episode.
type AlertEvent struct {
	Channel Channel   `json:"channel"`
	Tier    Tier      `json:"tier"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// AlertMachine tracks one channel's tier across cycles. When configured with
// an episode tier it emits exactly one AlertEvent per contiguous run of
// observations at or above that tier. There is no hysteresis: each
// observation decides the state on its own.
type AlertMachine struct {
	channel Channel
	state   AlertState

	episode *Tier
	title   string
	message string
}

// NewAlertMachine creates a machine in the initial tier with no episode.
func NewAlertMachine(channel Channel, initial Tier) *AlertMachine {
	return &AlertMachine{
		channel: channel,
		state:   AlertState{Current: initial},
	}
}

// WithEpisode enables one-shot notifications when the tier reaches at.
func (m *AlertMachine) WithEpisode(at Tier, title, message string) *AlertMachine {
	m.episode = &at
	m.title = title
	m.message = message
	return m
}

// NewFlareAlertMachine returns the flare channel machine, which opens an
// episode on X-class flux.
func NewFlareAlertMachine() *AlertMachine {
	return NewAlertMachine(ChannelFlare, FlareNormal).WithEpisode(
		FlareSevere,
		"X-CLASS FLARE DETECTED",
		"High-energy X-rays exceeding 10^-4 W/m². Extreme radio blackout risk.",
	)
}

// Channel returns the channel the machine tracks.
func (m *AlertMachine) Channel() Channel { return m.channel }

// State returns a copy of the current state.
func (m *AlertMachine) State() AlertState { return m.state }

// Observe applies one cycle's classification. It returns an event only when
// the observation opens a new episode. Callers skip Observe for cycles
// without data, which leaves the state untouched.
func (m *AlertMachine) Observe(tier Tier, at time.Time) (AlertEvent, bool) {
	m.state.Current = tier
	if m.episode == nil {
		return AlertEvent{}, false
	}

	if !tier.AtLeast(*m.episode) {
		m.state.EpisodeActive = false
		return AlertEvent{}, false
	}
	if m.state.EpisodeActive {
		return AlertEvent{}, false
	}

	m.state.EpisodeActive = true
	return AlertEvent{
		Channel: m.channel,
		Tier:    tier,
		Title:   m.title,
		Message: m.message,
		At:      at,
	}, true
}

package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/space-weather-monitor/internal/domain"
	"github.com/couchcryptid/space-weather-monitor/internal/observability"
)

// Fetcher retrieves the raw payload for one feed.
type Fetcher interface {
	Fetch(ctx context.Context, feed domain.Feed) ([]byte, error)
}

// Sink receives the rendered snapshot after every cycle.
type Sink interface {
	Name() string
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Outcome classifies how a feed fared in a cycle.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeSuccess   Outcome = "success"
	OutcomeTransport Outcome = "transport"
	OutcomeDecode    Outcome = "decode"
	OutcomeShape     Outcome = "shape"
)

// outcomeOf maps a fetch or parse error onto an Outcome.
func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrDecode):
		return OutcomeDecode
	case errors.Is(err, domain.ErrNoData):
		return OutcomeShape
	default:
		return OutcomeTransport
	}
}

// CycleResult summarises one ingestion cycle.
type CycleResult struct {
	Status   domain.CycleStatus
	Outcomes map[domain.Feed]Outcome
	Alerts   []domain.AlertEvent
	Duration time.Duration
}

// Pipeline runs ingestion cycles: fetch every feed, parse, classify, and
// publish the resulting snapshot to every sink.
type Pipeline struct {
	fetcher  Fetcher
	monitor  *Monitor
	sinks    []Sink
	logger   *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration
	ready    atomic.Bool

	// cycleMu serialises cycles so a slow cycle and a manual refresh never
	// interleave their Apply calls.
	cycleMu sync.Mutex
}

// New creates a Pipeline that refreshes every interval.
func New(f Fetcher, m *Monitor, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration, sinks ...Sink) *Pipeline {
	return &Pipeline{
		fetcher:  f,
		monitor:  m,
		sinks:    sinks,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
	}
}

// CheckReadiness returns nil once a cycle has produced data from at least one
// feed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no feed has produced data yet")
	}
	return nil
}

// Snapshot renders the monitor's current state.
func (p *Pipeline) Snapshot() domain.Snapshot {
	return p.monitor.Snapshot()
}

// SetTimezone switches the display zone and republishes the re-rendered
// snapshot without refetching.
func (p *Pipeline) SetTimezone(ctx context.Context, tz string) (domain.Snapshot, error) {
	snap, err := p.monitor.SetTimezone(tz)
	if err != nil {
		return domain.Snapshot{}, err
	}
	p.logger.Info("display timezone changed", "timezone", snap.Timezone)
	p.publish(ctx, snap)
	return snap, nil
}

// Run executes one cycle immediately and then one per interval until the
// context is cancelled. A cycle that overruns the interval delays the next
// tick; ticks are never queued.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("scheduler started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := domain.Clock().NewTicker(p.interval)
	defer ticker.Stop()

	p.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.RunCycle(ctx)
		}
	}
}

type fetchResult struct {
	record domain.FeedRecord
	err    error
}

// RunCycle fetches all feeds concurrently, waits for every one to finish, and
// applies the successful ones. A failed feed keeps its previous data.
func (p *Pipeline) RunCycle(ctx context.Context) CycleResult {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	start := domain.Clock().Now()

	results := make([]fetchResult, len(domain.Feeds))
	var wg sync.WaitGroup
	for i, feed := range domain.Feeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.ingest(ctx, feed)
		}()
	}
	wg.Wait()

	records := make([]domain.FeedRecord, 0, len(results))
	outcomes := make(map[domain.Feed]Outcome, len(results))
	for i, res := range results {
		feed := domain.Feeds[i]
		outcome := outcomeOf(res.err)
		outcomes[feed] = outcome
		p.metrics.Fetches.WithLabelValues(string(feed), string(outcome)).Inc()
		if res.err != nil {
			p.logger.Warn("feed update failed, keeping previous data",
				"feed", feed,
				"outcome", outcome,
				"error", res.err,
			)
			continue
		}
		p.metrics.FeedSamples.WithLabelValues(string(feed)).Set(float64(feedSize(res.record)))
		records = append(records, res.record)
	}

	now := domain.Clock().Now()
	events, status := p.monitor.Apply(records, outcomes, now)
	p.recordChannels(events)

	for _, ev := range events {
		p.logger.Warn("alert episode opened",
			"channel", ev.Channel,
			"tier", ev.Tier.Name,
			"title", ev.Title,
		)
	}
	if status == domain.StatusOnline {
		p.ready.Store(true)
	}

	// Episode starts go out with this cycle's snapshot only.
	snap := p.monitor.Snapshot()
	if len(events) > 0 {
		snap.Alerts = events
	}
	p.publish(ctx, snap)

	elapsed := domain.Clock().Since(start)
	p.metrics.Cycles.WithLabelValues(string(status)).Inc()
	p.metrics.CycleDuration.Observe(elapsed.Seconds())
	p.logger.Info("cycle complete",
		"status", status,
		"feeds_ok", len(records),
		"alerts", len(events),
		"duration", elapsed,
	)

	return CycleResult{
		Status:   status,
		Outcomes: outcomes,
		Alerts:   events,
		Duration: elapsed,
	}
}

func (p *Pipeline) ingest(ctx context.Context, feed domain.Feed) fetchResult {
	start := domain.Clock().Now()
	payload, err := p.fetcher.Fetch(ctx, feed)
	p.metrics.FetchDuration.WithLabelValues(string(feed)).Observe(domain.Clock().Since(start).Seconds())
	if err != nil {
		return fetchResult{err: err}
	}
	rec, err := domain.ParseFeed(feed, payload)
	return fetchResult{record: rec, err: err}
}

func (p *Pipeline) recordChannels(events []domain.AlertEvent) {
	for _, ch := range []domain.Channel{domain.ChannelGeomagnetic, domain.ChannelFlare, domain.ChannelRadioBlackout} {
		if st, ok := p.monitor.AlertState(ch); ok {
			p.metrics.ChannelTier.WithLabelValues(string(ch)).Set(float64(st.Current.Level))
		}
	}
	for _, ev := range events {
		p.metrics.AlertEpisodes.WithLabelValues(string(ev.Channel)).Inc()
	}
}

// publish hands snap to every sink. Sink failures are logged and counted but
// never fail the cycle.
func (p *Pipeline) publish(ctx context.Context, snap domain.Snapshot) {
	for _, s := range p.sinks {
		if err := s.Publish(ctx, snap); err != nil {
			p.logger.Error("publish snapshot failed", "sink", s.Name(), "error", err)
			p.metrics.SinkErrors.WithLabelValues(s.Name()).Inc()
		}
	}
}

func feedSize(rec domain.FeedRecord) int {
	if rec.Feed == domain.FeedForecast {
		return len(rec.Forecast.Days)
	}
	return rec.Series.Len()
}

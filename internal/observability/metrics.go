package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "space_weather"

// Metrics holds the Prometheus collectors for the ingestion pipeline.
type Metrics struct {
	PipelineRunning prometheus.Gauge

	// Per-feed fetch metrics.
	Fetches       *prometheus.CounterVec   // labels: feed, outcome={success,transport,decode,shape}
	FetchDuration *prometheus.HistogramVec // labels: feed
	FeedSamples   *prometheus.GaugeVec     // labels: feed

	// Cycle metrics.
	Cycles        *prometheus.CounterVec // labels: status={online,degraded}
	CycleDuration prometheus.Histogram

	// Classification and alerting.
	ChannelTier   *prometheus.GaugeVec   // labels: channel
	AlertEpisodes *prometheus.CounterVec // labels: channel

	SinkErrors *prometheus.CounterVec // labels: sink
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PipelineRunning,
		m.Fetches,
		m.FetchDuration,
		m.FeedSamples,
		m.Cycles,
		m.CycleDuration,
		m.ChannelTier,
		m.AlertEpisodes,
		m.SinkErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the scheduler is active, 0 when shut down.",
		}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Feed fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Feed fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		FeedSamples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_samples",
			Help:      "Samples (or forecast days) held for each feed after the last successful parse.",
		}, []string{"feed"}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Completed ingestion cycles by status.",
		}, []string{"status"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-parse-classify-publish cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ChannelTier: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channel_tier_level",
			Help:      "Current severity level per channel (0 = normal).",
		}, []string{"channel"}),
		AlertEpisodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_episodes_total",
			Help:      "Alert episodes opened per channel.",
		}, []string{"channel"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Snapshot publish failures per render sink.",
		}, []string{"sink"}),
	}
}

//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/space-weather-monitor/internal/adapter/fixture"
	"github.com/couchcryptid/space-weather-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/space-weather-monitor/internal/config"
	"github.com/couchcryptid/space-weather-monitor/internal/domain"
	"github.com/couchcryptid/space-weather-monitor/internal/observability"
	"github.com/couchcryptid/space-weather-monitor/internal/pipeline"
)

const testSnapshotTopic = "test-snapshots"

// publishedMessage holds a message read back from the snapshot topic.
type publishedMessage struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from snapshot topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return publishedMessage{Key: string(msg.Key), Value: msg.Value, Headers: headers}
}

func newConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSnapshotTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaWriter verifies that a snapshot and its alert events land on the
// topic with the expected keys and headers.
func TestKafkaWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSnapshotTopic: testSnapshotTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	at := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	snap := domain.Snapshot{
		Status:     domain.StatusOnline,
		StatusText: domain.FlareSevere.Label,
		UpdatedAt:  at,
		Alerts: []domain.AlertEvent{{
			Channel: domain.ChannelFlare,
			Tier:    domain.FlareSevere,
			Title:   "X-CLASS FLARE DETECTED",
			At:      at,
		}},
	}
	require.NoError(t, writer.Publish(ctx, snap))

	consumer := newConsumer(t, broker)

	first := readPublished(ctx, t, consumer)
	assert.Equal(t, "online", first.Key)
	assert.Equal(t, kafka.KindSnapshot, first.Headers["kind"])
	assert.Equal(t, "2024-05-10T12:00:00Z", first.Headers["updated_at"])

	second := readPublished(ctx, t, consumer)
	assert.Equal(t, "flare", second.Key)
	assert.Equal(t, kafka.KindAlert, second.Headers["kind"])
	assert.Equal(t, "SEVERE", second.Headers["tier"])

	var ev domain.AlertEvent
	require.NoError(t, json.Unmarshal(second.Value, &ev))
	assert.Equal(t, "X-CLASS FLARE DETECTED", ev.Title)
	assert.True(t, at.Equal(ev.At))
}

// TestPipelineEndToEnd runs one cycle over the captured payloads with the
// Kafka writer as the only sink and checks what reaches the topic.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSnapshotTopic: testSnapshotTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	display, err := domain.NewDisplayConfig("America/Denver")
	require.NoError(t, err)
	monitor, err := pipeline.NewMonitor(display, true)
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	fetcher := fixture.NewFetcher(filepath.Join("..", "..", "data", "mock"))
	p := pipeline.New(fetcher, monitor, discardLogger(), metrics, time.Minute, writer)

	res := p.RunCycle(ctx)
	require.Equal(t, domain.StatusOnline, res.Status)

	consumer := newConsumer(t, broker)

	msg := readPublished(ctx, t, consumer)
	require.Equal(t, kafka.KindSnapshot, msg.Headers["kind"])

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(msg.Value, &snap))
	assert.Equal(t, domain.StatusOnline, snap.Status)
	assert.Equal(t, "America/Denver", snap.Timezone)
	assert.Equal(t, "6:00 AM", snap.UpdatedTime)
	require.NotNil(t, snap.Flare)
	assert.Equal(t, "X2.1", snap.Flare.Class)
	require.NotNil(t, snap.Geomagnetic)
	assert.Equal(t, domain.GeomagneticStorm.Name, snap.Geomagnetic.Tier.Name)
	require.NotNil(t, snap.Forecast)
	assert.Len(t, snap.Forecast.Days, domain.ForecastDays)
	assert.Len(t, snap.Imagery, 3)

	alert := readPublished(ctx, t, consumer)
	assert.Equal(t, "flare", alert.Key)
	assert.Equal(t, kafka.KindAlert, alert.Headers["kind"])
}

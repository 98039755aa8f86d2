package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/space-weather-monitor/internal/config"
	"github.com/couchcryptid/space-weather-monitor/internal/domain"
)

// Message kinds carried in the "kind" header.
const (
	KindSnapshot = "snapshot"
	KindAlert    = "alert"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes snapshots and alert events to a Kafka topic.
// It implements pipeline.Sink.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Publish writes the snapshot followed by one message per alert event opened
// in the same cycle, in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	msgs := make([]kafkago.Message, 0, 1+len(snap.Alerts))

	msg, err := snapshotMessage(snap)
	if err != nil {
		return err
	}
	msgs = append(msgs, msg)

	for _, ev := range snap.Alerts {
		msg, err := alertMessage(ev)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(msgs), err)
	}
	w.logger.Debug("snapshot published", "status", snap.Status, "alerts", len(snap.Alerts))
	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// snapshotMessage marshals a Snapshot keyed by its cycle status.
func snapshotMessage(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.Status),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(KindSnapshot)},
			{Key: "updated_at", Value: []byte(snap.UpdatedAt.Format(time.RFC3339))},
		},
	}, nil
}

// alertMessage marshals an AlertEvent keyed by its channel.
func alertMessage(ev domain.AlertEvent) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.Channel),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(KindAlert)},
			{Key: "tier", Value: []byte(ev.Tier.Name)},
		},
	}, nil
}

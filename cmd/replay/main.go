// Command replay runs one ingestion cycle over captured feed payloads and
// prints the resulting snapshot as JSON. It drives the real pipeline with a
// frozen clock, so the output is reproducible and can be diffed against what
// the service renders.
//
// Usage:
//
//	go run ./cmd/replay \
//	  -dir data/mock \
//	  -tz America/Denver \
//	  -at 2024-05-10T12:00:00Z \
//	  -out snapshot.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/space-weather-monitor/internal/adapter/fixture"
	"github.com/couchcryptid/space-weather-monitor/internal/domain"
	"github.com/couchcryptid/space-weather-monitor/internal/observability"
	"github.com/couchcryptid/space-weather-monitor/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dir := flag.String("dir", "data/mock", "directory containing captured feed payloads")
	tz := flag.String("tz", "UTC", `display timezone (IANA name or "local")`)
	at := flag.String("at", "2024-05-10T12:00:00Z", "cycle time (RFC 3339)")
	out := flag.String("out", "", "output path for the snapshot JSON (default stdout)")
	imagery := flag.Bool("imagery", false, "include cache-busted imagery URLs")
	flag.Parse()

	cycleTime, err := time.Parse(time.RFC3339, *at)
	if err != nil {
		return fmt.Errorf("invalid -at: %w", err)
	}

	display, err := domain.NewDisplayConfig(*tz)
	if err != nil {
		return fmt.Errorf("invalid -tz: %w", err)
	}

	// Freeze the clock so UpdatedAt and imagery stamps are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(cycleTime))
	defer domain.SetClock(nil)

	monitor, err := pipeline.NewMonitor(display, *imagery)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	// Unregistered collectors: a one-shot replay exposes no /metrics.
	p := pipeline.New(fixture.NewFetcher(*dir), monitor, logger, observability.NewMetricsForTesting(), time.Minute)

	res := p.RunCycle(context.Background())
	for _, feed := range domain.Feeds {
		log.Printf("%s: %s", feed, res.Outcomes[feed])
	}
	log.Printf("status: %s, alerts: %d", res.Status, len(res.Alerts))

	data, err := json.MarshalIndent(p.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil { //nolint:gosec // output fixture, not a secret
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote snapshot: %s", *out)
	return nil
}

// Command validate checks SWPC feed payloads against the dashboard's parsing
// and rendering rules: every feed fetches, parses to a usable series, fits
// its plot budget, and classifies consistently. Payloads come from a fixture
// directory or, with -live, from the SWPC services.
//
// Usage:
//
//	go run ./cmd/validate -dir data/mock
//	go run ./cmd/validate -live -timeout 30s
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/space-weather-monitor/internal/adapter/fixture"
	"github.com/couchcryptid/space-weather-monitor/internal/adapter/swpc"
	"github.com/couchcryptid/space-weather-monitor/internal/config"
	"github.com/couchcryptid/space-weather-monitor/internal/domain"
	"github.com/couchcryptid/space-weather-monitor/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var plotBudgets = map[domain.Feed]int{
	domain.FeedKp:   domain.KpPlotBudget,
	domain.FeedWind: domain.WindPlotBudget,
	domain.FeedXray: domain.XrayPlotBudget,
}

func main() {
	dir := flag.String("dir", "data/mock", "directory containing captured feed payloads")
	live := flag.Bool("live", false, "fetch payloads from the SWPC services instead of -dir")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout for -live")
	flag.Parse()

	var fetcher pipeline.Fetcher = fixture.NewFetcher(*dir)
	source := *dir
	if *live {
		endpoints := map[domain.Feed]string{
			domain.FeedKp:       config.DefaultKpURL,
			domain.FeedWind:     config.DefaultWindURL,
			domain.FeedXray:     config.DefaultXrayURL,
			domain.FeedForecast: config.DefaultForecastURL,
		}
		fetcher = swpc.NewClient(endpoints, *timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
		source = "live SWPC services"
	}

	os.Exit(run(context.Background(), fetcher, source))
}

func run(ctx context.Context, fetcher pipeline.Fetcher, source string) int {
	fmt.Println("=== Space Weather Feed Validation ===")
	fmt.Printf("Source: %s\n\n", source)

	fetch := &phase{name: "Phase 1: Feed Availability"}
	payloads := make(map[domain.Feed][]byte, len(domain.Feeds))
	for _, feed := range domain.Feeds {
		data, err := fetcher.Fetch(ctx, feed)
		if err != nil {
			fetch.errorf("%s: %v", feed, err)
			continue
		}
		payloads[feed] = data
	}

	records := make(map[domain.Feed]domain.FeedRecord, len(payloads))
	phases := []*phase{
		fetch,
		validateParsing(payloads, records),
		validatePlotBudgets(records),
		validateForecastGrid(records),
		validateClassification(records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	for _, feed := range domain.Feeds {
		rec, ok := records[feed]
		if !ok {
			fmt.Printf("  %-9s unavailable\n", feed)
			continue
		}
		if feed == domain.FeedForecast {
			fmt.Printf("  %-9s %d days\n", feed, len(rec.Forecast.Days))
			continue
		}
		latest, _ := rec.Series.Latest()
		fmt.Printf("  %-9s %d samples, latest %s\n", feed, rec.Series.Len(), latest.Time.Format(time.RFC3339))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 2: Parsing ──
// Every fetched payload parses, and series are ascending with finite values.

func validateParsing(payloads map[domain.Feed][]byte, records map[domain.Feed]domain.FeedRecord) *phase {
	p := &phase{name: "Phase 2: Parse Integrity"}

	for _, feed := range domain.Feeds {
		data, ok := payloads[feed]
		if !ok {
			continue
		}
		rec, err := domain.ParseFeed(feed, data)
		if err != nil {
			p.errorf("%s: %v", feed, err)
			continue
		}
		records[feed] = rec
		if feed == domain.FeedForecast {
			continue
		}
		checkSeries(p, feed, rec.Series)
	}
	return p
}

func checkSeries(p *phase, feed domain.Feed, s domain.Series) {
	var prev time.Time
	for i, sample := range s.Samples() {
		if i > 0 && sample.Time.Before(prev) {
			p.errorf("%s sample %d: time %s before previous %s", feed, i, sample.Time, prev)
		}
		prev = sample.Time
		for name, v := range sample.Metrics {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				p.errorf("%s sample %d: %s is not finite", feed, i, name)
			}
		}
	}
}

// ── Phase 3: Plot Budgets ──
// Downsampled series stay within budget and keep the latest sample.

func validatePlotBudgets(records map[domain.Feed]domain.FeedRecord) *phase {
	p := &phase{name: "Phase 3: Plot Budgets"}

	for feed, budget := range plotBudgets {
		rec, ok := records[feed]
		if !ok {
			continue
		}
		out := domain.Downsample(rec.Series, budget)
		if budget > 0 && out.Len() > budget {
			p.errorf("%s: %d points exceeds budget %d", feed, out.Len(), budget)
		}
		want, _ := rec.Series.Latest()
		got, ok := out.Latest()
		if !ok || !got.Time.Equal(want.Time) {
			p.errorf("%s: latest sample dropped by downsampling", feed)
		}
	}
	return p
}

// ── Phase 4: Forecast Grid ──

func validateForecastGrid(records map[domain.Feed]domain.FeedRecord) *phase {
	p := &phase{name: "Phase 4: Forecast Grid"}

	rec, ok := records[domain.FeedForecast]
	if !ok {
		return p
	}
	days := rec.Forecast.Days
	if len(days) > domain.ForecastDays {
		p.errorf("forecast has %d days, max %d", len(days), domain.ForecastDays)
	}
	for i, day := range days {
		if i > 0 && day.Date <= days[i-1].Date {
			p.errorf("forecast day %s not after %s", day.Date, days[i-1].Date)
		}
		if domain.FormatDay(day.Date) == domain.InvalidTime {
			p.errorf("forecast day %q is not a date", day.Date)
		}
		for j, slot := range day.Slots {
			if slot.Hour != domain.ForecastSlotHours[j] {
				p.errorf("forecast %s slot %d: hour %d, want %d", day.Date, j, slot.Hour, domain.ForecastSlotHours[j])
			}
		}
	}
	return p
}

// ── Phase 5: Classification ──
// Flare and radio blackout tiers derive from the same flux and must agree.

func validateClassification(records map[domain.Feed]domain.FeedRecord) *phase {
	p := &phase{name: "Phase 5: Classification Consistency"}

	if rec, ok := records[domain.FeedKp]; ok {
		latest, _ := rec.Series.Latest()
		kp, _ := latest.Value(domain.MetricKp)
		if kp < 0 || kp > 9 {
			p.errorf("kp %.2f outside 0-9", kp)
		}
		fmt.Printf("  geomagnetic: Kp %s -> %s\n", domain.FormatKp(kp), domain.ClassifyGeomagnetic(kp).Label)
	}

	if rec, ok := records[domain.FeedXray]; ok {
		latest, _ := rec.Series.Latest()
		flux, _ := latest.Value(domain.MetricFlux)
		flare := domain.ClassifyFlare(flux)
		radio := domain.ClassifyRadioBlackout(flux)
		if flare.AtLeast(domain.FlareSevere) != radio.AtLeast(domain.RadioR3) {
			p.errorf("flux %s: flare %s disagrees with radio %s", domain.FormatFlux(flux), flare.Name, radio.Name)
		}
		fmt.Printf("  flare: %s (%s) -> %s / %s\n", domain.FormatFlux(flux), domain.FlareClass(flux), flare.Name, radio.Label)
	}
	return p
}

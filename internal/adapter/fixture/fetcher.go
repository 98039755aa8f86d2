// Package fixture serves captured SWPC payloads from a directory so a cycle
// can be replayed offline.
package fixture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/space-weather-monitor/internal/domain"
)

// Files maps each feed to the file name SWPC publishes it under.
var Files = map[domain.Feed]string{
	domain.FeedKp:       "noaa-planetary-k-index.json",
	domain.FeedWind:     "plasma-1-day.json",
	domain.FeedXray:     "xrays-6-hour.json",
	domain.FeedForecast: "noaa-planetary-k-index-forecast.json",
}

// Fetcher reads feed payloads from Dir. It implements pipeline.Fetcher.
// A missing file is reported as a transport failure.
type Fetcher struct {
	Dir string
}

// NewFetcher creates a Fetcher rooted at dir.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{Dir: dir}
}

// Fetch returns the captured payload for feed.
func (f *Fetcher) Fetch(ctx context.Context, feed domain.Feed) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", feed, domain.ErrTransport, err)
	}
	name, ok := Files[feed]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s feed: %w", feed, domain.ErrTransport)
	}
	data, err := os.ReadFile(filepath.Join(f.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("read %s fixture: %w: %w", feed, domain.ErrTransport, err)
	}
	return data, nil
}

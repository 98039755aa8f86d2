package swpc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/space-weather-monitor/internal/domain"
)

// maxPayloadBytes caps a single feed download. The largest SWPC product used
// here (1-day plasma) is well under 1 MiB.
const maxPayloadBytes = 16 << 20

// Client fetches raw SWPC feed payloads over HTTP.
// It implements pipeline.Fetcher.
type Client struct {
	endpoints  map[domain.Feed]string
	httpClient *http.Client
	cache      *validatorCache
	maxBytes   int64
	logger     *slog.Logger
}

// NewClient creates a feed client. The timeout bounds each request at the
// transport level; there is no retry.
func NewClient(endpoints map[domain.Feed]string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    newValidatorCache(),
		maxBytes: maxPayloadBytes,
		logger:   logger,
	}
}

// Fetch downloads the payload for feed. Failed requests and non-success
// statuses are wrapped with domain.ErrTransport. A 304 reply reuses the body
// from the previous successful fetch.
func (c *Client) Fetch(ctx context.Context, feed domain.Feed) ([]byte, error) {
	u, ok := c.endpoints[feed]
	if !ok || u == "" {
		return nil, fmt.Errorf("no endpoint for %s feed: %w", feed, domain.ErrTransport)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	cached, hasCached := c.cache.get(u)
	if hasCached {
		cached.apply(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w: %w", feed, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		if !hasCached {
			return nil, fmt.Errorf("%s: not modified without cached body: %w", feed, domain.ErrTransport)
		}
		c.logger.Debug("feed not modified", "feed", feed)
		return cached.body, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: status %d: %s: %w", feed, resp.StatusCode, body, domain.ErrTransport)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w: %w", feed, domain.ErrTransport, err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%s: body exceeds %d bytes: %w", feed, c.maxBytes, domain.ErrTransport)
	}

	c.cache.put(u, cachedResponse{
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		body:         body,
	})
	return body, nil
}

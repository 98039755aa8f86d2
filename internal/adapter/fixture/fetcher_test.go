package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/space-weather-monitor/internal/domain"
)

func TestFetcher_ReadsCapturedPayloads(t *testing.T) {
	f := NewFetcher(filepath.Join("..", "..", "..", "data", "mock"))

	for _, feed := range domain.Feeds {
		data, err := f.Fetch(context.Background(), feed)
		require.NoError(t, err, feed)
		assert.NotEmpty(t, data, feed)
	}
}

func TestFetcher_MissingFileIsTransportFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Files[domain.FeedKp]), []byte(`[]`), 0o600))
	f := NewFetcher(dir)

	data, err := f.Fetch(context.Background(), domain.FeedKp)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)

	_, err = f.Fetch(context.Background(), domain.FeedWind)
	assert.ErrorIs(t, err, domain.ErrTransport)

	_, err = f.Fetch(context.Background(), domain.Feed("aurora"))
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(t.TempDir()).Fetch(ctx, domain.FeedKp)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

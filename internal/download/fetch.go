package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// fetchTimeout bounds a single binary fetch. Audio files are a few
// megabytes; anything slower than this is treated as a failure.
const fetchTimeout = 60 * time.Second

// Fetcher retrieves binary resources (audio, thumbnails) over plain
// HTTP GET. It is stateless and safe for concurrent use.
type Fetcher struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewFetcher creates a binary fetcher.
func NewFetcher(logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch downloads the resource at url. A non-200 response is a fetch
// failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	f.logger.Debug().Str("url", url).Int("bytes", len(data)).Msg("Fetched binary")
	return data, nil
}

// Package saavn provides a client for the unofficial JioSaavn JSON API.
//
// The API exposes search, lookup, and suggestion endpoints for songs,
// albums, playlists, and artists. Every response is wrapped in a
// `{"success": bool, "data": ...}` envelope; the client collapses
// transport failures, non-200 responses, and success=false envelopes
// into a single ErrUnavailable outcome, so callers only ever have to
// distinguish "got data" from "no data".
//
// Example usage:
//
//	import "github.com/groovia/groovia/pkg/saavn"
//
//	client := saavn.NewClient(saavn.Config{})
//
//	page, err := client.SearchSongs(ctx, "imagine", 0, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
package saavn

import (
	"net/http"
	"time"
)

// Config holds client configuration.
type Config struct {
	BaseURL    string       // Optional: API base URL (defaults to DefaultBaseURL, used for testing)
	HTTPClient *http.Client // Optional: HTTP client (defaults to a client with a 30s timeout)
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

const (
	// DefaultBaseURL is the default JioSaavn API endpoint.
	DefaultBaseURL = "https://jiosavan-sigma.vercel.app/api"

	// defaultTimeout bounds every catalog request. The client performs
	// no retries; each call is independently retryable by the caller.
	defaultTimeout = 30 * time.Second
)

// Client is the main entry point for JioSaavn API operations.
//
// The client is stateless and safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// NewClient creates a new JioSaavn API client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

package saavn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// envelope is the uniform response wrapper carried by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// get performs a GET against the API and returns the raw data payload.
//
// It handles:
// - URL construction with query parameters
// - Envelope decoding
// - Collapsing every failure mode into ErrUnavailable
// - Context cancellation
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "groovia/1.0")

	c.logDebugf("saavn: GET %s", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logDebugf("saavn: request failed: %v", err)
		return nil, fmt.Errorf("%s: %w", endpoint, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logDebugf("saavn: unexpected status %d for %s", resp.StatusCode, endpoint)
		return nil, fmt.Errorf("%s: status %d: %w", endpoint, resp.StatusCode, ErrUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrUnavailable)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logDebugf("saavn: undecodable response for %s: %v", endpoint, err)
		return nil, fmt.Errorf("%s: %w", endpoint, ErrUnavailable)
	}
	if !env.Success {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrUnavailable)
	}

	return env.Data, nil
}

// decode unmarshals a data payload into out, collapsing decode
// failures into ErrUnavailable like any other malformed response.
func decode(endpoint string, data json.RawMessage, out interface{}) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", endpoint, ErrUnavailable)
	}
	return nil
}

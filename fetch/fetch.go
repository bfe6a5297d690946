// Package fetch retrieves text from a third-party HTTP endpoint.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultURL is the endpoint used when none is configured.
const DefaultURL = "https://api.example.com/data"

// maxBody is the largest response body accepted, in bytes.
const maxBody = 2 << 20

// ErrTooLarge is returned when the response body exceeds the size limit.
// The body is never returned partially.
var ErrTooLarge = errors.New("response too large")

// Client holds the context for requests to the data endpoint.
type Client struct {
	// HTTP is the HTTP client for performing requests.
	// If nil, http.DefaultClient is used.
	HTTP *http.Client
	// URL is the endpoint to fetch.
	URL string
}

// Fetch performs a single GET request and returns the response body as text.
// There are no retries. Any transport failure or non-2xx status is an error.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", fmt.Errorf("couldn't make request: %w", err)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("couldn't GET: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return "", fmt.Errorf("couldn't read response: %w", err)
	}
	if len(b) > maxBody {
		return "", ErrTooLarge
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("request failed: %s", resp.Status)
	}
	return string(b), nil
}

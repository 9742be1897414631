// Package narrative is a thin client for the external service that turns a
// day's numeric arrays into a natural-language weather description. The
// aggregation core never depends on it; it is a downstream consumer of the
// core's per-day arrays.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// ErrDisabled is returned when no summarizer endpoint is configured.
var ErrDisabled = errors.New("narrative summarizer not configured")

// Client calls the summarizer over HTTP with retries and a circuit breaker,
// so a flaky summarizer cannot pile up latency on the dashboard.
type Client struct {
	endpoint string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

// NewClient creates a summarizer client. An empty endpoint yields a disabled
// client whose Summarize always returns ErrDisabled.
func NewClient(client *http.Client, endpoint string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "narrative-summarizer",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		endpoint: endpoint,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

type summarizeRequest struct {
	Date         string    `json:"date"`
	Temperatures []float64 `json:"temperatures"`
	Humidities   []float64 `json:"humidities"`
	Pressures    []float64 `json:"pressures"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize sends one day's metric arrays and returns the generated text.
func (c *Client) Summarize(ctx context.Context, date string, temperatures, humidities, pressures []float64) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	payload, err := json.Marshal(summarizeRequest{
		Date:         date,
		Temperatures: temperatures,
		Humidities:   humidities,
		Pressures:    pressures,
	})
	if err != nil {
		return "", fmt.Errorf("encoding summarize request: %w", err)
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return "", fmt.Errorf("calling summarizer: %w", err)
	}
	defer resp.Body.Close()

	var out summarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding summarizer response: %w", err)
	}

	return out.Summary, nil
}

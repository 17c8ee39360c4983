// Package client talks to the remote services the board depends on:
// Open-Meteo for geocoding and forecasts, Aviationstack for flight status
// and Google My Maps for KML exports.
//
// All clients share a Fetcher, which rate-limits per provider and retries
// transient failures with fixed back-off delays.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkordes/tripboard/internal/ratelimit"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// ProviderError wraps any failure talking to a remote provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimiter *ratelimit.ProviderLimiter
	UserAgent   string
}

// DefaultFetchConfig retries twice, after 200ms and 500ms.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		Timeout:     10 * time.Second,
		MaxRetries:  2,
		RetryDelays: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond},
		RateLimiter: ratelimit.NewProviderLimiter(ratelimit.DefaultConfig()),
		UserAgent:   "tripboard/1.0",
	}
}

// Fetcher performs GET requests on behalf of the provider clients.
type Fetcher struct {
	http   *http.Client
	config FetchConfig
	logger *slog.Logger
}

// NewFetcher returns a Fetcher. httpClient may be nil.
func NewFetcher(httpClient *http.Client, config FetchConfig, logger *slog.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{http: httpClient, config: config, logger: logger}
}

// GetJSON fetches url and decodes the JSON body into out.
func (f *Fetcher) GetJSON(ctx context.Context, provider, url string, out any) error {
	body, err := f.Get(ctx, provider, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Provider: provider, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Get fetches url and returns the body. Network errors, 429 and 5xx
// responses are retried; other failures are returned immediately.
func (f *Fetcher) Get(ctx context.Context, provider, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := f.sleep(ctx, attempt); err != nil {
				return nil, &ProviderError{Provider: provider, Err: err}
			}
		}
		if f.config.RateLimiter != nil {
			if err := f.config.RateLimiter.Wait(ctx, provider); err != nil {
				return nil, &ProviderError{Provider: provider, Err: err}
			}
		}

		body, err := f.do(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
		f.logger.WarnContext(ctx, "provider request failed", "provider", provider, "attempt", attempt+1, "error", err)
	}
	return nil, &ProviderError{Provider: provider, Err: lastErr}
}

func (f *Fetcher) do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return body, nil
}

func (f *Fetcher) sleep(ctx context.Context, attempt int) error {
	if len(f.config.RetryDelays) == 0 {
		return nil
	}
	i := min(attempt-1, len(f.config.RetryDelays)-1)
	select {
	case <-time.After(f.config.RetryDelays[i]):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

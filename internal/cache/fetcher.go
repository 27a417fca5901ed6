package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const maxPayloadBytes = 8 << 20

var (
	// ErrUpstream matches every failure to obtain a payload from the provider.
	ErrUpstream = errors.New("upstream request failed")
	// ErrRateLimited is returned when the provider kept answering 429.
	ErrRateLimited = fmt.Errorf("rate limit exceeded: %w", ErrUpstream)
)

// StatusError is a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUpstream
}

// Config is the cache and retry policy of a Fetcher.
type Config struct {
	TTL        time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultConfig() Config {
	return Config{
		TTL:        time.Hour,
		MaxRetries: 3,
		BaseDelay:  time.Second,
	}
}

// Fetcher performs GET requests for JSON payloads, keeping successful
// responses in a Store for Config.TTL. Failed attempts are retried with a
// doubling delay. Concurrent misses on one key each fetch; the last
// successful write wins.
type Fetcher struct {
	store   Store
	client  *http.Client
	config  Config
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
	metrics *Metrics
}

type Option func(*Fetcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithSleep replaces the wait between retries.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) { f.sleep = sleep }
}

func WithMetrics(m *Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

func NewFetcher(store Store, client *http.Client, config Config, opts ...Option) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	f := &Fetcher{
		store:  store,
		client: client,
		config: config,
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the payload cached under key while it is fresh, without
// looking at url. Otherwise it requests url and caches the result.
func (f *Fetcher) Fetch(ctx context.Context, key, url string) (json.RawMessage, error) {
	entry, ok, err := f.store.Get(ctx, key)
	if err != nil {
		log.Printf("Cache lookup for %s failed, fetching instead: %v", key, err)
	}
	if ok && entry.IsFresh(f.now(), f.config.TTL) {
		log.Printf("Using cached data for: %s", key)
		f.metrics.hit()
		return entry.Payload, nil
	}

	f.metrics.miss()
	log.Printf("Requesting provider data for: %s", key)

	payload, err := f.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := f.store.Set(ctx, key, Entry{Payload: payload, FetchedAt: f.now()}); err != nil {
		log.Printf("Failed to cache %s: %v", key, err)
	}
	return payload, nil
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, url string) (json.RawMessage, error) {
	delay := f.config.BaseDelay

	for attempt := 0; ; attempt++ {
		payload, err := f.get(ctx, url)
		if err == nil {
			return payload, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			// 404 is final
			return nil, err
		}

		if attempt >= f.config.MaxRetries {
			if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
				return nil, fmt.Errorf("%w: %s", ErrRateLimited, statusErr.Body)
			}
			return nil, err
		}

		log.Printf("Request failed (%v). Retrying in %s...", err, delay)
		f.metrics.retry()
		if err := f.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
	}
}

func (f *Fetcher) get(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.metrics.request(0, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	f.metrics.request(resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("HTTP error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrUpstream)
	}
	return json.RawMessage(body), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

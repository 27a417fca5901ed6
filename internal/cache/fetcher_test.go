package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedSleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedSleeps) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recordedSleeps) Delays() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

// scriptedServer answers with the given statuses in order, then 200 forever.
func scriptedServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		if n <= len(statuses) && statuses[n-1] != http.StatusOK {
			w.WriteHeader(statuses[n-1])
			w.Write([]byte("slow down"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newTestFetcher(store Store, clock *fakeClock, sleeps *recordedSleeps, opts ...Option) *Fetcher {
	opts = append([]Option{WithClock(clock.Now), WithSleep(sleeps.Sleep)}, opts...)
	return NewFetcher(store, nil, DefaultConfig(), opts...)
}

func TestFetch_FreshEntrySkipsNetwork(t *testing.T) {
	server, calls := scriptedServer(t)
	clock := &fakeClock{now: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)}
	fetcher := newTestFetcher(NewMemoryStore(), clock, &recordedSleeps{})

	first, err := fetcher.Fetch(context.Background(), "now_playing", server.URL+"/movie/now_playing")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	second, err := fetcher.Fetch(context.Background(), "now_playing", "http://unreachable.invalid/other")
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetch_StaleEntryRefetchesOnce(t *testing.T) {
	server, calls := scriptedServer(t)
	clock := &fakeClock{now: time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	fetcher := newTestFetcher(store, clock, &recordedSleeps{})

	_, err := fetcher.Fetch(context.Background(), "popular", server.URL)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	_, err = fetcher.Fetch(context.Background(), "popular", server.URL)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	entry, ok, err := store.Get(context.Background(), "popular")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, clock.Now(), entry.FetchedAt)
}

func TestFetch_RateLimitedBacksOffThenFails(t *testing.T) {
	server, calls := scriptedServer(t,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
		http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests)
	sleeps := &recordedSleeps{}
	store := NewMemoryStore()
	fetcher := newTestFetcher(store, &fakeClock{now: time.Now()}, sleeps)

	_, err := fetcher.Fetch(context.Background(), "upcoming", server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeps.Delays())
	assert.Equal(t, int32(4), atomic.LoadInt32(calls))
	assert.Equal(t, 0, store.Len(), "failures must not be cached")
}

func TestFetch_RecoversAfterRateLimit(t *testing.T) {
	server, calls := scriptedServer(t, http.StatusTooManyRequests, http.StatusTooManyRequests)
	sleeps := &recordedSleeps{}
	fetcher := newTestFetcher(NewMemoryStore(), &fakeClock{now: time.Now()}, sleeps)

	payload, err := fetcher.Fetch(context.Background(), "detail_7", server.URL)

	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1,"results":[]}`, string(payload))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeps.Delays())
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestFetch_ServerErrorReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	sleeps := &recordedSleeps{}
	fetcher := newTestFetcher(NewMemoryStore(), &fakeClock{now: time.Now()}, sleeps)

	_, err := fetcher.Fetch(context.Background(), "search_x", server.URL)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "boom", statusErr.Body)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.Len(t, sleeps.Delays(), 3)
}

func TestFetch_NotFoundIsNotRetried(t *testing.T) {
	server, calls := scriptedServer(t, http.StatusNotFound, http.StatusNotFound)
	store := NewMemoryStore()
	sleeps := &recordedSleeps{}
	fetcher := newTestFetcher(store, &fakeClock{now: time.Now()}, sleeps)

	_, err := fetcher.Fetch(context.Background(), "detail_404", server.URL)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.Empty(t, sleeps.Delays())
	assert.Equal(t, 0, store.Len())
}

func TestFetch_InvalidJSONIsRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte("<html>maintenance</html>"))
			return
		}
		w.Write([]byte(`{"id":7}`))
	}))
	defer server.Close()
	fetcher := newTestFetcher(NewMemoryStore(), &fakeClock{now: time.Now()}, &recordedSleeps{})

	payload, err := fetcher.Fetch(context.Background(), "detail_7", server.URL)

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(payload))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_CancelledContextStopsRetrying(t *testing.T) {
	server, calls := scriptedServer(t, http.StatusTooManyRequests, http.StatusTooManyRequests)
	ctx, cancel := context.WithCancel(context.Background())
	sleep := func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}
	fetcher := NewFetcher(NewMemoryStore(), nil, DefaultConfig(), WithSleep(sleep))

	_, err := fetcher.Fetch(ctx, "now_playing", server.URL)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

type brokenStore struct{ sets int }

func (s *brokenStore) Get(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("connection refused")
}

func (s *brokenStore) Set(context.Context, string, Entry) error {
	s.sets++
	return errors.New("connection refused")
}

func TestFetch_StoreErrorsDegradeToMiss(t *testing.T) {
	server, calls := scriptedServer(t)
	store := &brokenStore{}
	fetcher := newTestFetcher(store, &fakeClock{now: time.Now()}, &recordedSleeps{})

	payload, err := fetcher.Fetch(context.Background(), "popular", server.URL)

	require.NoError(t, err)
	assert.NotEmpty(t, payload)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, 1, store.sets)
}

func TestFetch_RecordsMetrics(t *testing.T) {
	server, _ := scriptedServer(t, http.StatusServiceUnavailable)
	metrics := NewMetrics(prometheus.NewRegistry())
	fetcher := newTestFetcher(NewMemoryStore(), &fakeClock{now: time.Now()}, &recordedSleeps{}, WithMetrics(metrics))

	for i := 0; i < 3; i++ {
		_, err := fetcher.Fetch(context.Background(), "popular", server.URL)
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.misses))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.retries))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.upstreamRequests.WithLabelValues("503")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.upstreamRequests.WithLabelValues("200")))
}

func TestEntry_IsFresh(t *testing.T) {
	fetchedAt := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	entry := Entry{FetchedAt: fetchedAt}

	assert.True(t, entry.IsFresh(fetchedAt.Add(59*time.Minute), time.Hour))
	assert.False(t, entry.IsFresh(fetchedAt.Add(time.Hour), time.Hour))
}

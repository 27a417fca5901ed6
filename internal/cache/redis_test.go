package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEntry(t *testing.T) {
	fetchedAt := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	data, err := json.Marshal(Entry{Payload: json.RawMessage(`{"id":7}`), FetchedAt: fetchedAt})
	require.NoError(t, err)

	entry, err := decodeEntry(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(entry.Payload))
	assert.True(t, fetchedAt.Equal(entry.FetchedAt))

	_, err = decodeEntry([]byte("not json"))
	assert.Error(t, err)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	store := NewRedisStore(client, "test:"+uuid.NewString()+":")
	defer store.Close()

	ctx := context.Background()
	_, ok, err := store.Get(ctx, "popular")
	require.NoError(t, err)
	assert.False(t, ok)

	fetchedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Set(ctx, "popular", Entry{Payload: json.RawMessage(`{"page":1}`), FetchedAt: fetchedAt}))

	entry, ok, err := store.Get(ctx, "popular")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"page":1}`, string(entry.Payload))
	assert.True(t, fetchedAt.Equal(entry.FetchedAt))

	client.Del(ctx, store.key("popular"))
}

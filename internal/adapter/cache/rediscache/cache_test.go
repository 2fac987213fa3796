package rediscache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/job-match-engine/internal/adapter/cache/rediscache"
	"github.com/fairyhunter13/job-match-engine/internal/domain"
)

func newTestCache(t *testing.T) (*rediscache.Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return rediscache.New(client, "test"), srv
}

func TestCache_RoundTrip(t *testing.T) {
	t.Parallel()
	cache, _ := newTestCache(t)
	ctx := context.Background()

	results := []domain.MatchResult{
		{PostingID: "p1", Score: 0.91, Reasons: []string{"strong title match"}},
		{PostingID: "p2", Score: 0.5},
	}
	require.NoError(t, cache.SetResults(ctx, "recs:u1", results, time.Minute))

	got, hit, err := cache.GetResults(ctx, "recs:u1")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, results, got)
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	t.Parallel()
	cache, _ := newTestCache(t)

	_, hit, err := cache.GetResults(context.Background(), "recs:nobody")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_TTLExpires(t *testing.T) {
	t.Parallel()
	cache, srv := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetResults(ctx, "recs:u1", []domain.MatchResult{{PostingID: "p1"}}, time.Minute))
	srv.FastForward(2 * time.Minute)

	_, hit, err := cache.GetResults(ctx, "recs:u1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	t.Parallel()
	cache, srv := newTestCache(t)

	require.NoError(t, srv.Set("test:recs:u1", "{not json"))

	_, hit, err := cache.GetResults(context.Background(), "recs:u1")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_KeysAreNamespaced(t *testing.T) {
	t.Parallel()
	cache, srv := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetResults(ctx, "recs:u1", nil, time.Minute))
	assert.True(t, srv.Exists("test:recs:u1"))
}

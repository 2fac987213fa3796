package ratelimit_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/job-match-engine/internal/adapter/ratelimit"
)

func newRedisLimiter(t *testing.T, perMinute, burst int) *ratelimit.RedisPerUser {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return ratelimit.NewRedisPerUser(client, perMinute, burst)
}

func TestRedisPerUser_BurstThenThrottle(t *testing.T) {
	t.Parallel()
	l := newRedisLimiter(t, 30, 2)

	assert.True(t, l.Allow("u1"))
	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))
}

func TestRedisPerUser_UsersAreIndependent(t *testing.T) {
	t.Parallel()
	l := newRedisLimiter(t, 30, 1)

	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))
	assert.True(t, l.Allow("u2"))
}

func TestRedisPerUser_FailsOpenWithoutRedis(t *testing.T) {
	t.Parallel()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	l := ratelimit.NewRedisPerUser(client, 30, 1)

	assert.True(t, l.Allow("u1"))
	assert.True(t, l.Allow("u1"))
}

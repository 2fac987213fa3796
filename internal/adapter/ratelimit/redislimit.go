package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// luaTokenBucket refills and drains one per-user bucket atomically so that
// several engine instances sharing a Redis agree on the budget.
const luaTokenBucket = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local tokens = capacity
local last_refill = now

local data = redis.call("HMGET", key, "tokens", "last_refill")
if data[1] ~= false and data[1] ~= nil then
  tokens = tonumber(data[1])
end
if data[2] ~= false and data[2] ~= nil then
  last_refill = tonumber(data[2])
end

local delta = now - last_refill
if delta < 0 then
  delta = 0
end

tokens = math.min(capacity, tokens + delta * refill_rate)
last_refill = now

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HMSET", key, "tokens", tokens, "last_refill", last_refill)

return allowed
`

// RedisPerUser is a Redis-backed domain.Limiter for deployments that run
// more than one engine instance against a shared budget. It fails open on
// Redis errors so a cache outage throttles nothing.
type RedisPerUser struct {
	client   *redis.Client
	script   *redis.Script
	capacity int
	rate     float64
}

// NewRedisPerUser allows perMinute requests per user with a burst of
// burst, enforced through the shared Redis.
func NewRedisPerUser(client *redis.Client, perMinute, burst int) *RedisPerUser {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = perMinute
	}
	return &RedisPerUser{
		client:   client,
		script:   redis.NewScript(luaTokenBucket),
		capacity: burst,
		rate:     float64(perMinute) / 60.0,
	}
}

// Allow reports whether the user may proceed now.
func (l *RedisPerUser) Allow(userID string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	nowSec := float64(time.Now().UnixNano()) / 1e9
	res, err := l.script.Run(ctx, l.client, []string{"rate:" + userID}, l.capacity, l.rate, nowSec).Int64()
	if err != nil {
		slog.Warn("redis rate limiter unavailable, failing open",
			slog.String("user_id", userID), slog.Any("error", err))
		return true
	}
	return res == 1
}

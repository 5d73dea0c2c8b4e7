package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// advanceScript prunes a subject's sorted-set of event timestamps to the
// trailing window, then records one event unless the count has already
// reached the limit. Returns 1 when the event was recorded. The capped
// event itself is never counted.
var advanceScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window_ms)
if redis.call('ZCARD', key) >= limit then
  return 0
end
redis.call('ZADD', key, now, now .. '-' .. redis.call('INCR', key .. ':seq'))
redis.call('PEXPIRE', key, window_ms)
redis.call('PEXPIRE', key .. ':seq', window_ms)
return 1
`)

// VelocityStore implements ports.VelocityStore on Redis using a sliding
// window of timestamps per subject. The Lua script keeps check-then-add
// atomic per subject across processes.
type VelocityStore struct {
	client *goredis.Client
	prefix string
}

// NewVelocityStore creates a Redis-backed velocity store. The prefix
// separates wallet windows from device windows on a shared client.
func NewVelocityStore(client *goredis.Client, prefix string) *VelocityStore {
	return &VelocityStore{
		client: client,
		prefix: "velocity:" + prefix + ":",
	}
}

// Advance prunes, checks and conditionally records one event for subject.
func (s *VelocityStore) Advance(ctx context.Context, subject string, limit int, window time.Duration) (bool, error) {
	res, err := advanceScript.Run(ctx, s.client,
		[]string{s.prefix + subject},
		time.Now().UnixMilli(),
		window.Milliseconds(),
		limit,
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis velocity advance: %w", err)
	}
	return res == 1, nil
}

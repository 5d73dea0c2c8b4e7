package redis

import (
	"context"
	"fmt"
	"time"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// reserveScript atomically claims an idempotency key. Returns:
//
//	{"new"}                    key unseen, now claimed in-flight
//	{"inflight"}               same fingerprint, operation still running
//	{"mismatch"}               key exists with a different fingerprint
//	{"done", result, created}  completed record for the same fingerprint
var reserveScript = goredis.NewScript(`
local key = KEYS[1]
local fp = ARGV[1]
local now = ARGV[2]
local lease = tonumber(ARGV[3])

local stored = redis.call('HGET', key, 'fp')
if not stored then
  redis.call('HSET', key, 'fp', fp, 'state', 'inflight', 'created', now)
  redis.call('PEXPIRE', key, lease)
  return {'new'}
end
if stored ~= fp then
  return {'mismatch'}
end
if redis.call('HGET', key, 'state') == 'inflight' then
  return {'inflight'}
end
return {'done', redis.call('HGET', key, 'result'), redis.call('HGET', key, 'created')}
`)

// completeScript publishes a result only for a still-live reservation
// and promotes the key's expiry from the in-flight lease to the full
// replay horizon.
var completeScript = goredis.NewScript(`
local key = KEYS[1]
if redis.call('EXISTS', key) == 0 then
  return 0
end
redis.call('HSET', key, 'state', 'done', 'result', ARGV[1])
redis.call('PEXPIRE', key, tonumber(ARGV[2]))
return 1
`)

// DefaultInFlightLease bounds how long a crashed holder can block its
// key. It must comfortably exceed one ledger round-trip; past it the
// reservation lapses and recovery can reclaim the key.
const DefaultInFlightLease = 30 * time.Second

// IdempotencyStore implements ports.IdempotencyStore on Redis. Key
// expiry does the eviction: in-flight reservations carry a short lease
// so a crashed holder cannot wedge its key, completed records carry the
// full replay horizon. The Lua scripts keep Reserve and Complete atomic
// per key across processes.
type IdempotencyStore struct {
	client  *goredis.Client
	prefix  string
	horizon time.Duration
	lease   time.Duration
}

// NewIdempotencyStore creates a Redis-backed idempotency store. In-flight
// reservations expire after DefaultInFlightLease; only completed records
// live out the horizon.
func NewIdempotencyStore(client *goredis.Client, horizon time.Duration) *IdempotencyStore {
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}
	return &IdempotencyStore{
		client:  client,
		prefix:  "idempotency:",
		horizon: horizon,
		lease:   DefaultInFlightLease,
	}
}

// Reserve claims key for fingerprint.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, fingerprint string) (*domain.IdempotencyRecord, ports.ReservationState, error) {
	now := time.Now().UTC()
	res, err := reserveScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		fingerprint,
		now.Format(time.RFC3339Nano),
		s.lease.Milliseconds(),
	).Slice()
	if err != nil {
		return nil, ports.ReservationNew, fmt.Errorf("redis idempotency reserve: %w", err)
	}
	if len(res) == 0 {
		return nil, ports.ReservationNew, fmt.Errorf("redis idempotency reserve: empty reply")
	}

	switch res[0] {
	case "new":
		return nil, ports.ReservationNew, nil
	case "inflight":
		return nil, ports.ReservationInFlight, nil
	case "mismatch":
		return nil, ports.ReservationMismatch, nil
	case "done":
		rec := &domain.IdempotencyRecord{Key: key, Fingerprint: fingerprint}
		if len(res) > 1 {
			if raw, ok := res[1].(string); ok {
				rec.Result = []byte(raw)
			}
		}
		if len(res) > 2 {
			if raw, ok := res[2].(string); ok {
				rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, raw)
			}
		}
		return rec, ports.ReservationCompleted, nil
	}
	return nil, ports.ReservationNew, fmt.Errorf("redis idempotency reserve: unexpected reply %v", res[0])
}

// Complete publishes the operation result under a reserved key. A
// reservation whose lease already lapsed is gone; its result cannot be
// stored, and the next Reserve on the key starts fresh.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, result []byte) error {
	stored, err := completeScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		result,
		s.horizon.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("redis idempotency complete: %w", err)
	}
	if stored == 0 {
		return fmt.Errorf("redis idempotency complete: reservation for %q lapsed", key)
	}
	return nil
}

// Release drops a reservation after a failed operation.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis idempotency release: %w", err)
	}
	return nil
}

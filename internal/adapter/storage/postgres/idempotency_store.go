package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const (
	idempotencyStateInFlight = "inflight"
	idempotencyStateDone     = "done"
)

// defaultInFlightLease bounds how long a crashed holder can block its
// key before the reservation is reclaimable.
const defaultInFlightLease = 30 * time.Second

// IdempotencyStore implements ports.IdempotencyStore on PostgreSQL. The
// primary-key insert is the claim; expiry is enforced lazily on access,
// with in-flight reservations held to a short lease and completed
// records to the full replay horizon.
type IdempotencyStore struct {
	pool    Pool
	horizon time.Duration
	lease   time.Duration
}

// NewIdempotencyStore creates a PostgreSQL-backed idempotency store.
func NewIdempotencyStore(pool Pool, horizon time.Duration) *IdempotencyStore {
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}
	return &IdempotencyStore{
		pool:    pool,
		horizon: horizon,
		lease:   defaultInFlightLease,
	}
}

// Reserve claims key for fingerprint.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, fingerprint string) (*domain.IdempotencyRecord, ports.ReservationState, error) {
	now := time.Now().UTC()

	evict := `DELETE FROM idempotency_records
		WHERE key = $1 AND (created_at < $2 OR (state = $3 AND created_at < $4))`
	if _, err := s.pool.Exec(ctx, evict,
		key, now.Add(-s.horizon), idempotencyStateInFlight, now.Add(-s.lease)); err != nil {
		return nil, ports.ReservationNew, fmt.Errorf("evict stale idempotency record: %w", err)
	}

	claim := `INSERT INTO idempotency_records (key, fingerprint, state, created_at)
		VALUES ($1, $2, $3, $4) ON CONFLICT (key) DO NOTHING`
	tag, err := s.pool.Exec(ctx, claim, key, fingerprint, idempotencyStateInFlight, now)
	if err != nil {
		return nil, ports.ReservationNew, fmt.Errorf("claim idempotency key: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil, ports.ReservationNew, nil
	}

	rec := domain.IdempotencyRecord{Key: key}
	var state string
	query := `SELECT fingerprint, state, result, created_at FROM idempotency_records WHERE key = $1`
	err = s.pool.QueryRow(ctx, query, key).Scan(&rec.Fingerprint, &state, &rec.Result, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// The row vanished between claim and read: another caller
		// released it. Treat as a concurrent duplicate.
		return nil, ports.ReservationInFlight, nil
	}
	if err != nil {
		return nil, ports.ReservationNew, fmt.Errorf("load idempotency record: %w", err)
	}

	if rec.Fingerprint != fingerprint {
		return nil, ports.ReservationMismatch, nil
	}
	if state == idempotencyStateInFlight {
		return nil, ports.ReservationInFlight, nil
	}
	return &rec, ports.ReservationCompleted, nil
}

// Complete publishes the operation result under a reserved key. A
// reservation whose lease lapsed has been evicted and cannot take a
// result anymore.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, result []byte) error {
	query := `UPDATE idempotency_records SET state = $1, result = $2 WHERE key = $3 AND state = $4`

	tag, err := s.pool.Exec(ctx, query, idempotencyStateDone, result, key, idempotencyStateInFlight)
	if err != nil {
		return fmt.Errorf("complete idempotency record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete idempotency record: reservation for %q lapsed", key)
	}
	return nil
}

// Release drops an in-flight reservation so a retry can execute again.
// Completed records stay for replay.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	query := `DELETE FROM idempotency_records WHERE key = $1 AND state = $2`

	if _, err := s.pool.Exec(ctx, query, key, idempotencyStateInFlight); err != nil {
		return fmt.Errorf("release idempotency record: %w", err)
	}
	return nil
}

package service

import (
	"context"

	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// IdempotencyGuard wraps side-effecting operations so that, per distinct
// key, the operation runs at most once across retries. The store holds
// its lock only around local bookkeeping; the operation itself always
// runs outside any lock.
type IdempotencyGuard struct {
	store ports.IdempotencyStore
	log   zerolog.Logger
}

// NewIdempotencyGuard creates a new guard over the given store.
func NewIdempotencyGuard(store ports.IdempotencyStore, log zerolog.Logger) *IdempotencyGuard {
	return &IdempotencyGuard{store: store, log: log}
}

// Execute runs op under the dedupe contract for key. An empty key means
// no contract was requested and op always executes. The same key with an
// identical fingerprint returns the stored result without re-running op;
// the same key with a different fingerprint fails with a conflict.
func (g *IdempotencyGuard) Execute(ctx context.Context, key, fingerprint string, op func(context.Context) ([]byte, error)) ([]byte, error) {
	if key == "" {
		return op(ctx)
	}

	rec, state, err := g.store.Reserve(ctx, key, fingerprint)
	if err != nil {
		return nil, apperror.ErrStoreError(err)
	}

	switch state {
	case ports.ReservationCompleted:
		g.log.Debug().Str("key", key).Msg("idempotent replay, returning stored result")
		return rec.Result, nil
	case ports.ReservationMismatch:
		return nil, apperror.ErrConflict()
	case ports.ReservationInFlight:
		// A concurrent duplicate while the first attempt is running.
		// The caller retries with the same key once it settles.
		return nil, apperror.ErrConflict()
	}

	result, err := op(ctx)
	if err != nil {
		// Drop the reservation so a retry can execute again.
		if relErr := g.store.Release(ctx, key); relErr != nil {
			g.log.Warn().Err(relErr).Str("key", key).Msg("failed to release idempotency reservation")
		}
		return nil, err
	}

	if err := g.store.Complete(ctx, key, result); err != nil {
		// The side effect happened; surface the result anyway.
		g.log.Warn().Err(err).Str("key", key).Msg("failed to store idempotency result")
	}
	return result, nil
}

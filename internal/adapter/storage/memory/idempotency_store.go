package memory

import (
	"context"
	"sync"
	"time"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
)

// DefaultIdempotencyHorizon is how long completed records are replayable.
const DefaultIdempotencyHorizon = 24 * time.Hour

type idempotencyEntry struct {
	fingerprint string
	result      []byte
	inFlight    bool
	createdAt   time.Time
}

// IdempotencyStore is the process-local ports.IdempotencyStore. Records
// older than the horizon are evicted lazily on access. The per-key lock
// covers only map bookkeeping, never the guarded operation.
type IdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]*idempotencyEntry
	locks   *keyedLocks
	horizon time.Duration
	now     func() time.Time
}

// NewIdempotencyStore creates an in-memory idempotency store. horizon <= 0
// falls back to DefaultIdempotencyHorizon.
func NewIdempotencyStore(horizon time.Duration) *IdempotencyStore {
	if horizon <= 0 {
		horizon = DefaultIdempotencyHorizon
	}
	return &IdempotencyStore{
		entries: make(map[string]*idempotencyEntry),
		locks:   newKeyedLocks(),
		horizon: horizon,
		now:     time.Now,
	}
}

// Reserve claims key for fingerprint.
func (s *IdempotencyStore) Reserve(_ context.Context, key, fingerprint string) (*domain.IdempotencyRecord, ports.ReservationState, error) {
	lock := s.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()

	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && now.Sub(entry.createdAt) > s.horizon {
		delete(s.entries, key)
		entry, ok = nil, false
	}
	if !ok {
		s.entries[key] = &idempotencyEntry{
			fingerprint: fingerprint,
			inFlight:    true,
			createdAt:   now,
		}
		s.mu.Unlock()
		return nil, ports.ReservationNew, nil
	}
	s.mu.Unlock()

	if entry.fingerprint != fingerprint {
		return nil, ports.ReservationMismatch, nil
	}
	if entry.inFlight {
		return nil, ports.ReservationInFlight, nil
	}
	return &domain.IdempotencyRecord{
		Key:         key,
		Fingerprint: entry.fingerprint,
		Result:      entry.result,
		CreatedAt:   entry.createdAt,
	}, ports.ReservationCompleted, nil
}

// Complete publishes the operation result for a reserved key.
func (s *IdempotencyStore) Complete(_ context.Context, key string, result []byte) error {
	lock := s.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok {
		entry.result = result
		entry.inFlight = false
	}
	return nil
}

// Release drops a reservation so a retry can execute again.
func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	lock := s.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok && entry.inFlight {
		delete(s.entries, key)
	}
	return nil
}

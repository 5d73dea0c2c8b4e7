package memory

import (
	"context"
	"sync"
	"time"
)

// VelocityStore tracks per-subject event timestamps over a trailing
// window, pruned lazily on each check.
type VelocityStore struct {
	mu     sync.Mutex
	events map[string][]time.Time
	locks  *keyedLocks
	now    func() time.Time
}

// NewVelocityStore creates an in-memory velocity store.
func NewVelocityStore() *VelocityStore {
	return &VelocityStore{
		events: make(map[string][]time.Time),
		locks:  newKeyedLocks(),
		now:    time.Now,
	}
}

// Advance prunes events outside the window and records one event for
// subject unless the count has already reached limit. The check and the
// append happen under the subject's lock, so concurrent callers cannot
// slip past the cap together. A capped request is never counted.
func (s *VelocityStore) Advance(_ context.Context, subject string, limit int, window time.Duration) (bool, error) {
	lock := s.locks.get(subject)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events[subject]
	kept := events[:0]
	for _, ts := range events {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		s.events[subject] = kept
		return false, nil
	}

	s.events[subject] = append(kept, now)
	return true, nil
}

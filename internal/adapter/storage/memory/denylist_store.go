package memory

import (
	"context"
	"sync"

	"escrow-settlement-engine/internal/core/domain"
)

// DenylistStore is the process-local ports.DenylistStore.
type DenylistStore struct {
	mu      sync.RWMutex
	entries map[domain.DenylistKind]map[string]struct{}
}

// NewDenylistStore creates an in-memory denylist, optionally seeded.
func NewDenylistStore(seed ...domain.DenylistEntry) *DenylistStore {
	s := &DenylistStore{entries: make(map[domain.DenylistKind]map[string]struct{})}
	for _, e := range seed {
		s.add(e)
	}
	return s
}

// IsDenied reports whether the subject is denylisted.
func (s *DenylistStore) IsDenied(_ context.Context, kind domain.DenylistKind, value string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[kind][value]
	return ok, nil
}

// Add records a denylist entry.
func (s *DenylistStore) Add(_ context.Context, entry domain.DenylistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(entry)
	return nil
}

// Remove drops a denylist entry.
func (s *DenylistStore) Remove(_ context.Context, entry domain.DenylistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if values, ok := s.entries[entry.Kind]; ok {
		delete(values, entry.Value)
	}
	return nil
}

func (s *DenylistStore) add(entry domain.DenylistEntry) {
	values, ok := s.entries[entry.Kind]
	if !ok {
		values = make(map[string]struct{})
		s.entries[entry.Kind] = values
	}
	values[entry.Value] = struct{}{}
}

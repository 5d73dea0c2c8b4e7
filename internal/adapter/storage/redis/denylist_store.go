package redis

import (
	"context"
	"fmt"

	"escrow-settlement-engine/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// DenylistStore implements ports.DenylistStore on Redis sets, one set per
// subject kind.
type DenylistStore struct {
	client *goredis.Client
	prefix string
}

// NewDenylistStore creates a Redis-backed denylist store.
func NewDenylistStore(client *goredis.Client) *DenylistStore {
	return &DenylistStore{
		client: client,
		prefix: "denylist:",
	}
}

// IsDenied reports whether the subject is denylisted.
func (s *DenylistStore) IsDenied(ctx context.Context, kind domain.DenylistKind, value string) (bool, error) {
	denied, err := s.client.SIsMember(ctx, s.prefix+string(kind), value).Result()
	if err != nil {
		return false, fmt.Errorf("redis denylist check: %w", err)
	}
	return denied, nil
}

// Add records a denylist entry.
func (s *DenylistStore) Add(ctx context.Context, entry domain.DenylistEntry) error {
	if err := s.client.SAdd(ctx, s.prefix+string(entry.Kind), entry.Value).Err(); err != nil {
		return fmt.Errorf("redis denylist add: %w", err)
	}
	return nil
}

// Remove drops a denylist entry.
func (s *DenylistStore) Remove(ctx context.Context, entry domain.DenylistEntry) error {
	if err := s.client.SRem(ctx, s.prefix+string(entry.Kind), entry.Value).Err(); err != nil {
		return fmt.Errorf("redis denylist remove: %w", err)
	}
	return nil
}

package ports

import (
	"context"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
)

// ReservationState is the outcome of claiming an idempotency key.
type ReservationState int

const (
	// ReservationNew means the key was unseen and is now claimed; the
	// caller must run the operation and then Complete or Release.
	ReservationNew ReservationState = iota
	// ReservationCompleted means a stored result exists for the same
	// fingerprint.
	ReservationCompleted
	// ReservationInFlight means another caller claimed the key and has
	// not finished yet.
	ReservationInFlight
	// ReservationMismatch means the key exists with a different
	// fingerprint.
	ReservationMismatch
)

// IdempotencyStore persists idempotency records. Implementations must
// make Reserve atomic per key and evict records older than their
// configured horizon lazily on access.
type IdempotencyStore interface {
	// Reserve claims key for fingerprint. The returned record is non-nil
	// only for ReservationCompleted.
	Reserve(ctx context.Context, key, fingerprint string) (*domain.IdempotencyRecord, ReservationState, error)
	// Complete publishes the operation result under a previously
	// reserved key.
	Complete(ctx context.Context, key string, result []byte) error
	// Release drops a reservation after a failed operation so a retry
	// can execute again.
	Release(ctx context.Context, key string) error
}

// VelocityStore tracks per-subject event timestamps over a trailing
// window. Advance must be atomic per subject: prune events outside the
// window, then record one event unless the count has already reached
// limit. It returns false without recording when the cap is hit, so the
// rejected event is never counted.
type VelocityStore interface {
	Advance(ctx context.Context, subject string, limit int, window time.Duration) (bool, error)
}

// DenylistStore holds blocked wallets, devices and IPs.
type DenylistStore interface {
	IsDenied(ctx context.Context, kind domain.DenylistKind, value string) (bool, error)
	Add(ctx context.Context, entry domain.DenylistEntry) error
	Remove(ctx context.Context, entry domain.DenylistEntry) error
}

// OrderRepository persists escrow orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.EscrowOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, updatedAt time.Time) error
}

// IntentRepository persists settlement intents for crash recovery.
type IntentRepository interface {
	Create(ctx context.Context, intent *domain.SettlementIntent) error
	MarkCompleted(ctx context.Context, id uuid.UUID, receiptID string, updatedAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, updatedAt time.Time) error
	ListPending(ctx context.Context, olderThan time.Time) ([]domain.SettlementIntent, error)
}

// AuditSink records guarded decisions. Append must never fail; audit must
// never block the business action it observes.
type AuditSink interface {
	Append(event domain.AuditEvent)
	Snapshot() []domain.AuditEvent
}

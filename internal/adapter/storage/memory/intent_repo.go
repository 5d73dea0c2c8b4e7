package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
)

// IntentRepo is the process-local ports.IntentRepository.
type IntentRepo struct {
	mu      sync.RWMutex
	intents map[uuid.UUID]domain.SettlementIntent
}

// NewIntentRepo creates an in-memory settlement intent repository.
func NewIntentRepo() *IntentRepo {
	return &IntentRepo{intents: make(map[uuid.UUID]domain.SettlementIntent)}
}

// Create inserts a new settlement intent.
func (r *IntentRepo) Create(_ context.Context, intent *domain.SettlementIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.intents[intent.ID]; ok {
		return fmt.Errorf("intent %s already exists", intent.ID)
	}
	r.intents[intent.ID] = *intent
	return nil
}

// MarkCompleted records the leg receipt and closes the intent.
func (r *IntentRepo) MarkCompleted(_ context.Context, id uuid.UUID, receiptID string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	intent, ok := r.intents[id]
	if !ok {
		return fmt.Errorf("intent %s not found", id)
	}
	intent.Status = domain.IntentStatusCompleted
	intent.ReceiptID = receiptID
	intent.UpdatedAt = updatedAt
	r.intents[id] = intent
	return nil
}

// MarkFailed closes the intent without a receipt; it will never be
// re-driven.
func (r *IntentRepo) MarkFailed(_ context.Context, id uuid.UUID, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	intent, ok := r.intents[id]
	if !ok {
		return fmt.Errorf("intent %s not found", id)
	}
	intent.Status = domain.IntentStatusFailed
	intent.UpdatedAt = updatedAt
	r.intents[id] = intent
	return nil
}

// ListPending returns pending intents created before olderThan,
// oldest-first.
func (r *IntentRepo) ListPending(_ context.Context, olderThan time.Time) ([]domain.SettlementIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.SettlementIntent
	for _, intent := range r.intents {
		if intent.Status == domain.IntentStatusPending && intent.CreatedAt.Before(olderThan) {
			out = append(out, intent)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

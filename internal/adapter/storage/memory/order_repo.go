package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
)

// OrderRepo is the process-local ports.OrderRepository.
type OrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]domain.EscrowOrder
}

// NewOrderRepo creates an in-memory order repository.
func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[uuid.UUID]domain.EscrowOrder)}
}

// Create inserts a new order.
func (r *OrderRepo) Create(_ context.Context, order *domain.EscrowOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns the order, or nil when absent.
func (r *OrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.EscrowOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

// UpdateStatus persists a new status for the order.
func (r *OrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s not found", id)
	}
	order.Status = status
	order.UpdatedAt = updatedAt
	r.orders[id] = order
	return nil
}

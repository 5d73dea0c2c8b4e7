package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create inserts a new escrow order.
func (r *OrderRepo) Create(ctx context.Context, o *domain.EscrowOrder) error {
	query := `INSERT INTO escrow_orders (id, domain, buyer_wallet, seller_wallet, amount_minor,
		currency, status, linked_shipment_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.Domain, o.BuyerWallet, o.SellerWallet, o.AmountMinor,
		o.Currency, o.Status, o.LinkedShipmentRef, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert escrow order: %w", err)
	}
	return nil
}

// GetByID fetches an escrow order by UUID. Returns nil, nil when the
// order does not exist.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EscrowOrder, error) {
	query := `SELECT id, domain, buyer_wallet, seller_wallet, amount_minor,
		currency, status, linked_shipment_ref, created_at, updated_at
		FROM escrow_orders WHERE id = $1`

	o := &domain.EscrowOrder{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Domain, &o.BuyerWallet, &o.SellerWallet, &o.AmountMinor,
		&o.Currency, &o.Status, &o.LinkedShipmentRef, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan escrow order: %w", err)
	}
	return o, nil
}

// UpdateStatus moves an order to a new status.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, updatedAt time.Time) error {
	query := `UPDATE escrow_orders SET status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("escrow order not found: %s", id)
	}
	return nil
}

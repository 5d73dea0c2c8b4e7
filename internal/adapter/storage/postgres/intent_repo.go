package postgres

import (
	"context"
	"fmt"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
)

// IntentRepo implements ports.IntentRepository.
type IntentRepo struct {
	pool Pool
}

// NewIntentRepo creates a new IntentRepo.
func NewIntentRepo(pool Pool) *IntentRepo {
	return &IntentRepo{pool: pool}
}

// Create inserts a pending settlement intent.
func (r *IntentRepo) Create(ctx context.Context, in *domain.SettlementIntent) error {
	query := `INSERT INTO settlement_intents (id, order_id, domain, leg, from_wallet, to_wallet,
		amount_minor, currency, leg_key, status, receipt_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		in.ID, in.OrderID, in.Domain, in.Leg, in.FromWallet, in.ToWallet,
		in.AmountMinor, in.Currency, in.LegKey, in.Status, in.ReceiptID,
		in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert settlement intent: %w", err)
	}
	return nil
}

// MarkCompleted records the ledger receipt for an executed leg.
func (r *IntentRepo) MarkCompleted(ctx context.Context, id uuid.UUID, receiptID string, updatedAt time.Time) error {
	query := `UPDATE settlement_intents SET status = $1, receipt_id = $2, updated_at = $3 WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, domain.IntentStatusCompleted, receiptID, updatedAt, id)
	if err != nil {
		return fmt.Errorf("mark intent completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("settlement intent not found: %s", id)
	}
	return nil
}

// MarkFailed closes the intent without a receipt so it is never
// re-driven.
func (r *IntentRepo) MarkFailed(ctx context.Context, id uuid.UUID, updatedAt time.Time) error {
	query := `UPDATE settlement_intents SET status = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, domain.IntentStatusFailed, updatedAt, id)
	if err != nil {
		return fmt.Errorf("mark intent failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("settlement intent not found: %s", id)
	}
	return nil
}

// ListPending fetches pending intents created before olderThan, oldest
// first. The resumer uses this to re-drive legs that never completed.
func (r *IntentRepo) ListPending(ctx context.Context, olderThan time.Time) ([]domain.SettlementIntent, error) {
	query := `SELECT id, order_id, domain, leg, from_wallet, to_wallet,
		amount_minor, currency, leg_key, status, receipt_id, created_at, updated_at
		FROM settlement_intents WHERE status = $1 AND created_at < $2 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, domain.IntentStatusPending, olderThan)
	if err != nil {
		return nil, fmt.Errorf("list pending intents: %w", err)
	}
	defer rows.Close()

	var intents []domain.SettlementIntent
	for rows.Next() {
		in := domain.SettlementIntent{}
		err := rows.Scan(
			&in.ID, &in.OrderID, &in.Domain, &in.Leg, &in.FromWallet, &in.ToWallet,
			&in.AmountMinor, &in.Currency, &in.LegKey, &in.Status, &in.ReceiptID,
			&in.CreatedAt, &in.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan intent row: %w", err)
		}
		intents = append(intents, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intent rows: %w", err)
	}
	return intents, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// IntentStatus is the lifecycle state of a settlement intent.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "PENDING"
	IntentStatusCompleted IntentStatus = "COMPLETED"
	// IntentStatusFailed marks an intent whose leg definitively did not
	// run: either its error was surfaced to the caller, or its order has
	// since moved somewhere the leg may no longer follow. Failed intents
	// are never re-driven.
	IntentStatusFailed IntentStatus = "FAILED"
)

// SettlementIntent is persisted before a settlement leg is executed and
// updated once the leg returns. A pending intent that outlives its leg
// call marks a crash window; reconciliation re-drives it using the stored
// leg key, which the idempotency guard dedupes.
type SettlementIntent struct {
	ID          uuid.UUID     `json:"id"`
	OrderID     uuid.UUID     `json:"order_id"`
	Domain      string        `json:"domain"`
	Leg         SettlementLeg `json:"leg"`
	FromWallet  string        `json:"from_wallet"`
	ToWallet    string        `json:"to_wallet"`
	AmountMinor int64         `json:"amount_minor"`
	Currency    string        `json:"currency"`
	LegKey      string        `json:"leg_key"`
	Status      IntentStatus  `json:"status"`
	ReceiptID   string        `json:"receipt_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TargetStatus returns the order status the intent's leg settles into.
func (i *SettlementIntent) TargetStatus() OrderStatus {
	switch i.Leg {
	case LegFund:
		return OrderStatusPaidEscrow
	case LegRelease:
		return OrderStatusReleased
	case LegRefund:
		return OrderStatusRefunded
	}
	return ""
}

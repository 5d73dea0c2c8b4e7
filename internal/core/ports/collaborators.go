package ports

import (
	"context"

	"escrow-settlement-engine/internal/core/domain"
)

// LedgerTransfer is the wire-level request to the external Ledger Service.
// The idempotency key is forwarded so the ledger can dedupe on its side
// as well.
type LedgerTransfer struct {
	FromWallet     string
	ToWallet       string
	AmountMinor    int64
	Currency       string
	Reference      string
	IdempotencyKey string
}

// LedgerService is the external service that owns wallet balances. This
// engine never mutates a balance directly.
type LedgerService interface {
	Transfer(ctx context.Context, req LedgerTransfer) (*domain.Receipt, error)
	GetWallet(ctx context.Context, id string) (*domain.WalletInfo, error)
}

// FreightService reports the externally-observed status of a shipment
// linked to an escrow order.
type FreightService interface {
	GetShipment(ctx context.Context, ref string) (*domain.ShipmentInfo, error)
}

package ports

import (
	"context"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
)

// GuardrailCheck carries the subjects and amount a guarded operation is
// about to commit.
type GuardrailCheck struct {
	WalletID    string
	DeviceID    string
	ClientIP    string
	AmountMinor int64
	Actor       string
}

// GuardrailEvaluator runs the ordered anti-fraud pipeline. A nil return
// allows the operation; any non-nil return is a hard stop.
type GuardrailEvaluator interface {
	Check(ctx context.Context, chk GuardrailCheck) error
}

// TransferService executes guarded, idempotent ledger transfers.
type TransferService interface {
	Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Receipt, error)
}

// LegRequest describes one settlement leg of an escrow flow. Its
// idempotency key is derived, never caller-supplied.
type LegRequest struct {
	Domain      string
	OrderID     uuid.UUID
	Leg         domain.SettlementLeg
	FromWallet  string
	ToWallet    string
	AmountMinor int64
	Currency    string
}

// SettlementExecutor executes individual settlement legs.
type SettlementExecutor interface {
	ExecuteLeg(ctx context.Context, leg LegRequest) (*domain.Receipt, error)
}

// CreateOrderRequest holds validated input for escrow order creation.
type CreateOrderRequest struct {
	IdempotencyKey    string
	Domain            string
	BuyerWallet       string
	SellerWallet      string
	AmountMinor       int64
	Currency          string
	LinkedShipmentRef string
	DeviceID          string
	ClientIP          string
}

// OrderService owns escrow order transitions and their settlement
// coupling.
type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest, actor domain.Identity) (*domain.EscrowOrder, error)
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, target domain.OrderStatus, actor domain.Identity) (*domain.EscrowOrder, error)
}

// SettlementResumer re-drives settlement intents left pending by a crash.
type SettlementResumer interface {
	ResumeStuck(ctx context.Context) (int, error)
}

// TokenService issues and validates identity tokens.
type TokenService interface {
	Generate(subjectID string, roles []domain.Role, operatorDomains []string) (string, time.Time, error)
	Validate(tokenString string) (*domain.Identity, error)
}

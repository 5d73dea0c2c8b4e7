package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderServiceImpl owns escrow order transitions: role gating, transition
// legality, and the settlement coupling on release/refund. The new status
// is persisted only after the settlement leg succeeds.
type OrderServiceImpl struct {
	orders       ports.OrderRepository
	intents      ports.IntentRepository
	legs         ports.SettlementExecutor
	freight      ports.FreightService
	guardrails   ports.GuardrailEvaluator
	audit        ports.AuditSink
	guard        *IdempotencyGuard
	escrowWallet string
	log          zerolog.Logger
}

// NewOrderService creates a new OrderServiceImpl. escrowWallet is the
// ledger account holding funds between payment and release/refund.
func NewOrderService(
	orders ports.OrderRepository,
	intents ports.IntentRepository,
	legs ports.SettlementExecutor,
	freight ports.FreightService,
	guardrails ports.GuardrailEvaluator,
	audit ports.AuditSink,
	guard *IdempotencyGuard,
	escrowWallet string,
	log zerolog.Logger,
) *OrderServiceImpl {
	return &OrderServiceImpl{
		orders:       orders,
		intents:      intents,
		legs:         legs,
		freight:      freight,
		guardrails:   guardrails,
		audit:        audit,
		guard:        guard,
		escrowWallet: escrowWallet,
		log:          log,
	}
}

// orderFingerprint hashes the identifying fields of a creation request.
// Two requests under one idempotency key must agree on it to count as
// retries of the same order.
func orderFingerprint(req ports.CreateOrderRequest) string {
	canonical := strings.Join([]string{
		req.Domain,
		req.BuyerWallet,
		req.SellerWallet,
		fmt.Sprintf("%d", req.AmountMinor),
		req.Currency,
		req.LinkedShipmentRef,
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// CreateOrder persists a new escrow order and funds it from the buyer's
// wallet. The order is created first at `created`; if the process dies
// between the funding leg and the status update, the pending intent lets
// reconciliation finish the job under the same leg key.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, req ports.CreateOrderRequest, actor domain.Identity) (*domain.EscrowOrder, error) {
	if !actor.Authenticated() {
		return nil, apperror.ErrUnauthorized()
	}
	if req.Domain == "" || req.BuyerWallet == "" || req.SellerWallet == "" {
		return nil, apperror.Validation("domain, buyer_wallet and seller_wallet are required")
	}
	if req.AmountMinor <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	// Creation runs under the caller's idempotency key, so a retried
	// request replays the stored order instead of minting and funding a
	// second one. Without a key each call is a fresh order.
	raw, err := s.guard.Execute(ctx, req.IdempotencyKey, orderFingerprint(req), func(ctx context.Context) ([]byte, error) {
		order, err := s.createAndFund(ctx, req, actor)
		if err != nil {
			return nil, err
		}
		return json.Marshal(order)
	})
	if err != nil {
		return nil, err
	}

	order := &domain.EscrowOrder{}
	if err := json.Unmarshal(raw, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal stored order: %w", err))
	}
	return order, nil
}

func (s *OrderServiceImpl) createAndFund(ctx context.Context, req ports.CreateOrderRequest, actor domain.Identity) (*domain.EscrowOrder, error) {
	if err := s.guardrails.Check(ctx, ports.GuardrailCheck{
		WalletID:    req.BuyerWallet,
		DeviceID:    req.DeviceID,
		ClientIP:    req.ClientIP,
		AmountMinor: req.AmountMinor,
		Actor:       actor.SubjectID,
	}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.EscrowOrder{
		ID:                uuid.New(),
		Domain:            req.Domain,
		BuyerWallet:       req.BuyerWallet,
		SellerWallet:      req.SellerWallet,
		AmountMinor:       req.AmountMinor,
		Currency:          req.Currency,
		Status:            domain.OrderStatusCreated,
		LinkedShipmentRef: req.LinkedShipmentRef,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperror.ErrStoreError(err)
	}

	if err := s.settle(ctx, order, domain.LegFund, req.BuyerWallet, s.escrowWallet); err != nil {
		// Funding failed: the order stays at `created` and the caller
		// sees exactly why. Only a crash leaves a pending intent behind
		// for reconciliation; a surfaced failure closes it.
		return nil, err
	}

	order.Status = domain.OrderStatusPaidEscrow
	order.UpdatedAt = time.Now().UTC()
	if err := s.orders.UpdateStatus(ctx, order.ID, order.Status, order.UpdatedAt); err != nil {
		return nil, apperror.ErrStoreError(err)
	}

	s.audit.Append(domain.AuditEvent{
		Actor:  actor.SubjectID,
		Action: domain.AuditOrderCreated,
		Attributes: map[string]string{
			"order_id": order.ID.String(),
			"domain":   order.Domain,
		},
	})
	return order, nil
}

// SetOrderStatus drives one transition of the escrow state machine. Role
// gates run before transition legality; settlement runs before persist.
func (s *OrderServiceImpl) SetOrderStatus(ctx context.Context, orderID uuid.UUID, target domain.OrderStatus, actor domain.Identity) (*domain.EscrowOrder, error) {
	if !actor.Authenticated() {
		return nil, apperror.ErrUnauthorized()
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.ErrStoreError(err)
	}
	if order == nil {
		return nil, apperror.ErrNotFound("Order")
	}

	switch target {
	case domain.OrderStatusShipped:
		if !actor.IsOperatorFor(order.Domain) {
			return nil, apperror.ErrForbidden("mark order shipped")
		}
	case domain.OrderStatusReleased:
		if !actor.IsAdmin() {
			return nil, apperror.ErrForbidden("release escrow funds")
		}
	case domain.OrderStatusRefunded:
		if !actor.IsAdmin() {
			return nil, apperror.ErrForbidden("refund escrow funds")
		}
	case domain.OrderStatusDelivered, domain.OrderStatusDisputed:
		// Either party may report these; authentication suffices.
	default:
		return nil, apperror.ErrInvalidTransition(string(order.Status), string(target))
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, apperror.ErrInvalidTransition(string(order.Status), string(target))
	}

	switch target {
	case domain.OrderStatusReleased:
		if order.LinkedShipmentRef != "" {
			shipment, err := s.freight.GetShipment(ctx, order.LinkedShipmentRef)
			if err != nil {
				return nil, err
			}
			if shipment.Status != domain.ShipmentStatusDelivered {
				return nil, apperror.ErrShipmentNotDelivered(shipment.Status)
			}
		}
		if err := s.settle(ctx, order, domain.LegRelease, s.escrowWallet, order.SellerWallet); err != nil {
			return nil, err
		}
	case domain.OrderStatusRefunded:
		if err := s.settle(ctx, order, domain.LegRefund, s.escrowWallet, order.BuyerWallet); err != nil {
			return nil, err
		}
	}

	previous := order.Status
	now := time.Now().UTC()
	if err := s.orders.UpdateStatus(ctx, order.ID, target, now); err != nil {
		return nil, apperror.ErrStoreError(err)
	}
	order.Status = target
	order.UpdatedAt = now

	s.audit.Append(domain.AuditEvent{
		Actor:  actor.SubjectID,
		Action: domain.AuditOrderStatusChanged,
		Attributes: map[string]string{
			"order_id": order.ID.String(),
			"from":     string(previous),
			"to":       string(target),
		},
	})
	return order, nil
}

// settle persists a settlement intent, executes the leg under its stable
// derived key, and marks the intent completed. The intent row must exist
// before any money moves.
func (s *OrderServiceImpl) settle(ctx context.Context, order *domain.EscrowOrder, leg domain.SettlementLeg, from, to string) error {
	now := time.Now().UTC()
	intent := &domain.SettlementIntent{
		ID:          uuid.New(),
		OrderID:     order.ID,
		Domain:      order.Domain,
		Leg:         leg,
		FromWallet:  from,
		ToWallet:    to,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
		LegKey:      domain.LegKey(order.Domain, order.ID, leg, order.AmountMinor),
		Status:      domain.IntentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return apperror.ErrStoreError(err)
	}

	receipt, err := s.legs.ExecuteLeg(ctx, ports.LegRequest{
		Domain:      order.Domain,
		OrderID:     order.ID,
		Leg:         leg,
		FromWallet:  from,
		ToWallet:    to,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
	})
	if err != nil {
		// The caller sees this error and owns the retry, so the intent
		// must not stay pending: a pending intent promises the resumer a
		// leg that nobody else will handle, and re-driving one whose
		// order later moved on would pay out twice.
		if mfErr := s.intents.MarkFailed(ctx, intent.ID, time.Now().UTC()); mfErr != nil {
			s.log.Warn().Err(mfErr).Str("intent_id", intent.ID.String()).Msg("failed to mark settlement intent failed")
		}
		return err
	}

	if err := s.intents.MarkCompleted(ctx, intent.ID, receipt.ID, time.Now().UTC()); err != nil {
		// The leg is done and idempotent; reconciliation re-driving
		// this intent cannot double-move money.
		s.log.Warn().Err(err).Str("intent_id", intent.ID.String()).Msg("failed to mark settlement intent completed")
	}
	return nil
}

package service

import (
	"context"
	"time"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// DefaultPendingAge is how old a pending intent must be before the
// reconciler considers it stuck rather than merely in flight.
const DefaultPendingAge = 5 * time.Minute

// SettlementResumerImpl re-drives settlement intents left pending by a
// crash between persisting the intent and completing its leg. The leg's
// stable key makes re-driving safe: a leg that already ran is a replay,
// not a second payment.
type SettlementResumerImpl struct {
	intents    ports.IntentRepository
	orders     ports.OrderRepository
	legs       ports.SettlementExecutor
	audit      ports.AuditSink
	pendingAge time.Duration
	log        zerolog.Logger
}

// NewSettlementResumer creates a new reconciler. pendingAge <= 0 falls
// back to DefaultPendingAge.
func NewSettlementResumer(
	intents ports.IntentRepository,
	orders ports.OrderRepository,
	legs ports.SettlementExecutor,
	audit ports.AuditSink,
	pendingAge time.Duration,
	log zerolog.Logger,
) *SettlementResumerImpl {
	if pendingAge <= 0 {
		pendingAge = DefaultPendingAge
	}
	return &SettlementResumerImpl{
		intents:    intents,
		orders:     orders,
		legs:       legs,
		audit:      audit,
		pendingAge: pendingAge,
		log:        log,
	}
}

// ResumeStuck executes the remaining leg of every stuck intent and
// settles its order into the leg's target status. Returns how many
// intents were resumed. Individual failures are logged and skipped so one
// broken intent cannot block the rest.
func (r *SettlementResumerImpl) ResumeStuck(ctx context.Context) (int, error) {
	pending, err := r.intents.ListPending(ctx, time.Now().UTC().Add(-r.pendingAge))
	if err != nil {
		return 0, apperror.ErrStoreError(err)
	}

	resumed := 0
	for _, intent := range pending {
		if !r.stillApplies(ctx, &intent) {
			continue
		}

		receipt, err := r.legs.ExecuteLeg(ctx, ports.LegRequest{
			Domain:      intent.Domain,
			OrderID:     intent.OrderID,
			Leg:         intent.Leg,
			FromWallet:  intent.FromWallet,
			ToWallet:    intent.ToWallet,
			AmountMinor: intent.AmountMinor,
			Currency:    intent.Currency,
		})
		if err != nil {
			r.log.Warn().Err(err).
				Str("intent_id", intent.ID.String()).
				Str("leg", string(intent.Leg)).
				Msg("failed to resume settlement intent")
			continue
		}

		now := time.Now().UTC()
		if err := r.intents.MarkCompleted(ctx, intent.ID, receipt.ID, now); err != nil {
			r.log.Warn().Err(err).Str("intent_id", intent.ID.String()).Msg("failed to mark resumed intent completed")
		}
		if err := r.orders.UpdateStatus(ctx, intent.OrderID, intent.TargetStatus(), now); err != nil {
			r.log.Warn().Err(err).Str("order_id", intent.OrderID.String()).Msg("failed to settle order status after resume")
		}

		r.audit.Append(domain.AuditEvent{
			Actor:  "reconciler",
			Action: domain.AuditSettlementResumed,
			Attributes: map[string]string{
				"intent_id": intent.ID.String(),
				"order_id":  intent.OrderID.String(),
				"leg":       string(intent.Leg),
			},
		})
		resumed++
	}

	if resumed > 0 {
		r.log.Info().Int("resumed", resumed).Msg("stuck settlement intents resumed")
	}
	return resumed, nil
}

// stillApplies re-reads the intent's order and decides whether its leg
// may still run. An order that lawfully moved somewhere else since the
// intent was written (say, refunded after a surfaced release failure)
// closes the intent as failed; paying it now would move the same escrow
// twice. An order already sitting at the leg's target status is the
// bookkeeping-crash case and is re-driven to finish, which the leg key
// makes free of double payment.
func (r *SettlementResumerImpl) stillApplies(ctx context.Context, intent *domain.SettlementIntent) bool {
	order, err := r.orders.GetByID(ctx, intent.OrderID)
	if err != nil {
		r.log.Warn().Err(err).Str("intent_id", intent.ID.String()).Msg("failed to load order for stuck intent")
		return false
	}

	target := intent.TargetStatus()
	switch {
	case order == nil:
		// Order vanished; nothing to settle into.
	case order.Status == target:
		return true
	case intent.Leg == domain.LegFund && order.Status == domain.OrderStatusCreated:
		// Funding enters through creation, not the transition table.
		return true
	case order.Status.CanTransitionTo(target):
		return true
	}

	r.log.Warn().
		Str("intent_id", intent.ID.String()).
		Str("order_id", intent.OrderID.String()).
		Str("leg", string(intent.Leg)).
		Msg("stuck settlement intent no longer applies, closing as failed")
	if err := r.intents.MarkFailed(ctx, intent.ID, time.Now().UTC()); err != nil {
		r.log.Warn().Err(err).Str("intent_id", intent.ID.String()).Msg("failed to mark stale intent failed")
	}
	return false
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/internal/core/ports/mocks"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type resumerFixture struct {
	intents *mocks.MockIntentRepository
	orders  *mocks.MockOrderRepository
	legs    *mocks.MockSettlementExecutor
	audit   *AuditRing
	resumer *SettlementResumerImpl
}

func newResumerFixture(t *testing.T) *resumerFixture {
	ctrl := gomock.NewController(t)
	f := &resumerFixture{
		intents: mocks.NewMockIntentRepository(ctrl),
		orders:  mocks.NewMockOrderRepository(ctrl),
		legs:    mocks.NewMockSettlementExecutor(ctrl),
		audit:   NewAuditRing(100, zerolog.Nop()),
	}
	f.resumer = NewSettlementResumer(f.intents, f.orders, f.legs, f.audit, time.Minute, zerolog.Nop())
	return f
}

func stuckIntent(leg domain.SettlementLeg) domain.SettlementIntent {
	now := time.Now().UTC().Add(-time.Hour)
	return domain.SettlementIntent{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		Domain:      "building",
		Leg:         leg,
		FromWallet:  "w_buyer",
		ToWallet:    "w_escrow",
		AmountMinor: 25000,
		Currency:    "USD",
		LegKey:      domain.LegKey("building", uuid.New(), leg, 25000),
		Status:      domain.IntentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func orderForIntent(in domain.SettlementIntent, status domain.OrderStatus) *domain.EscrowOrder {
	o := storedOrder(status)
	o.ID = in.OrderID
	return o
}

func TestResumeStuck_CompletesPendingIntents(t *testing.T) {
	f := newResumerFixture(t)
	fund := stuckIntent(domain.LegFund)
	release := stuckIntent(domain.LegRelease)

	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).
		Return([]domain.SettlementIntent{fund, release}, nil)
	f.orders.EXPECT().GetByID(gomock.Any(), fund.OrderID).
		Return(orderForIntent(fund, domain.OrderStatusCreated), nil)
	f.orders.EXPECT().GetByID(gomock.Any(), release.OrderID).
		Return(orderForIntent(release, domain.OrderStatusDelivered), nil)
	f.legs.EXPECT().ExecuteLeg(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, leg ports.LegRequest) (*domain.Receipt, error) {
			return &domain.Receipt{ID: "rcpt_" + string(leg.Leg), Status: "completed"}, nil
		}).Times(2)
	f.intents.EXPECT().MarkCompleted(gomock.Any(), fund.ID, "rcpt_fund", gomock.Any()).Return(nil)
	f.intents.EXPECT().MarkCompleted(gomock.Any(), release.ID, "rcpt_release", gomock.Any()).Return(nil)
	f.orders.EXPECT().UpdateStatus(gomock.Any(), fund.OrderID, domain.OrderStatusPaidEscrow, gomock.Any()).Return(nil)
	f.orders.EXPECT().UpdateStatus(gomock.Any(), release.OrderID, domain.OrderStatusReleased, gomock.Any()).Return(nil)

	resumed, err := f.resumer.ResumeStuck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resumed)

	events := f.audit.Snapshot()
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, domain.AuditSettlementResumed, ev.Action)
		assert.Equal(t, "reconciler", ev.Actor)
	}
}

func TestResumeStuck_NothingPending(t *testing.T) {
	f := newResumerFixture(t)

	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).Return(nil, nil)

	resumed, err := f.resumer.ResumeStuck(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resumed)
	assert.Empty(t, f.audit.Snapshot())
}

func TestResumeStuck_OneFailureDoesNotBlockRest(t *testing.T) {
	f := newResumerFixture(t)
	broken := stuckIntent(domain.LegFund)
	healthy := stuckIntent(domain.LegRefund)

	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).
		Return([]domain.SettlementIntent{broken, healthy}, nil)
	f.orders.EXPECT().GetByID(gomock.Any(), broken.OrderID).
		Return(orderForIntent(broken, domain.OrderStatusCreated), nil)
	f.orders.EXPECT().GetByID(gomock.Any(), healthy.OrderID).
		Return(orderForIntent(healthy, domain.OrderStatusDisputed), nil)
	gomock.InOrder(
		f.legs.EXPECT().ExecuteLeg(gomock.Any(), gomock.Any()).
			Return(nil, apperror.ErrUpstreamUnavailable("Ledger", errors.New("timeout"))),
		f.legs.EXPECT().ExecuteLeg(gomock.Any(), gomock.Any()).
			Return(&domain.Receipt{ID: "rcpt_ok", Status: "completed"}, nil),
	)
	f.intents.EXPECT().MarkCompleted(gomock.Any(), healthy.ID, "rcpt_ok", gomock.Any()).Return(nil)
	f.orders.EXPECT().UpdateStatus(gomock.Any(), healthy.OrderID, domain.OrderStatusRefunded, gomock.Any()).Return(nil)

	resumed, err := f.resumer.ResumeStuck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)
	require.Len(t, f.audit.Snapshot(), 1)
	assert.Equal(t, healthy.ID.String(), f.audit.Snapshot()[0].Attributes["intent_id"])
}

func TestResumeStuck_ListError(t *testing.T) {
	f := newResumerFixture(t)

	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := f.resumer.ResumeStuck(context.Background())
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.ErrStoreError(nil).Code, appErr.Code)
}

func TestResumeStuck_BookkeepingFailuresStillCountResumed(t *testing.T) {
	f := newResumerFixture(t)
	intent := stuckIntent(domain.LegFund)

	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).
		Return([]domain.SettlementIntent{intent}, nil)
	f.orders.EXPECT().GetByID(gomock.Any(), intent.OrderID).
		Return(orderForIntent(intent, domain.OrderStatusCreated), nil)
	f.legs.EXPECT().ExecuteLeg(gomock.Any(), gomock.Any()).
		Return(&domain.Receipt{ID: "rcpt_1", Status: "completed"}, nil)
	f.intents.EXPECT().MarkCompleted(gomock.Any(), intent.ID, "rcpt_1", gomock.Any()).
		Return(errors.New("write failed"))
	f.orders.EXPECT().UpdateStatus(gomock.Any(), intent.OrderID, domain.OrderStatusPaidEscrow, gomock.Any()).
		Return(errors.New("write failed"))

	resumed, err := f.resumer.ResumeStuck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)
}

func TestResumeStuck_StaleReleaseOnRefundedOrderNeverPaysSeller(t *testing.T) {
	f := newResumerFixture(t)
	release := stuckIntent(domain.LegRelease)

	// The order was refunded after the release leg errored out. Re-driving
	// the leg now would pay the seller on top of the buyer's refund, so the
	// intent is closed as failed instead.
	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).
		Return([]domain.SettlementIntent{release}, nil)
	f.orders.EXPECT().GetByID(gomock.Any(), release.OrderID).
		Return(orderForIntent(release, domain.OrderStatusRefunded), nil)
	f.intents.EXPECT().MarkFailed(gomock.Any(), release.ID, gomock.Any()).Return(nil)

	resumed, err := f.resumer.ResumeStuck(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resumed)
	assert.Empty(t, f.audit.Snapshot())
}

func TestResumeStuck_OrderAlreadyAtTargetIsRedriven(t *testing.T) {
	f := newResumerFixture(t)
	fund := stuckIntent(domain.LegFund)

	// Crash after the order row was advanced but before the intent was
	// closed: the leg key makes the re-drive a no-op transfer replay.
	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).
		Return([]domain.SettlementIntent{fund}, nil)
	f.orders.EXPECT().GetByID(gomock.Any(), fund.OrderID).
		Return(orderForIntent(fund, domain.OrderStatusPaidEscrow), nil)
	f.legs.EXPECT().ExecuteLeg(gomock.Any(), gomock.Any()).
		Return(&domain.Receipt{ID: "rcpt_fund", Status: "completed"}, nil)
	f.intents.EXPECT().MarkCompleted(gomock.Any(), fund.ID, "rcpt_fund", gomock.Any()).Return(nil)
	f.orders.EXPECT().UpdateStatus(gomock.Any(), fund.OrderID, domain.OrderStatusPaidEscrow, gomock.Any()).Return(nil)

	resumed, err := f.resumer.ResumeStuck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resumed)
}

func TestResumeStuck_MissingOrderClosesIntent(t *testing.T) {
	f := newResumerFixture(t)
	fund := stuckIntent(domain.LegFund)

	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).
		Return([]domain.SettlementIntent{fund}, nil)
	f.orders.EXPECT().GetByID(gomock.Any(), fund.OrderID).Return(nil, nil)
	f.intents.EXPECT().MarkFailed(gomock.Any(), fund.ID, gomock.Any()).Return(nil)

	resumed, err := f.resumer.ResumeStuck(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resumed)
}

func TestResumeStuck_OrderLookupErrorKeepsIntentPending(t *testing.T) {
	f := newResumerFixture(t)
	fund := stuckIntent(domain.LegFund)

	f.intents.EXPECT().ListPending(gomock.Any(), gomock.Any()).
		Return([]domain.SettlementIntent{fund}, nil)
	f.orders.EXPECT().GetByID(gomock.Any(), fund.OrderID).
		Return(nil, errors.New("connection reset"))

	// No MarkFailed: a transient lookup error must not close the intent.
	resumed, err := f.resumer.ResumeStuck(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resumed)
}

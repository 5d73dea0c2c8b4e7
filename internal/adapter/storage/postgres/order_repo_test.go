package postgres

import (
	"context"
	"testing"
	"time"

	"escrow-settlement-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder() *domain.EscrowOrder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.EscrowOrder{
		ID:                uuid.New(),
		Domain:            "building",
		BuyerWallet:       "w_buyer",
		SellerWallet:      "w_seller",
		AmountMinor:       12500,
		Currency:          "USD",
		Status:            domain.OrderStatusCreated,
		LinkedShipmentRef: "",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func orderColumns() []string {
	return []string{"id", "domain", "buyer_wallet", "seller_wallet", "amount_minor",
		"currency", "status", "linked_shipment_ref", "created_at", "updated_at"}
}

func orderRow(o *domain.EscrowOrder) *pgxmock.Rows {
	return pgxmock.NewRows(orderColumns()).AddRow(
		o.ID, o.Domain, o.BuyerWallet, o.SellerWallet, o.AmountMinor,
		o.Currency, o.Status, o.LinkedShipmentRef, o.CreatedAt, o.UpdatedAt,
	)
}

func TestOrderRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder()

	mock.ExpectExec("INSERT INTO escrow_orders").
		WithArgs(o.ID, o.Domain, o.BuyerWallet, o.SellerWallet, o.AmountMinor,
			o.Currency, o.Status, o.LinkedShipmentRef, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder()

	mock.ExpectQuery("SELECT .+ FROM escrow_orders WHERE id").
		WithArgs(o.ID).
		WillReturnRows(orderRow(o))

	result, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, o.ID, result.ID)
	assert.Equal(t, o.Status, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM escrow_orders WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(orderColumns()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	o := newTestOrder()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectExec("UPDATE escrow_orders SET status").
		WithArgs(domain.OrderStatusPaidEscrow, now, o.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateStatus(context.Background(), o.ID, domain.OrderStatusPaidEscrow, now)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectExec("UPDATE escrow_orders SET status").
		WithArgs(domain.OrderStatusReleased, now, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), id, domain.OrderStatusReleased, now)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an escrow order.
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusPaidEscrow OrderStatus = "paid_escrow"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusDisputed   OrderStatus = "disputed"
	OrderStatusReleased   OrderStatus = "released"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// Transitions maps each reachable target status to the set of statuses it
// may be entered from. A target absent from the table cannot be entered at
// all through a status-change request.
type Transitions map[string][]string

// Allowed reports whether a machine in `current` may enter `target`.
func (t Transitions) Allowed(current, target string) bool {
	for _, from := range t[target] {
		if from == current {
			return true
		}
	}
	return false
}

// escrowTransitions is the allowed-from table for marketplace escrow
// orders. Funding (created -> paid_escrow) happens through order creation,
// never through a status-change request.
var escrowTransitions = Transitions{
	string(OrderStatusShipped):   {string(OrderStatusPaidEscrow)},
	string(OrderStatusDelivered): {string(OrderStatusPaidEscrow), string(OrderStatusShipped)},
	string(OrderStatusDisputed):  {string(OrderStatusPaidEscrow), string(OrderStatusShipped), string(OrderStatusDelivered)},
	string(OrderStatusReleased):  {string(OrderStatusDelivered)},
	string(OrderStatusRefunded):  {string(OrderStatusPaidEscrow), string(OrderStatusShipped), string(OrderStatusDisputed)},
}

// CanTransitionTo reports whether an order currently in s may enter target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return escrowTransitions.Allowed(string(s), string(target))
}

// Valid reports whether s is a member of the canonical status set.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaidEscrow, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusDisputed, OrderStatusReleased,
		OrderStatusRefunded:
		return true
	}
	return false
}

// EscrowOrder is an order whose funds sit in the escrow wallet between
// payment and a release or refund decision.
type EscrowOrder struct {
	ID                uuid.UUID   `json:"id"`
	Domain            string      `json:"domain"` // goods, food, ride, freight
	BuyerWallet       string      `json:"buyer_wallet"`
	SellerWallet      string      `json:"seller_wallet"`
	AmountMinor       int64       `json:"amount_minor"`
	Currency          string      `json:"currency"`
	Status            OrderStatus `json:"status"`
	LinkedShipmentRef string      `json:"linked_shipment_ref,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// IsTerminal returns true if the order is in a final state.
func (o *EscrowOrder) IsTerminal() bool {
	return o.Status == OrderStatusReleased || o.Status == OrderStatusRefunded
}

// RideStatus is the smaller machine used by the ride-hailing domain. It
// follows the same transition-table pattern as escrow orders but carries
// no settlement coupling.
type RideStatus string

const (
	RideStatusRequested  RideStatus = "requested"
	RideStatusAssigned   RideStatus = "assigned"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCanceled   RideStatus = "canceled"
)

var rideTransitions = Transitions{
	string(RideStatusAssigned):   {string(RideStatusRequested)},
	string(RideStatusInProgress): {string(RideStatusAssigned)},
	string(RideStatusCompleted):  {string(RideStatusInProgress)},
	string(RideStatusCanceled):   {string(RideStatusRequested), string(RideStatusAssigned)},
}

// CanTransitionTo reports whether a ride currently in s may enter target.
func (s RideStatus) CanTransitionTo(target RideStatus) bool {
	return rideTransitions.Allowed(string(s), string(target))
}

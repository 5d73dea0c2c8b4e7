package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TransferRequest describes one requested ledger movement. Amount can be
// given either as integer minor units or as a major-unit decimal string
// (e.g. "12.50"); the executor normalizes to minor units before anything
// else happens.
type TransferRequest struct {
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	FromWallet     string `json:"from_wallet"`
	ToWallet       string `json:"to_wallet"`
	AmountMinor    int64  `json:"amount_minor,omitempty"`
	AmountMajor    string `json:"amount,omitempty"`
	Currency       string `json:"currency"`
	Reference      string `json:"reference"`
	DeviceID       string `json:"-"`
	ClientIP       string `json:"-"`
}

// Fingerprint returns a stable hash of the request payload, excluding the
// idempotency key itself. Two requests with the same key must carry the
// same fingerprint to be treated as retries of one operation.
func (r *TransferRequest) Fingerprint() string {
	canonical := strings.Join([]string{
		r.FromWallet,
		r.ToWallet,
		fmt.Sprintf("%d", r.AmountMinor),
		r.AmountMajor,
		r.Currency,
		r.Reference,
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Receipt is the ledger's acknowledgment of a completed transfer.
type Receipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// WalletInfo is the ledger's view of a wallet.
type WalletInfo struct {
	BalanceMinor int64  `json:"balance_minor"`
	Currency     string `json:"currency"`
}

// ShipmentInfo is the freight collaborator's view of a shipment.
type ShipmentInfo struct {
	Ref    string `json:"ref"`
	Status string `json:"status"`
}

// ShipmentStatusDelivered is the externally-reported status required
// before a linked order may be released.
const ShipmentStatusDelivered = "delivered"

// SettlementLeg names one atomic ledger transfer within an escrow flow.
type SettlementLeg string

const (
	LegFund    SettlementLeg = "fund"    // buyer -> escrow
	LegRelease SettlementLeg = "release" // escrow -> seller
	LegRefund  SettlementLeg = "refund"  // escrow -> buyer
)

// LegKey derives the stable idempotency key for a settlement leg. The key
// only depends on the order and the leg, so a retried settlement can never
// double-move money.
func LegKey(domain string, orderID uuid.UUID, leg SettlementLeg, amountMinor int64) string {
	return fmt.Sprintf("escrow:%s:%s:%s:%d", domain, orderID, leg, amountMinor)
}

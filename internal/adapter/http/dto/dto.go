package dto

// TransferRequest is the request body for a guarded ledger transfer.
// Exactly one of amount_minor and amount must be set; amount is a
// decimal string in major units.
type TransferRequest struct {
	FromWallet  string `json:"from_wallet" binding:"required,safe_id"`
	ToWallet    string `json:"to_wallet" binding:"required,safe_id"`
	AmountMinor int64  `json:"amount_minor,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Currency    string `json:"currency" binding:"required,len=3"`
	Reference   string `json:"reference,omitempty"`
}

// TransferResponse is the response body for a completed transfer.
type TransferResponse struct {
	ReceiptID string `json:"receipt_id"`
	Status    string `json:"status"`
}

// CreateOrderRequest is the request body for escrow order creation.
type CreateOrderRequest struct {
	Domain            string `json:"domain" binding:"required,safe_id"`
	BuyerWallet       string `json:"buyer_wallet" binding:"required,safe_id"`
	SellerWallet      string `json:"seller_wallet" binding:"required,safe_id"`
	AmountMinor       int64  `json:"amount_minor" binding:"required,gt=0"`
	Currency          string `json:"currency" binding:"required,len=3"`
	LinkedShipmentRef string `json:"linked_shipment_ref,omitempty"`
}

// SetOrderStatusRequest is the request body for an order transition.
type SetOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderResponse is the response body for escrow order results.
type OrderResponse struct {
	ID                string `json:"id"`
	Domain            string `json:"domain"`
	BuyerWallet       string `json:"buyer_wallet"`
	SellerWallet      string `json:"seller_wallet"`
	AmountMinor       int64  `json:"amount_minor"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	LinkedShipmentRef string `json:"linked_shipment_ref,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// GuardrailCheckRequest is the request body for a dry-run guardrail
// evaluation.
type GuardrailCheckRequest struct {
	WalletID    string `json:"wallet_id" binding:"required,safe_id"`
	DeviceID    string `json:"device_id,omitempty"`
	AmountMinor int64  `json:"amount_minor" binding:"required,gt=0"`
}

// GuardrailCheckResponse reports the pipeline verdict.
type GuardrailCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// AuditEventResponse is one guardrail decision on the admin dashboard.
type AuditEventResponse struct {
	TS         string            `json:"ts"`
	Actor      string            `json:"actor"`
	Action     string            `json:"action"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// DenylistRequest adds or removes a denylist entry.
type DenylistRequest struct {
	Kind  string `json:"kind" binding:"required,oneof=wallet device ip"`
	Value string `json:"value" binding:"required"`
}

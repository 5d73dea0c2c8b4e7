package domain

import "time"

// Audit action names. Guardrail rejections carry the breached rule in the
// action itself so the ops dashboard can filter on the "guardrail" infix.
const (
	AuditGuardrailPass           = "pay_guardrails_pass"
	AuditDenylistGuardrail       = "pay_denylist_guardrail"
	AuditAmountGuardrail         = "pay_amount_guardrail"
	AuditVelocityGuardrailWallet = "pay_velocity_guardrail_wallet"
	AuditVelocityGuardrailDevice = "pay_velocity_guardrail_device"
	AuditOrderCreated            = "order_created"
	AuditOrderStatusChanged      = "order_status_changed"
	AuditSettlementResumed       = "settlement_resumed"
)

// AuditEvent records one guarded decision. Events live in a bounded ring
// buffer; appending never fails and the oldest events are evicted first.
type AuditEvent struct {
	TS         time.Time         `json:"ts"`
	Actor      string            `json:"actor"`
	Action     string            `json:"action"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

package service

import (
	"context"
	"strconv"
	"time"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// GuardrailConfig holds the policy caps. A zero cap disables its rule.
type GuardrailConfig struct {
	MaxPerTxnMinor       int64
	WalletVelocityLimit  int
	WalletVelocityWindow time.Duration
	DeviceVelocityLimit  int
	DeviceVelocityWindow time.Duration
}

// GuardrailService runs the ordered anti-fraud pipeline: denylist, amount
// cap, per-wallet velocity, per-device velocity. Any stage may reject and
// short-circuits the rest. A velocity counter advances only for subjects
// whose own check passed before any later stage failed.
type GuardrailService struct {
	denylist  ports.DenylistStore
	walletVel ports.VelocityStore
	deviceVel ports.VelocityStore
	audit     ports.AuditSink
	cfg       GuardrailConfig
	log       zerolog.Logger
}

// NewGuardrailService creates a new guardrail evaluator.
func NewGuardrailService(
	denylist ports.DenylistStore,
	walletVel ports.VelocityStore,
	deviceVel ports.VelocityStore,
	audit ports.AuditSink,
	cfg GuardrailConfig,
	log zerolog.Logger,
) *GuardrailService {
	return &GuardrailService{
		denylist:  denylist,
		walletVel: walletVel,
		deviceVel: deviceVel,
		audit:     audit,
		cfg:       cfg,
		log:       log,
	}
}

// Check evaluates the pipeline for one guarded operation. A nil return
// allows it. Bookkeeping failures never fail the guarded operation; a
// reject verdict is always a hard stop. Every decision writes exactly one
// audit event.
func (s *GuardrailService) Check(ctx context.Context, chk ports.GuardrailCheck) error {
	// Stage 1: denylist.
	for _, sub := range []struct {
		kind  domain.DenylistKind
		value string
	}{
		{domain.DenyWallet, chk.WalletID},
		{domain.DenyDevice, chk.DeviceID},
		{domain.DenyIP, chk.ClientIP},
	} {
		if sub.value == "" {
			continue
		}
		denied, err := s.denylist.IsDenied(ctx, sub.kind, sub.value)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", string(sub.kind)).Msg("denylist lookup failed, skipping")
			continue
		}
		if denied {
			s.reject(chk, domain.AuditDenylistGuardrail, map[string]string{"kind": string(sub.kind)})
			return apperror.ErrPolicyViolation(string(sub.kind))
		}
	}

	// Stage 2: max amount per transaction.
	if s.cfg.MaxPerTxnMinor > 0 && chk.AmountMinor > s.cfg.MaxPerTxnMinor {
		s.reject(chk, domain.AuditAmountGuardrail, map[string]string{
			"cap_minor": strconv.FormatInt(s.cfg.MaxPerTxnMinor, 10),
		})
		return apperror.ErrAmountExceeded()
	}

	// Stage 3: per-wallet velocity. A passing wallet is counted even if
	// the device stage rejects afterwards; the rejected event itself is
	// never counted.
	if chk.WalletID != "" && s.cfg.WalletVelocityLimit > 0 {
		allowed, err := s.walletVel.Advance(ctx, chk.WalletID, s.cfg.WalletVelocityLimit, s.cfg.WalletVelocityWindow)
		if err != nil {
			s.log.Warn().Err(err).Str("wallet", chk.WalletID).Msg("wallet velocity bookkeeping failed, skipping")
		} else if !allowed {
			s.reject(chk, domain.AuditVelocityGuardrailWallet, map[string]string{
				"window": s.cfg.WalletVelocityWindow.String(),
			})
			return apperror.ErrVelocityExceeded("wallet")
		}
	}

	// Stage 4: per-device velocity.
	if chk.DeviceID != "" && s.cfg.DeviceVelocityLimit > 0 {
		allowed, err := s.deviceVel.Advance(ctx, chk.DeviceID, s.cfg.DeviceVelocityLimit, s.cfg.DeviceVelocityWindow)
		if err != nil {
			s.log.Warn().Err(err).Str("device", chk.DeviceID).Msg("device velocity bookkeeping failed, skipping")
		} else if !allowed {
			s.reject(chk, domain.AuditVelocityGuardrailDevice, map[string]string{
				"window": s.cfg.DeviceVelocityWindow.String(),
			})
			return apperror.ErrVelocityExceeded("device")
		}
	}

	s.audit.Append(domain.AuditEvent{
		Actor:      chk.Actor,
		Action:     domain.AuditGuardrailPass,
		Attributes: s.attributes(chk, nil),
	})
	return nil
}

func (s *GuardrailService) reject(chk ports.GuardrailCheck, action string, extra map[string]string) {
	s.audit.Append(domain.AuditEvent{
		Actor:      chk.Actor,
		Action:     action,
		Attributes: s.attributes(chk, extra),
	})
}

func (s *GuardrailService) attributes(chk ports.GuardrailCheck, extra map[string]string) map[string]string {
	attrs := map[string]string{
		"amount_minor": strconv.FormatInt(chk.AmountMinor, 10),
	}
	if chk.WalletID != "" {
		attrs["wallet_id"] = chk.WalletID
	}
	if chk.DeviceID != "" {
		attrs["device_id"] = chk.DeviceID
	}
	if chk.ClientIP != "" {
		attrs["ip"] = chk.ClientIP
	}
	for k, v := range extra {
		attrs[k] = v
	}
	return attrs
}

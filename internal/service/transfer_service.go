package service

import (
	"context"
	"encoding/json"
	"fmt"

	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// TransferServiceImpl normalizes amounts, runs guardrails and delegates
// the actual ledger call through the idempotency guard, at most once per
// distinct key.
type TransferServiceImpl struct {
	ledger     ports.LedgerService
	guard      *IdempotencyGuard
	guardrails ports.GuardrailEvaluator
	log        zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	ledger ports.LedgerService,
	guard *IdempotencyGuard,
	guardrails ports.GuardrailEvaluator,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		ledger:     ledger,
		guard:      guard,
		guardrails: guardrails,
		log:        log,
	}
}

// Transfer executes one guarded wallet-to-wallet transfer.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Receipt, error) {
	amount, err := NormalizeAmount(req.AmountMinor, req.AmountMajor, req.Currency)
	if err != nil {
		return nil, err
	}
	req.AmountMinor = amount
	req.AmountMajor = ""

	if req.FromWallet == "" || req.ToWallet == "" {
		return nil, apperror.Validation("from_wallet and to_wallet are required")
	}
	if req.FromWallet == req.ToWallet {
		return nil, apperror.Validation("from_wallet and to_wallet must differ")
	}

	if err := s.guardrails.Check(ctx, ports.GuardrailCheck{
		WalletID:    req.FromWallet,
		DeviceID:    req.DeviceID,
		ClientIP:    req.ClientIP,
		AmountMinor: req.AmountMinor,
		Actor:       req.FromWallet,
	}); err != nil {
		return nil, err
	}

	receipt, err := s.execute(ctx, req.IdempotencyKey, req.Fingerprint(), ports.LedgerTransfer{
		FromWallet:     req.FromWallet,
		ToWallet:       req.ToWallet,
		AmountMinor:    req.AmountMinor,
		Currency:       req.Currency,
		Reference:      req.Reference,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("receipt_id", receipt.ID).
		Str("from", req.FromWallet).
		Str("to", req.ToWallet).
		Int64("amount_minor", req.AmountMinor).
		Msg("transfer executed")
	return receipt, nil
}

// ExecuteLeg runs one settlement leg of an escrow flow under its derived,
// stable idempotency key. Legs carry no caller device and skip the
// guardrail pipeline; guardrails gate the user-facing operation that led
// here.
func (s *TransferServiceImpl) ExecuteLeg(ctx context.Context, leg ports.LegRequest) (*domain.Receipt, error) {
	if leg.AmountMinor <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	key := domain.LegKey(leg.Domain, leg.OrderID, leg.Leg, leg.AmountMinor)
	fingerprint := (&domain.TransferRequest{
		FromWallet:  leg.FromWallet,
		ToWallet:    leg.ToWallet,
		AmountMinor: leg.AmountMinor,
		Currency:    leg.Currency,
		Reference:   key,
	}).Fingerprint()

	receipt, err := s.execute(ctx, key, fingerprint, ports.LedgerTransfer{
		FromWallet:     leg.FromWallet,
		ToWallet:       leg.ToWallet,
		AmountMinor:    leg.AmountMinor,
		Currency:       leg.Currency,
		Reference:      key,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("receipt_id", receipt.ID).
		Str("leg", string(leg.Leg)).
		Str("order_id", leg.OrderID.String()).
		Int64("amount_minor", leg.AmountMinor).
		Msg("settlement leg executed")
	return receipt, nil
}

// execute wraps the ledger round-trip in the idempotency guard. No lock
// is held across the remote call.
func (s *TransferServiceImpl) execute(ctx context.Context, key, fingerprint string, lt ports.LedgerTransfer) (*domain.Receipt, error) {
	raw, err := s.guard.Execute(ctx, key, fingerprint, func(ctx context.Context) ([]byte, error) {
		receipt, err := s.ledger.Transfer(ctx, lt)
		if err != nil {
			return nil, err
		}
		return json.Marshal(receipt)
	})
	if err != nil {
		return nil, err
	}

	receipt := &domain.Receipt{}
	if err := json.Unmarshal(raw, receipt); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal stored receipt: %w", err))
	}
	return receipt, nil
}

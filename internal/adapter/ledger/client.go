// Package ledger is the HTTP client for the external Ledger Service,
// the only component allowed to move money between wallets.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"escrow-settlement-engine/config"
	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// Client implements ports.LedgerService over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a ledger client from config.
func NewClient(cfg config.LedgerConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "ledger_client").Logger(),
	}
}

type transferPayload struct {
	FromWallet  string `json:"from_wallet"`
	ToWallet    string `json:"to_wallet"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference,omitempty"`
}

// Transfer posts one atomic wallet-to-wallet movement. The idempotency
// key travels in the Idempotency-Key header so the ledger can dedupe
// retries on its side too.
func (c *Client) Transfer(ctx context.Context, req ports.LedgerTransfer) (*domain.Receipt, error) {
	body, err := json.Marshal(transferPayload{
		FromWallet:  req.FromWallet,
		ToWallet:    req.ToWallet,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Reference:   req.Reference,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal transfer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfer", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build transfer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable("Ledger", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Str("from_wallet", req.FromWallet).
		Str("to_wallet", req.ToWallet).
		Msg("ledger transfer response")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperror.ErrUpstreamUnavailable("Ledger",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)))
	}

	var receipt domain.Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, apperror.ErrUpstreamUnavailable("Ledger", fmt.Errorf("decode receipt: %w", err))
	}
	return &receipt, nil
}

// GetWallet fetches the ledger's view of a wallet.
func (c *Client) GetWallet(ctx context.Context, id string) (*domain.WalletInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/wallets/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("build wallet request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable("Ledger", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.ErrNotFound("wallet")
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperror.ErrUpstreamUnavailable("Ledger",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)))
	}

	var info domain.WalletInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperror.ErrUpstreamUnavailable("Ledger", fmt.Errorf("decode wallet: %w", err))
	}
	return &info, nil
}

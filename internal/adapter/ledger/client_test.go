package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"escrow-settlement-engine/config"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.LedgerConfig{BaseURL: baseURL, Timeout: time.Second}, zerolog.Nop())
}

func TestClient_Transfer(t *testing.T) {
	var gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transfer", r.URL.Path)
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "rcpt_1", "status": "completed"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	receipt, err := c.Transfer(context.Background(), ports.LedgerTransfer{
		FromWallet:     "w_a",
		ToWallet:       "w_b",
		AmountMinor:    1500,
		Currency:       "USD",
		IdempotencyKey: "key-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "rcpt_1", receipt.ID)
	assert.Equal(t, "completed", receipt.Status)
	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, "w_a", gotBody["from_wallet"])
	assert.Equal(t, float64(1500), gotBody["amount_minor"])
}

func TestClient_Transfer_NoKeyHeaderWhenEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Values("Idempotency-Key"))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "rcpt_2", "status": "completed"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Transfer(context.Background(), ports.LedgerTransfer{
		FromWallet: "w_a", ToWallet: "w_b", AmountMinor: 1, Currency: "USD",
	})
	require.NoError(t, err)
}

func TestClient_Transfer_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ledger down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Transfer(context.Background(), ports.LedgerTransfer{
		FromWallet: "w_a", ToWallet: "w_b", AmountMinor: 1, Currency: "USD",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "UPS_001", appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
}

func TestClient_Transfer_ConnectionRefused(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	_, err := c.Transfer(context.Background(), ports.LedgerTransfer{
		FromWallet: "w_a", ToWallet: "w_b", AmountMinor: 1, Currency: "USD",
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "UPS_001", appErr.Code)
}

func TestClient_GetWallet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wallets/w_a", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"balance_minor": 9000, "currency": "USD"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	info, err := c.GetWallet(context.Background(), "w_a")
	require.NoError(t, err)
	assert.Equal(t, int64(9000), info.BalanceMinor)
	assert.Equal(t, "USD", info.Currency)
}

func TestClient_GetWallet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GetWallet(context.Background(), "missing")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

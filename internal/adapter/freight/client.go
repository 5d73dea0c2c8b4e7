// Package freight is the HTTP client for the Freight Service that
// tracks shipments linked to escrow orders.
package freight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"escrow-settlement-engine/config"
	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// Client implements ports.FreightService over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a freight client from config.
func NewClient(cfg config.FreightConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "freight_client").Logger(),
	}
}

// GetShipment fetches the current status of a shipment by reference.
func (c *Client) GetShipment(ctx context.Context, ref string) (*domain.ShipmentInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/shipments/"+ref, nil)
	if err != nil {
		return nil, fmt.Errorf("build shipment request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.ErrUpstreamUnavailable("Freight", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.ErrNotFound("shipment")
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperror.ErrUpstreamUnavailable("Freight",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)))
	}

	var info domain.ShipmentInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperror.ErrUpstreamUnavailable("Freight", fmt.Errorf("decode shipment: %w", err))
	}
	return &info, nil
}

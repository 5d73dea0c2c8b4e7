package handler

import (
	"escrow-settlement-engine/internal/adapter/http/dto"
	"escrow-settlement-engine/internal/adapter/http/middleware"
	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"
	"escrow-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey names the header that makes a transfer retryable.
const HeaderIdempotencyKey = "Idempotency-Key"

// TransferHandler handles guarded ledger transfers.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Transfer handles POST /api/v1/transfers.
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	receipt, err := h.transferSvc.Transfer(c.Request.Context(), domain.TransferRequest{
		IdempotencyKey: c.GetHeader(HeaderIdempotencyKey),
		FromWallet:     req.FromWallet,
		ToWallet:       req.ToWallet,
		AmountMinor:    req.AmountMinor,
		AmountMajor:    req.Amount,
		Currency:       req.Currency,
		Reference:      req.Reference,
		DeviceID:       c.GetHeader(middleware.HeaderDeviceID),
		ClientIP:       c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TransferResponse{
		ReceiptID: receipt.ID,
		Status:    receipt.Status,
	})
}

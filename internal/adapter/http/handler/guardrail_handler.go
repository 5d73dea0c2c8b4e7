package handler

import (
	"errors"

	"escrow-settlement-engine/internal/adapter/http/dto"
	"escrow-settlement-engine/internal/adapter/http/middleware"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"
	"escrow-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// GuardrailHandler exposes the guardrail pipeline as a standalone check.
type GuardrailHandler struct {
	guardrails ports.GuardrailEvaluator
}

// NewGuardrailHandler creates a new GuardrailHandler.
func NewGuardrailHandler(guardrails ports.GuardrailEvaluator) *GuardrailHandler {
	return &GuardrailHandler{guardrails: guardrails}
}

// Check handles POST /api/v1/guardrails/check. A rejected check is a
// successful evaluation: the verdict comes back in the body, not as an
// error status.
func (h *GuardrailHandler) Check(c *gin.Context) {
	var req dto.GuardrailCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	// Device identity is optional; an absent device simply skips the
	// device-scoped stages.
	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = c.GetHeader(middleware.HeaderDeviceID)
	}

	err := h.guardrails.Check(c.Request.Context(), ports.GuardrailCheck{
		WalletID:    req.WalletID,
		DeviceID:    deviceID,
		ClientIP:    c.ClientIP(),
		AmountMinor: req.AmountMinor,
		Actor:       middleware.IdentityFrom(c).SubjectID,
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
			response.OK(c, dto.GuardrailCheckResponse{
				Allowed: false,
				Code:    appErr.Code,
				Reason:  appErr.Message,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, dto.GuardrailCheckResponse{Allowed: true})
}

package handler

import (
	"time"

	"escrow-settlement-engine/internal/adapter/http/dto"
	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/internal/service"
	"escrow-settlement-engine/pkg/apperror"
	"escrow-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the ops dashboard: guardrail decision history and
// denylist management.
type AdminHandler struct {
	audit    *service.AuditRing
	denylist ports.DenylistStore
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(audit *service.AuditRing, denylist ports.DenylistStore) *AdminHandler {
	return &AdminHandler{audit: audit, denylist: denylist}
}

// GuardrailEvents handles GET /api/v1/admin/guardrails.
func (h *AdminHandler) GuardrailEvents(c *gin.Context) {
	events := h.audit.GuardrailEvents()

	out := make([]dto.AuditEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.AuditEventResponse{
			TS:         ev.TS.Format(time.RFC3339),
			Actor:      ev.Actor,
			Action:     ev.Action,
			Attributes: ev.Attributes,
		})
	}

	response.OK(c, gin.H{"events": out, "count": len(out)})
}

// AddDenylistEntry handles POST /api/v1/admin/denylist.
func (h *AdminHandler) AddDenylistEntry(c *gin.Context) {
	var req dto.DenylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	entry := domain.DenylistEntry{Kind: domain.DenylistKind(req.Kind), Value: req.Value}
	if err := h.denylist.Add(c.Request.Context(), entry); err != nil {
		response.Error(c, apperror.ErrStoreError(err))
		return
	}

	response.Created(c, gin.H{"kind": req.Kind, "value": req.Value})
}

// RemoveDenylistEntry handles DELETE /api/v1/admin/denylist.
func (h *AdminHandler) RemoveDenylistEntry(c *gin.Context) {
	var req dto.DenylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	entry := domain.DenylistEntry{Kind: domain.DenylistKind(req.Kind), Value: req.Value}
	if err := h.denylist.Remove(c.Request.Context(), entry); err != nil {
		response.Error(c, apperror.ErrStoreError(err))
		return
	}

	response.OK(c, gin.H{"kind": req.Kind, "value": req.Value})
}

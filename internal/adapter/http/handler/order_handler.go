package handler

import (
	"time"

	"escrow-settlement-engine/internal/adapter/http/dto"
	"escrow-settlement-engine/internal/adapter/http/middleware"
	"escrow-settlement-engine/internal/core/domain"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/pkg/apperror"
	"escrow-settlement-engine/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles escrow order endpoints.
type OrderHandler struct {
	orderSvc ports.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc ports.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// CreateOrder handles POST /api/v1/orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	order, err := h.orderSvc.CreateOrder(c.Request.Context(), ports.CreateOrderRequest{
		IdempotencyKey:    c.GetHeader(HeaderIdempotencyKey),
		Domain:            req.Domain,
		BuyerWallet:       req.BuyerWallet,
		SellerWallet:      req.SellerWallet,
		AmountMinor:       req.AmountMinor,
		Currency:          req.Currency,
		LinkedShipmentRef: req.LinkedShipmentRef,
		DeviceID:          c.GetHeader(middleware.HeaderDeviceID),
		ClientIP:          c.ClientIP(),
	}, middleware.IdentityFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toOrderResponse(order))
}

// SetStatus handles POST /api/v1/orders/:id/status.
func (h *OrderHandler) SetStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid order id"))
		return
	}

	var req dto.SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	target := domain.OrderStatus(req.Status)
	if !target.Valid() {
		response.Error(c, apperror.Validation("unknown order status"))
		return
	}

	order, err := h.orderSvc.SetOrderStatus(c.Request.Context(), orderID, target, middleware.IdentityFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toOrderResponse(order))
}

// toOrderResponse converts domain.EscrowOrder to DTO.
func toOrderResponse(o *domain.EscrowOrder) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                o.ID.String(),
		Domain:            o.Domain,
		BuyerWallet:       o.BuyerWallet,
		SellerWallet:      o.SellerWallet,
		AmountMinor:       o.AmountMinor,
		Currency:          o.Currency,
		Status:            string(o.Status),
		LinkedShipmentRef: o.LinkedShipmentRef,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         o.UpdatedAt.Format(time.RFC3339),
	}
}

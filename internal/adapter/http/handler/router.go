package handler

import (
	"escrow-settlement-engine/internal/adapter/http/middleware"
	"escrow-settlement-engine/internal/core/ports"
	"escrow-settlement-engine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TransferSvc    ports.TransferService
	OrderSvc       ports.OrderService
	GuardrailSvc   ports.GuardrailEvaluator
	TokenSvc       ports.TokenService
	Audit          *service.AuditRing
	Denylist       ports.DenylistStore
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies every wired dependency)
	r.GET("/healthz", HealthCheck(deps.HealthCheckers...))

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	// API v1 routes
	v1 := r.Group("/api/v1", jwtAuth)

	transferHandler := NewTransferHandler(deps.TransferSvc)
	v1.POST("/transfers", transferHandler.Transfer)

	orderHandler := NewOrderHandler(deps.OrderSvc)
	orders := v1.Group("/orders")
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.POST("/:id/status", orderHandler.SetStatus)
	}

	guardrailHandler := NewGuardrailHandler(deps.GuardrailSvc)
	v1.POST("/guardrails/check", guardrailHandler.Check)

	// --- Admin routes ---
	adminHandler := NewAdminHandler(deps.Audit, deps.Denylist)
	admin := v1.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/guardrails", adminHandler.GuardrailEvents)
		admin.POST("/denylist", adminHandler.AddDenylistEntry)
		admin.DELETE("/denylist", adminHandler.RemoveDenylistEntry)
	}

	return r
}

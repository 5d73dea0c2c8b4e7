// Package response shapes every HTTP reply into a single envelope so
// clients can correlate calls by request id regardless of outcome.
package response

import (
	"errors"
	"net/http"
	"time"

	"escrow-settlement-engine/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the gin context key under which middleware may stash a
// request id; when absent one is minted per reply.
const CtxRequestID = "request_id"

// SuccessResponse wraps a payload together with correlation fields.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse carries a stable machine-readable code alongside the
// human message.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK writes the payload with status 200.
func OK(c *gin.Context, data interface{}) {
	writeData(c, http.StatusOK, data)
}

// Created writes the payload with status 201.
func Created(c *gin.Context, data interface{}) {
	writeData(c, http.StatusCreated, data)
}

// Error renders err as an ErrorResponse. An *apperror.AppError anywhere
// in the chain supplies the status and code; anything else is folded
// into the generic internal error so raw error text never leaks out.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.InternalError(err)
	}
	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		RequestID: requestID(c),
		Timestamp: stamp(),
	})
}

func writeData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: stamp(),
	})
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// requestID prefers an id set upstream, then the caller's X-Request-Id
// header, and mints one only as a last resort.
func requestID(c *gin.Context) string {
	if v, ok := c.Get(CtxRequestID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		if hdr := c.GetHeader("X-Request-Id"); hdr != "" {
			return hdr
		}
	}
	return uuid.New().String()
}

package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Identity & Access (AUTH) ----

func ErrUnauthorized() *AppError {
	return New("AUTH_001", "Missing or invalid identity", http.StatusUnauthorized)
}

func ErrForbidden(action string) *AppError {
	return New("AUTH_002", fmt.Sprintf("Not permitted to %s", action), http.StatusForbidden)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Validation (VAL) ----

func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", "Amount must be a positive number of minor units", http.StatusBadRequest)
}

// ---- Guardrails (GRD) ----

func ErrPolicyViolation(kind string) *AppError {
	return New("GRD_001", fmt.Sprintf("Subject is denylisted (%s)", kind), http.StatusForbidden)
}

func ErrAmountExceeded() *AppError {
	return New("GRD_002", "Amount exceeds the per-transaction cap", http.StatusForbidden)
}

func ErrVelocityExceeded(subject string) *AppError {
	return New("GRD_003", fmt.Sprintf("Velocity cap exceeded (%s)", subject), http.StatusTooManyRequests)
}

// ---- Orders & Settlement (SET) ----

func ErrInvalidTransition(from, to string) *AppError {
	return New("SET_001", fmt.Sprintf("Cannot transition order from %s to %s", from, to), http.StatusConflict)
}

func ErrShipmentNotDelivered(status string) *AppError {
	return New("SET_002", fmt.Sprintf("Linked shipment is %s, not delivered", status), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("SET_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrConflict() *AppError {
	return New("SET_004", "Idempotency key reused with a different payload", http.StatusConflict)
}

// ---- Upstream collaborators (UPS) ----

func ErrUpstreamUnavailable(service string, err error) *AppError {
	return Wrap("UPS_001", fmt.Sprintf("%s unavailable", service), http.StatusBadGateway, err)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrStoreError(err error) *AppError {
	return Wrap("SYS_002", "Internal store error", http.StatusInternalServerError, err)
}

package common

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors surfaced verbatim to handlers. Services wrap storage errors
// into these so callers can match with errors.Is / errors.As.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCart          = errors.New("cart must contain at least one line")
)

// InsufficientStockError aborts a checkout. ProductName identifies the
// offending line so the client can render a specific message.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q", e.ProductName)
}

// InvalidTransitionError is returned when a lifecycle operation is attempted
// against an order whose current status does not allow it.
type InvalidTransitionError struct {
	OrderID uuid.UUID
	From    string
	To      string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.OrderID, e.From, e.To)
}

// ValidationError rejects malformed input before any storage call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

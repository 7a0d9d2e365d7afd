package services

import (
	"errors"
	"fmt"

	"storefront-api/internal/domain"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSlideNotFound   = errors.New("hero slide not found")
	ErrPageNotFound    = errors.New("page not found")
	ErrNotOrderOwner   = errors.New("you are not authorized to cancel this order")
	ErrWrongCredential = errors.New("incorrect email or password")
	ErrEmailTaken      = errors.New("email already registered")
	ErrResetExpired    = errors.New("token is invalid or has expired")
	ErrAdminCart       = errors.New("admin accounts don't have shopping carts")
)

// ValidationError is a client-input failure with a field-specific message.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) ValidationError {
	return ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ProductNotFoundError identifies which item of a request failed to resolve.
type ProductNotFoundError struct {
	ProductID uint64
}

func (e ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// InsufficientStockError carries the conflicting values so the client can
// react (lower the quantity, drop the item).
type InsufficientStockError struct {
	ProductName string
	Available   int64
	Requested   int64
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s. Available: %d", e.ProductName, e.Available)
}

// InvalidTransitionError reports the attempted move and the allowed set.
type InvalidTransitionError struct {
	From    domain.OrderStatus
	To      domain.OrderStatus
	Allowed []domain.OrderStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

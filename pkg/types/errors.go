package types

import "errors"

// Domain errors for order validation
var (
	// ErrEmptyOrder is returned when an order has no line items
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidQuantity is returned for a non-positive line quantity
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrStateTransition is returned when an edit or delete is attempted
	// against an order whose status does not permit it
	ErrStateTransition = errors.New("operation not allowed in current order status")
)

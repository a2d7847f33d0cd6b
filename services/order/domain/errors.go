package domain

import "errors"

// Sentinel errors for orders. Use errors.Is() to check these.
var (
	// ErrOrderNotFound indicates the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidItemReference indicates a line names an item missing from the catalog.
	ErrInvalidItemReference = errors.New("invalid item reference")

	// ErrInvalidOrder indicates a create or update request broke an order rule.
	ErrInvalidOrder = errors.New("invalid order")
)

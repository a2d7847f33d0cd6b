package domain

import "errors"

// Sentinel errors for the catalog. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemAlreadyExists indicates another item already uses the name.
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrInvalidItem indicates a create request broke a catalog rule.
	ErrInvalidItem = errors.New("invalid item")
)

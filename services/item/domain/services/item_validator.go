// Package services contains stateless domain services for the catalog.
// They enforce business rules on domain types and depend on nothing outside
// the standard library and the domain layer.
package services

import (
	"errors"
	"fmt"
	"math"

	itemdomain "github.com/ghuser/orderserver/services/item/domain"
	"github.com/ghuser/orderserver/services/item/domain/models"
)

// CreateItemInput is a create request after transport decoding.
type CreateItemInput struct {
	Name        string
	Description string
	Price       float64
}

// ValidatePrice rejects negative and non-finite prices.
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return errors.New("price must be a finite number")
	}
	if price < 0 {
		return fmt.Errorf("price must not be negative (got %v)", price)
	}
	return nil
}

// ValidateCreateItem checks a create request and returns the validated name.
// Names are taken as given apart from the length bounds; uniqueness is
// exact. Every failure wraps ErrInvalidItem.
func ValidateCreateItem(in CreateItemInput) (models.ItemName, error) {
	name, err := models.NewItemName(in.Name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	if err := ValidatePrice(in.Price); err != nil {
		return "", fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}
	return name, nil
}

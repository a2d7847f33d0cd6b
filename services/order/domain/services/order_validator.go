// Package services contains stateless domain services for orders.
package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	orderdomain "github.com/ghuser/orderserver/services/order/domain"
	"github.com/ghuser/orderserver/services/order/domain/models"
)

const (
	maxCustomerFieldLen = 255
	// MaxQuantity is the largest quantity a line can store.
	MaxQuantity = math.MaxInt32
)

// CreateOrderInput is a create request after transport decoding. An empty
// Status means DefaultStatus.
type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail string
	Status        string
	Lines         []models.LineRequest
}

// PatchOrderInput is an update request after transport decoding. Nil fields
// were absent from the request.
type PatchOrderInput struct {
	CustomerName  *string
	CustomerEmail *string
	Status        *string
	Lines         *[]models.LineRequest
}

// ValidateCreateOrder checks a create request and returns the parsed status.
// Every failure wraps ErrInvalidOrder.
func ValidateCreateOrder(in CreateOrderInput) (models.Status, error) {
	if err := validateCustomerField("customer name", in.CustomerName); err != nil {
		return "", invalid(err)
	}
	if err := validateCustomerField("customer email", in.CustomerEmail); err != nil {
		return "", invalid(err)
	}

	status := models.DefaultStatus
	if in.Status != "" {
		st, err := models.ParseStatus(in.Status)
		if err != nil {
			return "", invalid(err)
		}
		status = st
	}

	if err := ValidateLines(in.Lines); err != nil {
		return "", invalid(err)
	}
	return status, nil
}

// ValidatePatch checks an update request and returns the patch to apply.
// Every failure wraps ErrInvalidOrder.
func ValidatePatch(in PatchOrderInput) (models.OrderPatch, error) {
	if in.CustomerName == nil && in.CustomerEmail == nil && in.Status == nil && in.Lines == nil {
		return models.OrderPatch{}, invalid(errors.New("update must change at least one field"))
	}

	var p models.OrderPatch
	if in.CustomerName != nil {
		if err := validateCustomerField("customer name", *in.CustomerName); err != nil {
			return models.OrderPatch{}, invalid(err)
		}
		p.CustomerName = in.CustomerName
	}
	if in.CustomerEmail != nil {
		if err := validateCustomerField("customer email", *in.CustomerEmail); err != nil {
			return models.OrderPatch{}, invalid(err)
		}
		p.CustomerEmail = in.CustomerEmail
	}
	if in.Status != nil {
		st, err := models.ParseStatus(*in.Status)
		if err != nil {
			return models.OrderPatch{}, invalid(err)
		}
		p.Status = &st
	}
	if in.Lines != nil {
		if err := ValidateLines(*in.Lines); err != nil {
			return models.OrderPatch{}, invalid(err)
		}
		p.Lines = *in.Lines
	}
	return p, nil
}

// ValidateLines requires at least one line, positive item ids, quantities
// in 1..MaxQuantity, and no item named twice.
func ValidateLines(lines []models.LineRequest) error {
	if len(lines) == 0 {
		return errors.New("order must have at least one line")
	}
	seen := make(map[int64]struct{}, len(lines))
	for i, l := range lines {
		if l.ItemID <= 0 {
			return fmt.Errorf("line %d: item id must be positive (got %d)", i, l.ItemID)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("line %d: quantity must be positive (got %d)", i, l.Quantity)
		}
		if l.Quantity > MaxQuantity {
			return fmt.Errorf("line %d: quantity must be at most %d (got %d)", i, MaxQuantity, l.Quantity)
		}
		if _, dup := seen[l.ItemID]; dup {
			return fmt.Errorf("line %d: item %d appears more than once", i, l.ItemID)
		}
		seen[l.ItemID] = struct{}{}
	}
	return nil
}

func validateCustomerField(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if utf8.RuneCountInString(v) > maxCustomerFieldLen {
		return fmt.Errorf("%s must be at most %d characters", field, maxCustomerFieldLen)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", orderdomain.ErrInvalidOrder, err)
}

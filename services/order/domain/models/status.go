package models

import (
	"fmt"
	"strings"
)

// Status is the fulfilment state of an order. Any value may replace any other.
type Status string

const (
	StatusRegistered Status = "Registered"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// DefaultStatus is assigned when a create request names none.
const DefaultStatus = StatusRegistered

// Statuses lists every recognized status in declaration order.
var Statuses = []Status{StatusRegistered, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus matches s case-insensitively and returns the canonical spelling.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s Status) String() string { return string(s) }

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

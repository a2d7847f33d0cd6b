package models

import (
	"fmt"
	"unicode/utf8"
)

// ItemName is a catalog item name of 1 to 255 characters. Names are compared
// exactly (case-sensitive) for uniqueness.
type ItemName string

const (
	minItemNameLength = 1
	maxItemNameLength = 255
)

// NewItemName checks the length bounds of s.
func NewItemName(s string) (ItemName, error) {
	n := utf8.RuneCountInString(s)
	if n < minItemNameLength {
		return "", fmt.Errorf("item name must be at least %d character", minItemNameLength)
	}
	if n > maxItemNameLength {
		return "", fmt.Errorf("item name must not exceed %d characters", maxItemNameLength)
	}
	return ItemName(s), nil
}

func (n ItemName) String() string {
	return string(n)
}

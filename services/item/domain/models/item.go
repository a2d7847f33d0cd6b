package models

// Item is a catalog entry. ID is assigned by the store on insert and never
// changes; items are never mutated after creation.
type Item struct {
	ID          int64
	Name        ItemName
	Description string // empty when absent
	Price       float64
}

// NewItem builds an unsaved Item. Business rules are checked by
// services.ValidateCreateItem before this is called.
func NewItem(name ItemName, description string, price float64) *Item {
	return &Item{
		Name:        name,
		Description: description,
		Price:       price,
	}
}

// HasDescription reports whether the item carries a description.
func (i *Item) HasDescription() bool {
	return i.Description != ""
}

package models

import "time"

// CatalogItem is the order context's read-only view of a catalog entry.
type CatalogItem struct {
	ID          int64
	Name        string
	Description string
	Price       float64
}

// LineRequest asks for quantity units of one catalog item.
type LineRequest struct {
	ItemID   int64
	Quantity int
}

// Line is a line entry of an order. Item is filled when the line is resolved
// against the catalog and stays nil when the item no longer exists.
type Line struct {
	ItemID   int64
	Quantity int
	Item     *CatalogItem
}

// Orphaned reports whether the referenced item has been deleted since the
// line was written.
func (l Line) Orphaned() bool {
	return l.Item == nil
}

// Subtotal is price times quantity, or 0 for an orphaned line.
func (l Line) Subtotal() float64 {
	if l.Item == nil {
		return 0
	}
	return l.Item.Price * float64(l.Quantity)
}

// Order is a customer purchase. It owns its lines; their order is the
// order in which they were requested.
type Order struct {
	ID            int64
	CustomerName  string
	CustomerEmail string
	CreatedAt     time.Time
	Status        Status
	Lines         []Line
}

// OrderPatch carries the fields of a partial update. A nil field is left
// unchanged; Lines, when non-nil, replaces every line of the order.
type OrderPatch struct {
	CustomerName  *string
	CustomerEmail *string
	Status        *Status
	Lines         []LineRequest
}

// NewOrder builds an unsaved order. Lines are taken from reqs unresolved.
func NewOrder(name, email string, status Status, createdAt time.Time, reqs []LineRequest) *Order {
	return &Order{
		CustomerName:  name,
		CustomerEmail: email,
		CreatedAt:     createdAt.UTC(),
		Status:        status,
		Lines:         LinesFrom(reqs),
	}
}

// LinesFrom turns requests into unresolved lines, keeping their order.
func LinesFrom(reqs []LineRequest) []Line {
	lines := make([]Line, len(reqs))
	for i, r := range reqs {
		lines[i] = Line{ItemID: r.ItemID, Quantity: r.Quantity}
	}
	return lines
}

// ItemIDs returns the item id of every line.
func (o *Order) ItemIDs() []int64 {
	ids := make([]int64, len(o.Lines))
	for i, l := range o.Lines {
		ids[i] = l.ItemID
	}
	return ids
}

// Total sums the line subtotals.
func (o *Order) Total() float64 {
	var total float64
	for _, l := range o.Lines {
		total += l.Subtotal()
	}
	return total
}

// Apply overwrites the scalar fields present in p. Lines are replaced by the
// caller once the new set has been checked against the catalog.
func (o *Order) Apply(p OrderPatch) {
	if p.CustomerName != nil {
		o.CustomerName = *p.CustomerName
	}
	if p.CustomerEmail != nil {
		o.CustomerEmail = *p.CustomerEmail
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
}

// Resolve attaches catalog data to every line and returns the ids of the
// lines whose item is absent from items.
func (o *Order) Resolve(items map[int64]CatalogItem) (missing []int64) {
	for i := range o.Lines {
		item, ok := items[o.Lines[i].ItemID]
		if !ok {
			o.Lines[i].Item = nil
			missing = append(missing, o.Lines[i].ItemID)
			continue
		}
		o.Lines[i].Item = &item
	}
	return missing
}

// Clone returns a deep copy of o.
func (o *Order) Clone() *Order {
	c := *o
	c.Lines = make([]Line, len(o.Lines))
	for i, l := range o.Lines {
		c.Lines[i] = l
		if l.Item != nil {
			item := *l.Item
			c.Lines[i].Item = &item
		}
	}
	return &c
}

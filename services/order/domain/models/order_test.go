package models

import (
	"testing"
	"time"
)

func TestNewOrder(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	o := NewOrder("A", "a@b.com", StatusRegistered, at, []LineRequest{{ItemID: 2, Quantity: 1}, {ItemID: 1, Quantity: 3}})

	if o.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt should be UTC, got %v", o.CreatedAt.Location())
	}
	if !o.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", o.CreatedAt, at)
	}
	if got := o.ItemIDs(); len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("ItemIDs = %v, want request order [2 1]", got)
	}
	for _, l := range o.Lines {
		if !l.Orphaned() {
			t.Error("new lines are unresolved")
		}
	}
}

func TestOrderResolveAndTotal(t *testing.T) {
	o := &Order{Lines: []Line{{ItemID: 1, Quantity: 2}, {ItemID: 7, Quantity: 4}, {ItemID: 3, Quantity: 1}}}

	missing := o.Resolve(map[int64]CatalogItem{
		1: {ID: 1, Name: "Widget", Price: 10},
		3: {ID: 3, Name: "Gadget", Price: 2.5},
	})

	if len(missing) != 1 || missing[0] != 7 {
		t.Fatalf("missing = %v, want [7]", missing)
	}
	if o.Lines[1].Item != nil || !o.Lines[1].Orphaned() {
		t.Error("line for item 7 should be orphaned")
	}
	if o.Lines[0].Item.Name != "Widget" {
		t.Errorf("line 0 item = %+v", o.Lines[0].Item)
	}
	if got := o.Total(); got != 22.5 {
		t.Errorf("Total = %v, want 22.5", got)
	}
}

func TestOrderApply(t *testing.T) {
	name := "B"
	shipped := StatusShipped
	o := &Order{CustomerName: "A", CustomerEmail: "a@b.com", Status: StatusRegistered, Lines: []Line{{ItemID: 1, Quantity: 1}}}

	o.Apply(OrderPatch{CustomerName: &name, Status: &shipped})

	if o.CustomerName != "B" || o.Status != StatusShipped {
		t.Errorf("patched fields not applied: %+v", o)
	}
	if o.CustomerEmail != "a@b.com" {
		t.Errorf("absent email changed to %q", o.CustomerEmail)
	}
	if len(o.Lines) != 1 {
		t.Errorf("Apply must not touch lines: %+v", o.Lines)
	}
}

func TestOrderClone(t *testing.T) {
	o := &Order{ID: 1, Lines: []Line{{ItemID: 1, Quantity: 1, Item: &CatalogItem{ID: 1, Price: 5}}}}
	c := o.Clone()

	c.Lines[0].Quantity = 9
	c.Lines[0].Item.Price = 99

	if o.Lines[0].Quantity != 1 || o.Lines[0].Item.Price != 5 {
		t.Errorf("clone shares state with original: %+v", o.Lines[0])
	}
}

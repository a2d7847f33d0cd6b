package models

import "testing"

func TestNewItem(t *testing.T) {
	item := NewItem("Widget", "blue", 10)

	if item.ID != 0 {
		t.Errorf("expected unsaved item to have zero ID, got %d", item.ID)
	}
	if item.Name != "Widget" || item.Description != "blue" || item.Price != 10 {
		t.Errorf("unexpected item: %+v", item)
	}
	if !item.HasDescription() {
		t.Error("expected description to be present")
	}
}

func TestItem_HasDescription_Empty(t *testing.T) {
	if NewItem("Widget", "", 1).HasDescription() {
		t.Error("expected empty description to be absent")
	}
}

package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/ghuser/orderserver/pkg/memstore"
	itemdomain "github.com/ghuser/orderserver/services/item/domain"
	"github.com/ghuser/orderserver/services/item/domain/models"
	"github.com/ghuser/orderserver/services/item/domain/repositories"
)

func TestItemRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(memstore.New())

	widget := models.NewItem("Widget", "", 10)
	if err := repo.Save(ctx, widget); err != nil {
		t.Fatalf("save: %v", err)
	}
	if widget.ID != 1 {
		t.Fatalf("expected first id 1, got %d", widget.ID)
	}

	got, err := repo.GetByID(ctx, widget.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Widget" || got.Price != 10 {
		t.Fatalf("unexpected item: %+v", got)
	}

	if err := repo.Save(ctx, models.NewItem("Widget", "", 20)); !errors.Is(err, itemdomain.ErrItemAlreadyExists) {
		t.Fatalf("expected ErrItemAlreadyExists, got %v", err)
	}

	if err := repo.Delete(ctx, widget.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, widget.ID); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, widget.ID); !errors.Is(err, itemdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on second delete, got %v", err)
	}
}

func TestItemRepository_FindAllPaginates(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(memstore.New())
	for _, name := range []models.ItemName{"a", "b", "c", "d"} {
		if err := repo.Save(ctx, models.NewItem(name, "", 1)); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	tests := []struct {
		name  string
		opts  repositories.QueryOpts
		names []models.ItemName
	}{
		{"all", repositories.QueryOpts{}, []models.ItemName{"a", "b", "c", "d"}},
		{"first page", repositories.QueryOpts{Limit: 2}, []models.ItemName{"a", "b"}},
		{"second page", repositories.QueryOpts{Limit: 2, Offset: 2}, []models.ItemName{"c", "d"}},
		{"offset past end", repositories.QueryOpts{Offset: 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.FindAll(ctx, tt.opts)
			if err != nil {
				t.Fatalf("find all: %v", err)
			}
			if total != 4 {
				t.Errorf("total: got %d, want 4", total)
			}
			if len(items) != len(tt.names) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.names))
			}
			for i, it := range items {
				if it.Name != tt.names[i] {
					t.Errorf("item %d: got %q, want %q", i, it.Name, tt.names[i])
				}
			}
		})
	}
}

func TestItemRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(memstore.New())
	item := models.NewItem("Widget", "", 10)
	_ = repo.Save(ctx, item)

	got, _ := repo.GetByID(ctx, item.ID)
	got.Price = 99

	again, _ := repo.GetByID(ctx, item.ID)
	if again.Price != 10 {
		t.Errorf("mutating a returned item changed the store: price %v", again.Price)
	}
}

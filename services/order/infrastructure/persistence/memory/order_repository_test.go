package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/orderserver/pkg/memstore"
	itemmodels "github.com/ghuser/orderserver/services/item/domain/models"
	itemmemory "github.com/ghuser/orderserver/services/item/infrastructure/persistence/memory"
	orderdomain "github.com/ghuser/orderserver/services/order/domain"
	"github.com/ghuser/orderserver/services/order/domain/models"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
)

func newOrder(lines ...models.LineRequest) *models.Order {
	return models.NewOrder("A", "a@b.com", models.StatusRegistered, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), lines)
}

func TestOrderRepository_InsertGet(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(memstore.New())

	o := newOrder(models.LineRequest{ItemID: 2, Quantity: 3}, models.LineRequest{ItemID: 1, Quantity: 1})
	if err := repo.Insert(ctx, o); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if o.ID != 1 {
		t.Fatalf("expected id 1, got %d", o.ID)
	}

	got, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Lines) != 2 || got.Lines[0].ItemID != 2 || got.Lines[1].ItemID != 1 {
		t.Fatalf("lines not kept in request order: %+v", got.Lines)
	}

	got.Lines[0].Quantity = 99
	again, _ := repo.GetByID(ctx, 1)
	if again.Lines[0].Quantity != 3 {
		t.Fatal("GetByID must return a copy")
	}
}

func TestOrderRepository_InsertDropsCatalogData(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(memstore.New())

	o := newOrder(models.LineRequest{ItemID: 1, Quantity: 1})
	o.Lines[0].Item = &models.CatalogItem{ID: 1, Price: 10}
	if err := repo.Insert(ctx, o); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, _ := repo.GetByID(ctx, o.ID)
	if got.Lines[0].Item != nil {
		t.Error("stored lines must not carry catalog data")
	}
	if o.Lines[0].Item == nil {
		t.Error("caller's order must be left untouched")
	}
}

func TestOrderRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(memstore.New())

	o := newOrder(models.LineRequest{ItemID: 1, Quantity: 2})
	if err := repo.Insert(ctx, o); err != nil {
		t.Fatalf("insert: %v", err)
	}

	o.Status = models.StatusShipped
	o.Lines = models.LinesFrom([]models.LineRequest{{ItemID: 1, Quantity: 5}})
	if err := repo.Update(ctx, o); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.GetByID(ctx, o.ID)
	if got.Status != models.StatusShipped || got.Lines[0].Quantity != 5 {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := repo.Update(ctx, &models.Order{ID: 42}); !errors.Is(err, orderdomain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on update, got %v", err)
	}

	if err := repo.Delete(ctx, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, o.ID); !errors.Is(err, orderdomain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, o.ID); !errors.Is(err, orderdomain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on second delete, got %v", err)
	}
}

func TestOrderRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(memstore.New())

	for range 3 {
		if err := repo.Insert(ctx, newOrder(models.LineRequest{ItemID: 1, Quantity: 1})); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	page, total, err := repo.List(ctx, repositories.QueryOpts{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(page) != 2 || page[0].ID != 2 || page[1].ID != 3 {
		t.Fatalf("unexpected page: total=%d ids=%v", total, ids(page))
	}

	all, _, _ := repo.List(ctx, repositories.QueryOpts{})
	if len(all) != 3 {
		t.Fatalf("zero limit should return all, got %d", len(all))
	}
}

func TestCatalog_LookupSharesItemTable(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	items := itemmemory.NewItemRepository(store)
	for _, name := range []string{"Widget", "Gadget"} {
		if err := items.Save(ctx, itemmodels.NewItem(itemmodels.ItemName(name), "", 10)); err != nil {
			t.Fatalf("save item: %v", err)
		}
	}

	cat := NewCatalog(store)
	got, err := cat.LookupForWrite(ctx, []int64{1, 2, 999})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Widget" || got[2].Name != "Gadget" {
		t.Fatalf("unexpected lookup: %+v", got)
	}
	if _, ok := got[999]; ok {
		t.Fatal("missing id must be absent from the result")
	}
}

func ids(orders []*models.Order) []int64 {
	out := make([]int64, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/orderserver/pkg/clock"
	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/database/dbtest"
	orderdomain "github.com/ghuser/orderserver/services/order/domain"
	"github.com/ghuser/orderserver/services/order/domain/models"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
)

var createdAt = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

func seedItem(t *testing.T, d *database.Database, name string, price float64) int64 {
	t.Helper()
	var id int64
	if err := d.DB().QueryRowContext(context.Background(),
		`INSERT INTO catalog.items (name, price) VALUES ($1, $2) RETURNING id`, name, price).Scan(&id); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return id
}

func TestOrderRepository(t *testing.T) {
	d := dbtest.New(t)
	repo := NewOrderRepository(d, nil, clock.NewFixed(createdAt))
	cat := NewCatalog(d)

	t.Run("Insert keeps line order and GetByID reads back", func(t *testing.T) {
		ctx := context.Background()
		dbtest.Truncate(t, d)
		widget := seedItem(t, d, "Widget", 10)
		gadget := seedItem(t, d, "Gadget", 2)

		o := models.NewOrder("A", "a@b.com", models.StatusRegistered, createdAt,
			[]models.LineRequest{{ItemID: gadget, Quantity: 3}, {ItemID: widget, Quantity: 1}})
		if err := repo.Insert(ctx, o); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if o.ID != 1 {
			t.Fatalf("expected id 1, got %d", o.ID)
		}

		got, err := repo.GetByID(ctx, o.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !got.CreatedAt.Equal(createdAt) || got.Status != models.StatusRegistered {
			t.Fatalf("unexpected scalars: %+v", got)
		}
		if len(got.Lines) != 2 || got.Lines[0].ItemID != gadget || got.Lines[1].ItemID != widget {
			t.Fatalf("lines not in request order: %+v", got.Lines)
		}
	})

	t.Run("Update replaces lines and Delete cascades", func(t *testing.T) {
		ctx := context.Background()
		dbtest.Truncate(t, d)
		widget := seedItem(t, d, "Widget", 10)

		o := models.NewOrder("A", "a@b.com", models.StatusRegistered, createdAt,
			[]models.LineRequest{{ItemID: widget, Quantity: 2}})
		if err := repo.Insert(ctx, o); err != nil {
			t.Fatalf("insert: %v", err)
		}

		err := d.WithinTx(ctx, func(ctx context.Context) error {
			locked, err := repo.GetByIDForUpdate(ctx, o.ID)
			if err != nil {
				return err
			}
			locked.Status = models.StatusShipped
			locked.Lines = models.LinesFrom([]models.LineRequest{{ItemID: widget, Quantity: 5}})
			return repo.Update(ctx, locked)
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		got, err := repo.GetByID(ctx, o.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != models.StatusShipped || len(got.Lines) != 1 || got.Lines[0].Quantity != 5 {
			t.Fatalf("update not applied: %+v", got)
		}

		if err := repo.Update(ctx, &models.Order{ID: 999, Status: models.StatusShipped}); !errors.Is(err, orderdomain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}

		if err := repo.Delete(ctx, o.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var lines int
		if err := d.DB().QueryRowContext(ctx, `SELECT count(*) FROM ordering.order_lines`).Scan(&lines); err != nil {
			t.Fatalf("count lines: %v", err)
		}
		if lines != 0 {
			t.Fatalf("expected lines to cascade, %d left", lines)
		}
		if err := repo.Delete(ctx, o.ID); !errors.Is(err, orderdomain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound on second delete, got %v", err)
		}
	})

	t.Run("List paginates with lines attached", func(t *testing.T) {
		ctx := context.Background()
		dbtest.Truncate(t, d)
		widget := seedItem(t, d, "Widget", 10)

		for range 3 {
			o := models.NewOrder("A", "a@b.com", models.StatusRegistered, createdAt,
				[]models.LineRequest{{ItemID: widget, Quantity: 1}})
			if err := repo.Insert(ctx, o); err != nil {
				t.Fatalf("insert: %v", err)
			}
		}

		page, total, err := repo.List(ctx, repositories.QueryOpts{Limit: 2, Offset: 1})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 3 || len(page) != 2 || page[0].ID != 2 {
			t.Fatalf("unexpected page: total=%d len=%d", total, len(page))
		}
		for _, o := range page {
			if len(o.Lines) != 1 {
				t.Fatalf("order %d has %d lines", o.ID, len(o.Lines))
			}
		}
	})

	t.Run("Catalog lookups skip missing ids", func(t *testing.T) {
		ctx := context.Background()
		dbtest.Truncate(t, d)
		widget := seedItem(t, d, "Widget", 10)

		got, err := cat.Lookup(ctx, []int64{widget, 999})
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if len(got) != 1 || got[widget].Name != "Widget" || got[widget].Price != 10 {
			t.Fatalf("unexpected lookup: %+v", got)
		}

		err = d.WithinTx(ctx, func(ctx context.Context) error {
			locked, err := cat.LookupForWrite(ctx, []int64{widget})
			if err != nil {
				return err
			}
			if len(locked) != 1 {
				t.Errorf("expected one locked item, got %d", len(locked))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("lookup for write: %v", err)
		}
	})
}

// Package memory keeps the catalog in a memstore.Store.
package memory

import (
	"context"
	"fmt"

	"github.com/ghuser/orderserver/pkg/memstore"
	itemdomain "github.com/ghuser/orderserver/services/item/domain"
	"github.com/ghuser/orderserver/services/item/domain/models"
	"github.com/ghuser/orderserver/services/item/domain/repositories"
)

// ItemsTable names the catalog table inside a memstore.Store.
const ItemsTable = "catalog.items"

// Items returns the catalog table of store. Readers outside this package
// (the order context's catalog adapter) use it to see the same rows.
func Items(store *memstore.Store) *memstore.Table[models.Item] {
	return memstore.TableFor[models.Item](store, ItemsTable)
}

// ItemRepository implements repositories.ItemRepository in memory.
type ItemRepository struct {
	store *memstore.Store
	items *memstore.Table[models.Item]
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository returns a repository over store.
func NewItemRepository(store *memstore.Store) *ItemRepository {
	return &ItemRepository{store: store, items: Items(store)}
}

// FindAll returns one page of items ordered by id and the total count.
func (r *ItemRepository) FindAll(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	all := r.items.All(ctx)
	total := len(all)

	start := min(opts.Offset, total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}

	out := make([]*models.Item, 0, end-start)
	for _, it := range all[start:end] {
		out = append(out, &it)
	}
	return out, total, nil
}

// GetByID returns ErrItemNotFound when id does not exist.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	it, ok := r.items.Get(ctx, id)
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	return &it, nil
}

// ExistsByName reports whether the exact name is taken.
func (r *ItemRepository) ExistsByName(ctx context.Context, name models.ItemName) (bool, error) {
	_, ok := r.items.Find(ctx, func(it models.Item) bool { return it.Name == name })
	return ok, nil
}

// Save inserts item and assigns its id. The name check and the insert run
// under one exclusive lock.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	return r.store.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := r.ExistsByName(ctx, item.Name)
		if err != nil {
			return err
		}
		if taken {
			return itemdomain.ErrItemAlreadyExists
		}

		saved, err := r.items.Insert(ctx, func(id int64) models.Item {
			row := *item
			row.ID = id
			return row
		})
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		item.ID = saved.ID
		return nil
	})
}

// Delete returns ErrItemNotFound when id does not exist.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	ok, err := r.items.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if !ok {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

package memory

import (
	"context"

	"github.com/ghuser/orderserver/pkg/memstore"
	itemmodels "github.com/ghuser/orderserver/services/item/domain/models"
	itemmemory "github.com/ghuser/orderserver/services/item/infrastructure/persistence/memory"
	"github.com/ghuser/orderserver/services/order/domain/models"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
)

// Catalog reads items from the catalog table of the same memstore.Store, so
// catalog and order writes share one lock.
type Catalog struct {
	items *memstore.Table[itemmodels.Item]
}

var _ repositories.Catalog = (*Catalog)(nil)

// NewCatalog returns a catalog view over store.
func NewCatalog(store *memstore.Store) *Catalog {
	return &Catalog{items: itemmemory.Items(store)}
}

// Lookup returns the existing items among ids.
func (c *Catalog) Lookup(ctx context.Context, ids []int64) (map[int64]models.CatalogItem, error) {
	out := make(map[int64]models.CatalogItem, len(ids))
	for _, id := range ids {
		if it, ok := c.items.Get(ctx, id); ok {
			out[id] = models.CatalogItem{
				ID:          it.ID,
				Name:        it.Name.String(),
				Description: it.Description,
				Price:       it.Price,
			}
		}
	}
	return out, nil
}

// LookupForWrite is Lookup. Inside WithinTx the exclusive store lock already
// keeps item deletions out until the transaction ends.
func (c *Catalog) LookupForWrite(ctx context.Context, ids []int64) (map[int64]models.CatalogItem, error) {
	return c.Lookup(ctx, ids)
}

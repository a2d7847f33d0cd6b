package postgres

import (
	"context"
	"fmt"

	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/services/order/domain/models"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
	"github.com/ghuser/orderserver/services/order/infrastructure/persistence/postgres/db"
)

// Catalog reads catalog.items on behalf of the ordering context.
type Catalog struct {
	db *database.Database
}

var _ repositories.Catalog = (*Catalog)(nil)

// NewCatalog returns a catalog view over database.
func NewCatalog(database *database.Database) *Catalog {
	return &Catalog{db: database}
}

// Lookup returns the existing items among ids.
func (c *Catalog) Lookup(ctx context.Context, ids []int64) (map[int64]models.CatalogItem, error) {
	rows, err := db.New(c.db.Conn(ctx)).LookupItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup items: %w", err)
	}
	return toCatalogItems(rows), nil
}

// LookupForWrite takes FOR SHARE locks on the returned rows, so a concurrent
// item delete waits until the caller's transaction ends.
func (c *Catalog) LookupForWrite(ctx context.Context, ids []int64) (map[int64]models.CatalogItem, error) {
	rows, err := db.New(c.db.Conn(ctx)).LookupItemsForShare(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup items for share: %w", err)
	}
	return toCatalogItems(rows), nil
}

func toCatalogItems(rows []db.CatalogItem) map[int64]models.CatalogItem {
	out := make(map[int64]models.CatalogItem, len(rows))
	for _, row := range rows {
		out[row.ID] = models.CatalogItem{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description.String,
			Price:       row.Price,
		}
	}
	return out
}

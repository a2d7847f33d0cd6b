package repositories

import (
	"context"

	"github.com/ghuser/orderserver/services/order/domain/models"
)

// QueryOpts contains pagination parameters for list queries. A zero Limit
// returns every order after Offset.
type QueryOpts struct {
	Limit  int
	Offset int
}

// OrderRepository is the Order Store. Orders come back with unresolved lines
// in their stored order. Methods join the transaction carried by ctx.
type OrderRepository interface {
	// List returns orders ordered by id, plus the total count ignoring pagination.
	List(ctx context.Context, opts QueryOpts) ([]*models.Order, int, error)

	// GetByID returns ErrOrderNotFound when the order does not exist.
	GetByID(ctx context.Context, id int64) (*models.Order, error)

	// GetByIDForUpdate is GetByID that also keeps concurrent writers off the
	// order until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error)

	// Insert stores order with its lines and sets order.ID.
	Insert(ctx context.Context, order *models.Order) error

	// Update overwrites the scalar fields and replaces every line.
	// Returns ErrOrderNotFound when the order does not exist.
	Update(ctx context.Context, order *models.Order) error

	// Delete removes the order and its lines. Returns ErrOrderNotFound when
	// the order does not exist.
	Delete(ctx context.Context, id int64) error
}

// Catalog is the order context's port onto the catalog store.
type Catalog interface {
	// Lookup returns the items among ids that currently exist, keyed by id.
	Lookup(ctx context.Context, ids []int64) (map[int64]models.CatalogItem, error)

	// LookupForWrite is Lookup that also keeps the returned items from being
	// deleted until the surrounding transaction ends.
	LookupForWrite(ctx context.Context, ids []int64) (map[int64]models.CatalogItem, error)
}

// Transactor runs units of work against the store.
type Transactor interface {
	// WithinTx runs fn in an exclusive, all-or-nothing transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// WithinReadTx runs fn against one consistent snapshot.
	WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

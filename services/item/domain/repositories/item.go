package repositories

import (
	"context"

	"github.com/ghuser/orderserver/services/item/domain/models"
)

// QueryOpts contains pagination parameters for list queries. A zero Limit
// returns every item after Offset.
type QueryOpts struct {
	Limit  int
	Offset int
}

// ItemRepository is the Catalog Store as seen by the item service.
// Methods join the transaction carried by ctx when there is one.
type ItemRepository interface {
	// FindAll returns items ordered by id, plus the total count ignoring pagination.
	FindAll(ctx context.Context, opts QueryOpts) ([]*models.Item, int, error)

	// GetByID returns ErrItemNotFound when the item does not exist.
	GetByID(ctx context.Context, id int64) (*models.Item, error)

	// ExistsByName reports whether an item with exactly this name exists.
	ExistsByName(ctx context.Context, name models.ItemName) (bool, error)

	// Save inserts item and sets item.ID. Returns ErrItemAlreadyExists when the
	// name is taken, even if a concurrent writer won the race.
	Save(ctx context.Context, item *models.Item) error

	// Delete returns ErrItemNotFound when the item does not exist.
	Delete(ctx context.Context, id int64) error
}

// Transactor runs units of work against the store.
type Transactor interface {
	// WithinTx runs fn in an exclusive, all-or-nothing transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// WithinReadTx runs fn against one consistent snapshot.
	WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

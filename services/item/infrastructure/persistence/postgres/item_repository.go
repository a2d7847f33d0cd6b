package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/orderserver/pkg/clock"
	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/events"
	itemdomain "github.com/ghuser/orderserver/services/item/domain"
	domainevents "github.com/ghuser/orderserver/services/item/domain/events"
	"github.com/ghuser/orderserver/services/item/domain/models"
	"github.com/ghuser/orderserver/services/item/domain/repositories"
	"github.com/ghuser/orderserver/services/item/infrastructure/persistence/postgres/db"
)

// ItemRepository implements repositories.ItemRepository against catalog.items.
type ItemRepository struct {
	db    *database.Database
	bus   *events.EventBus
	clock clock.Clock
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository returns a repository over database. When bus is non-nil,
// item.created and item.deleted are published in the writing transaction.
func NewItemRepository(database *database.Database, bus *events.EventBus, clk clock.Clock) *ItemRepository {
	return &ItemRepository{db: database, bus: bus, clock: clk}
}

// FindAll returns one page of items ordered by id and the total count.
func (r *ItemRepository) FindAll(ctx context.Context, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	q := db.New(r.db.Conn(ctx))

	rows, err := q.ListItems(ctx, db.ListItemsParams{Lim: int64(opts.Limit), Off: int64(opts.Offset)})
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}
	total, err := q.CountItems(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, int(total), nil
}

// GetByID returns ErrItemNotFound when id does not exist.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	row, err := db.New(r.db.Conn(ctx)).GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row), nil
}

// ExistsByName reports whether the exact name is taken.
func (r *ItemRepository) ExistsByName(ctx context.Context, name models.ItemName) (bool, error) {
	exists, err := db.New(r.db.Conn(ctx)).ItemNameExists(ctx, name.String())
	if err != nil {
		return false, fmt.Errorf("check item name: %w", err)
	}
	return exists, nil
}

// Save inserts item, assigns its id and publishes ItemCreatedEvent in the
// same transaction. The unique index on name is the final arbiter between
// concurrent creators; a violation maps to ErrItemAlreadyExists.
func (r *ItemRepository) Save(ctx context.Context, item *models.Item) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		id, err := db.New(r.db.Conn(ctx)).InsertItem(ctx, db.InsertItemParams{
			Name:        item.Name.String(),
			Description: sql.NullString{String: item.Description, Valid: item.HasDescription()},
			Price:       item.Price,
		})
		if err != nil {
			if database.IsUniqueViolation(err) {
				return itemdomain.ErrItemAlreadyExists
			}
			return fmt.Errorf("insert item: %w", err)
		}
		item.ID = id

		if r.bus != nil {
			if err := r.bus.Publish(ctx, domainevents.NewItemCreated(item, r.clock.Now())); err != nil {
				return fmt.Errorf("publish item created: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the item and publishes ItemDeletedEvent. Order lines that
// reference it are left in place.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		n, err := db.New(r.db.Conn(ctx)).DeleteItem(ctx, id)
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if n == 0 {
			return itemdomain.ErrItemNotFound
		}

		if r.bus != nil {
			if err := r.bus.Publish(ctx, domainevents.NewItemDeleted(id, r.clock.Now())); err != nil {
				return fmt.Errorf("publish item deleted: %w", err)
			}
		}
		return nil
	})
}

func rowToItem(row db.CatalogItem) *models.Item {
	return &models.Item{
		ID:          row.ID,
		Name:        models.ItemName(row.Name),
		Description: row.Description.String,
		Price:       row.Price,
	}
}

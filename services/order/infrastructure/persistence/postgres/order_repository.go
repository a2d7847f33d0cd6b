package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/orderserver/pkg/clock"
	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/events"
	orderdomain "github.com/ghuser/orderserver/services/order/domain"
	domainevents "github.com/ghuser/orderserver/services/order/domain/events"
	"github.com/ghuser/orderserver/services/order/domain/models"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
	"github.com/ghuser/orderserver/services/order/infrastructure/persistence/postgres/db"
)

// OrderRepository implements repositories.OrderRepository against
// ordering.orders and ordering.order_lines.
type OrderRepository struct {
	db    *database.Database
	bus   *events.EventBus
	clock clock.Clock
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository returns a repository over database. When bus is non-nil,
// order events are published in the writing transaction.
func NewOrderRepository(database *database.Database, bus *events.EventBus, clk clock.Clock) *OrderRepository {
	return &OrderRepository{db: database, bus: bus, clock: clk}
}

// List returns one page of orders ordered by id and the total count.
func (r *OrderRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Order, int, error) {
	q := db.New(r.db.Conn(ctx))

	rows, err := q.ListOrders(ctx, db.ListOrdersParams{Lim: int64(opts.Limit), Off: int64(opts.Offset)})
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	total, err := q.CountOrders(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	orders := make([]*models.Order, len(rows))
	byID := make(map[int64]*models.Order, len(rows))
	ids := make([]int64, len(rows))
	for i, row := range rows {
		orders[i] = rowToOrder(row)
		byID[row.ID] = orders[i]
		ids[i] = row.ID
	}
	if len(ids) == 0 {
		return orders, int(total), nil
	}

	lines, err := q.ListOrderLines(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("query order lines: %w", err)
	}
	for _, l := range lines {
		o := byID[l.OrderID]
		o.Lines = append(o.Lines, rowToLine(l))
	}
	return orders, int(total), nil
}

// GetByID returns ErrOrderNotFound when id does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	q := db.New(r.db.Conn(ctx))
	row, err := q.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return r.withLines(ctx, q, row)
}

// GetByIDForUpdate locks the order row until the surrounding transaction ends.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	q := db.New(r.db.Conn(ctx))
	row, err := q.GetOrderForUpdate(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return r.withLines(ctx, q, row)
}

// Insert stores order and its lines, sets order.ID and publishes
// OrderCreatedEvent in the same transaction.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		q := db.New(r.db.Conn(ctx))
		id, err := q.InsertOrder(ctx, db.InsertOrderParams{
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			Status:        order.Status.String(),
			CreatedAt:     order.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		order.ID = id

		if err := insertLines(ctx, q, order); err != nil {
			return err
		}
		return r.publish(ctx, domainevents.NewOrderCreated(order, r.clock.Now()))
	})
}

// Update overwrites the scalar fields, replaces every line and publishes
// OrderUpdatedEvent in the same transaction.
func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		q := db.New(r.db.Conn(ctx))
		n, err := q.UpdateOrder(ctx, db.UpdateOrderParams{
			ID:            order.ID,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			Status:        order.Status.String(),
		})
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if n == 0 {
			return orderdomain.ErrOrderNotFound
		}

		if err := q.DeleteOrderLines(ctx, order.ID); err != nil {
			return fmt.Errorf("delete order lines: %w", err)
		}
		if err := insertLines(ctx, q, order); err != nil {
			return err
		}
		return r.publish(ctx, domainevents.NewOrderUpdated(order, r.clock.Now()))
	})
}

// Delete removes the order; its lines go with it through ON DELETE CASCADE.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		n, err := db.New(r.db.Conn(ctx)).DeleteOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		if n == 0 {
			return orderdomain.ErrOrderNotFound
		}
		return r.publish(ctx, domainevents.NewOrderDeleted(id, r.clock.Now()))
	})
}

func (r *OrderRepository) withLines(ctx context.Context, q *db.Queries, row db.OrderingOrder) (*models.Order, error) {
	order := rowToOrder(row)
	lines, err := q.ListOrderLines(ctx, []int64{row.ID})
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	for _, l := range lines {
		order.Lines = append(order.Lines, rowToLine(l))
	}
	return order, nil
}

func (r *OrderRepository) publish(ctx context.Context, evt events.Event) error {
	if r.bus == nil {
		return nil
	}
	if err := r.bus.Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Topic(), err)
	}
	return nil
}

func insertLines(ctx context.Context, q *db.Queries, order *models.Order) error {
	for i, l := range order.Lines {
		if err := q.InsertOrderLine(ctx, db.InsertOrderLineParams{
			OrderID:  order.ID,
			Position: int32(i),
			ItemID:   l.ItemID,
			Quantity: int32(l.Quantity),
		}); err != nil {
			return fmt.Errorf("insert order line %d: %w", i, err)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return orderdomain.ErrOrderNotFound
	}
	return fmt.Errorf("query order: %w", err)
}

func rowToOrder(row db.OrderingOrder) *models.Order {
	return &models.Order{
		ID:            row.ID,
		CustomerName:  row.CustomerName,
		CustomerEmail: row.CustomerEmail,
		CreatedAt:     row.CreatedAt.UTC(),
		Status:        models.Status(row.Status),
		Lines:         []models.Line{},
	}
}

func rowToLine(row db.OrderingOrderLine) models.Line {
	return models.Line{ItemID: row.ItemID, Quantity: int(row.Quantity)}
}

// Package memory keeps orders in a memstore.Store and reads the catalog from
// the same store.
package memory

import (
	"context"
	"fmt"

	"github.com/ghuser/orderserver/pkg/memstore"
	orderdomain "github.com/ghuser/orderserver/services/order/domain"
	"github.com/ghuser/orderserver/services/order/domain/models"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
)

// OrdersTable names the order table inside a memstore.Store.
const OrdersTable = "ordering.orders"

// OrderRepository implements repositories.OrderRepository in memory. Rows
// hold unresolved lines; every read returns a copy.
type OrderRepository struct {
	orders *memstore.Table[models.Order]
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository returns a repository over store.
func NewOrderRepository(store *memstore.Store) *OrderRepository {
	return &OrderRepository{orders: memstore.TableFor[models.Order](store, OrdersTable)}
}

// List returns one page of orders ordered by id and the total count.
func (r *OrderRepository) List(ctx context.Context, opts repositories.QueryOpts) ([]*models.Order, int, error) {
	all := r.orders.All(ctx)
	total := len(all)

	start := min(opts.Offset, total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}

	out := make([]*models.Order, 0, end-start)
	for _, o := range all[start:end] {
		out = append(out, o.Clone())
	}
	return out, total, nil
}

// GetByID returns ErrOrderNotFound when id does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := r.orders.Get(ctx, id)
	if !ok {
		return nil, orderdomain.ErrOrderNotFound
	}
	return o.Clone(), nil
}

// GetByIDForUpdate is GetByID. Inside WithinTx the caller already holds the
// store's exclusive lock.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return r.GetByID(ctx, id)
}

// Insert stores order and sets order.ID.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	saved, err := r.orders.Insert(ctx, func(id int64) models.Order {
		row := toRow(order)
		row.ID = id
		return row
	})
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = saved.ID
	return nil
}

// Update replaces the stored row with order.
func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	ok, err := r.orders.Replace(ctx, order.ID, toRow(order))
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if !ok {
		return orderdomain.ErrOrderNotFound
	}
	return nil
}

// Delete returns ErrOrderNotFound when id does not exist.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ok, err := r.orders.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if !ok {
		return orderdomain.ErrOrderNotFound
	}
	return nil
}

// toRow copies order without catalog data so stored rows never alias
// caller-owned memory.
func toRow(order *models.Order) models.Order {
	row := *order.Clone()
	for i := range row.Lines {
		row.Lines[i].Item = nil
	}
	return row
}

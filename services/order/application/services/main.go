package services

import (
	"github.com/ghuser/orderserver/pkg/app"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
	"github.com/ghuser/orderserver/services/order/infrastructure/persistence/memory"
	"github.com/ghuser/orderserver/services/order/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for ordering.
type Services struct {
	Order *OrderService
}

// New wires the ordering services against the store configured in a.
func New(a *app.Application) *Services {
	clk := a.Now()

	var (
		repo    repositories.OrderRepository
		catalog repositories.Catalog
	)
	if a.Db != nil {
		repo = postgres.NewOrderRepository(a.Db, a.EventBus, clk)
		catalog = postgres.NewCatalog(a.Db)
	} else {
		repo = memory.NewOrderRepository(a.Memory)
		catalog = memory.NewCatalog(a.Memory)
	}

	return &Services{
		Order: NewOrderService(repo, catalog, a.Tx(), clk, a.Logger.With("context", "ordering")),
	}
}

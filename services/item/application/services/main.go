package services

import (
	"github.com/ghuser/orderserver/pkg/app"
	"github.com/ghuser/orderserver/pkg/cache"
	"github.com/ghuser/orderserver/services/item/domain/repositories"
	"github.com/ghuser/orderserver/services/item/infrastructure/persistence/memory"
	"github.com/ghuser/orderserver/services/item/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the catalog.
type Services struct {
	Item *ItemService
}

// New wires the catalog services against the store configured in a.
func New(a *app.Application) *Services {
	var repo repositories.ItemRepository
	if a.Db != nil {
		repo = postgres.NewItemRepository(a.Db, a.EventBus, a.Now())
	} else {
		repo = memory.NewItemRepository(a.Memory)
	}

	return &Services{
		Item: NewItemService(repo, a.Tx(), cache.NewItemCache(a.Redis), a.Logger.With("context", "catalog")),
	}
}

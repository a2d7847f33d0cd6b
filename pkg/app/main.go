package app

import (
	"context"

	"github.com/ghuser/orderserver/pkg/cache"
	"github.com/ghuser/orderserver/pkg/clock"
	"github.com/ghuser/orderserver/pkg/config"
	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/events"
	"github.com/ghuser/orderserver/pkg/logger"
	"github.com/ghuser/orderserver/pkg/memstore"
)

// Transactor opens units of work on whichever store backs the application.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Application holds the shared infrastructure handed to every bounded
// context when its routes or subscribers are registered.
//
// Exactly one of Db and Memory is set. Redis and EventBus are nil when the
// memory store is used or when they are disabled in config.
//
// app.Logger injects trace_id, span_id and request_id from the context, so
// request-scoped code should use the *Context methods:
//
//	app.Logger.InfoContext(ctx, "order created", "order_id", id)
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Memory   *memstore.Store
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Clock    clock.Clock
}

// Tx returns the transaction runner of the configured store.
func (a *Application) Tx() Transactor {
	if a.Db != nil {
		return a.Db
	}
	return a.Memory
}

// Now returns the configured clock, or the system clock when none is set.
func (a *Application) Now() clock.Clock {
	if a.Clock != nil {
		return a.Clock
	}
	return clock.NewSystem()
}

// IsProduction reports whether 5xx details must be hidden from clients.
func (a *Application) IsProduction() bool {
	return a.Config != nil && a.Config.Environment == config.EnvProduction
}

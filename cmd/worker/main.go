package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/orderserver/pkg/app"
	"github.com/ghuser/orderserver/pkg/cache"
	"github.com/ghuser/orderserver/pkg/clock"
	"github.com/ghuser/orderserver/pkg/config"
	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/events"
	"github.com/ghuser/orderserver/pkg/logger"
	"github.com/ghuser/orderserver/pkg/telemetry"
	itemsvcs "github.com/ghuser/orderserver/services/item/application/services"
	itemEvents "github.com/ghuser/orderserver/services/item/domain/events"
	orderEvents "github.com/ghuser/orderserver/services/order/domain/events"
)

const consumerGroup = "orderserver-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	if !cfg.UsesPostgres() || !cfg.EventsEnabled {
		log.Info("event bus disabled; worker has nothing to consume",
			"storage", cfg.StorageDriver, "events_enabled", cfg.EventsEnabled)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(pool.DB(), events.Options{ConsumerGroup: consumerGroup}, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close() //nolint:errcheck

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Clock:    clock.NewSystem(),
	}

	if cfg.CacheEnabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close() //nolint:errcheck
		appConfig.Redis = redisClient
		log.Info("redis connected")
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// EventBus.Close() (via defer) waits for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	items := itemsvcs.New(a).Item

	handlers := map[string]events.Handler{
		itemEvents.TopicItemCreated:   handleItemCreated(a, items),
		itemEvents.TopicItemDeleted:   handleItemDeleted(a, items),
		orderEvents.TopicOrderCreated: logOrderEvent(a, orderEvents.TopicOrderCreated),
		orderEvents.TopicOrderUpdated: logOrderEvent(a, orderEvents.TopicOrderUpdated),
		orderEvents.TopicOrderDeleted: logOrderEvent(a, orderEvents.TopicOrderDeleted),
	}

	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		go drain(ctx, a, topic, errCh)
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// drain logs subscriber errors so the channel never blocks.
func drain(ctx context.Context, a *app.Application, topic string, errCh <-chan error) {
	for err := range errCh {
		a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
		telemetry.CaptureError(ctx, err)
	}
}

// handleItemCreated warms the item cache from the store so the first GetByID
// is a hit. Topics are not ordered against each other, so the payload is not
// trusted: an item deleted in the meantime stays uncached. Handlers must be
// idempotent; the bus retries failed messages.
func handleItemCreated(a *app.Application, items *itemsvcs.ItemService) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[itemEvents.ItemCreatedEvent](msg)
		if err != nil {
			return err
		}
		if err := items.Refresh(ctx, evt.ItemID); err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "cache refreshed", "item_id", evt.ItemID)
		return nil
	}
}

// handleItemDeleted evicts the item from the cache. Eviction is idempotent,
// so it is safe after the API's own eviction.
func handleItemDeleted(a *app.Application, items *itemsvcs.ItemService) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[itemEvents.ItemDeletedEvent](msg)
		if err != nil {
			return err
		}
		items.Evict(ctx, evt.ItemID)
		a.Logger.InfoContext(ctx, "cache evicted", "item_id", evt.Key())
		return nil
	}
}

// logOrderEvent records order lifecycle events.
func logOrderEvent(a *app.Application, topic string) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		a.Logger.InfoContext(ctx, "order event",
			"topic", topic,
			"event_id", msg.Metadata.Get("event_id"),
			"payload_bytes", len(msg.Payload),
		)
		return nil
	}
}

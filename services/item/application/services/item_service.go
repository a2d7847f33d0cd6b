package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/orderserver/pkg/cache"
	"github.com/ghuser/orderserver/pkg/logger"
	itemdomain "github.com/ghuser/orderserver/services/item/domain"
	"github.com/ghuser/orderserver/services/item/domain/models"
	"github.com/ghuser/orderserver/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/orderserver/services/item/domain/services"
)

const instrumentationName = "github.com/ghuser/orderserver/services/item"

// ItemService owns the catalog: listing, lookup, creation with name
// uniqueness, and deletion. Single-item reads go through the Redis cache
// when one is configured.
type ItemService struct {
	repo  repositories.ItemRepository
	tx    repositories.Transactor
	cache *pkgcache.ItemCache
	log   logger.Logger

	tracer  trace.Tracer
	created metric.Int64Counter
	deleted metric.Int64Counter
}

// NewItemService wires the service. itemCache may be nil.
func NewItemService(repo repositories.ItemRepository, tx repositories.Transactor, itemCache *pkgcache.ItemCache, log logger.Logger) *ItemService {
	meter := otel.Meter(instrumentationName)
	created, _ := meter.Int64Counter("catalog.items.created", metric.WithDescription("Items created"))
	deleted, _ := meter.Int64Counter("catalog.items.deleted", metric.WithDescription("Items deleted"))

	return &ItemService{
		repo:    repo,
		tx:      tx,
		cache:   itemCache,
		log:     log,
		tracer:  otel.Tracer(instrumentationName),
		created: created,
		deleted: deleted,
	}
}

// List returns one page of items ordered by id plus the total count.
func (s *ItemService) List(ctx context.Context, opts repositories.QueryOpts) (items []*models.Item, total int, err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.List")
	defer func() { endSpan(span, err) }()

	err = s.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		items, total, err = s.repo.FindAll(ctx, opts)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// GetByID returns ErrItemNotFound when no item has this id.
//
// Reads are cache-aside: a hit is served from Redis, a miss (or a Redis
// failure) falls back to the store and writes the result back.
func (s *ItemService) GetByID(ctx context.Context, id int64) (item *models.Item, err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.GetByID", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return fromCache(cached), nil
		case !errors.Is(err, pkgcache.ErrCacheMiss):
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
	}

	item, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}

	s.warm(ctx, item)
	return item, nil
}

// Create validates in and inserts a new item. The name check and the insert
// share one transaction; ErrItemAlreadyExists is returned when the name is taken.
func (s *ItemService) Create(ctx context.Context, in domainsvcs.CreateItemInput) (item *models.Item, err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.Create")
	defer func() { endSpan(span, err) }()

	name, err := domainsvcs.ValidateCreateItem(in)
	if err != nil {
		return nil, err
	}
	item = models.NewItem(name, in.Description, in.Price)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := s.repo.ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if taken {
			return itemdomain.ErrItemAlreadyExists
		}
		return s.repo.Save(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("create item %q: %w", name, err)
	}

	s.created.Add(ctx, 1)
	span.SetAttributes(attribute.Int64("item.id", item.ID))
	s.log.InfoContext(ctx, "item created", "item_id", item.ID, "name", item.Name.String())
	return item, nil
}

// Delete removes the item and evicts it from the cache. Orders that
// reference the item keep their lines.
func (s *ItemService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.Delete", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	}); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}

	s.Evict(ctx, id)
	s.deleted.Add(ctx, 1)
	s.log.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}

// Refresh re-reads id from the store and caches it. An item that no longer
// exists is left uncached and is not an error, so a late item.created
// delivery cannot resurrect a deleted item.
func (s *ItemService) Refresh(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "ItemService.Refresh", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer func() { endSpan(span, err) }()

	if s.cache == nil {
		return nil
	}
	item, err := s.repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		s.log.DebugContext(ctx, "item gone before cache refresh", "item_id", id)
		return nil
	case err != nil:
		return fmt.Errorf("refresh item %d: %w", id, err)
	}
	s.warm(ctx, item)
	return nil
}

// Evict removes id from the cache. Failures are logged, not returned.
func (s *ItemService) Evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WarnContext(ctx, "item cache eviction failed", "item_id", id, "error", err)
	}
}

func (s *ItemService) warm(ctx context.Context, item *models.Item) {
	if s.cache == nil {
		return
	}
	stored, err := s.cache.Set(ctx, toCache(item))
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "item cache write failed", "item_id", item.ID, "error", err)
	case !stored:
		s.log.DebugContext(ctx, "item deleted meanwhile; not cached", "item_id", item.ID)
	}
}

func toCache(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price,
	}
}

func fromCache(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:          c.ID,
		Name:        models.ItemName(c.Name),
		Description: c.Description,
		Price:       c.Price,
	}
}

// endSpan records err on span unless it is an expected domain outcome.
func endSpan(span trace.Span, err error) {
	if err != nil && !isDomainError(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func isDomainError(err error) bool {
	return errors.Is(err, itemdomain.ErrItemNotFound) ||
		errors.Is(err, itemdomain.ErrItemAlreadyExists) ||
		errors.Is(err, itemdomain.ErrInvalidItem)
}

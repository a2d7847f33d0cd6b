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

	"github.com/ghuser/orderserver/pkg/clock"
	"github.com/ghuser/orderserver/pkg/logger"
	orderdomain "github.com/ghuser/orderserver/services/order/domain"
	"github.com/ghuser/orderserver/services/order/domain/models"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
	domainsvcs "github.com/ghuser/orderserver/services/order/domain/services"
)

const instrumentationName = "github.com/ghuser/orderserver/services/order"

// OrderService owns order CRUD. Every write checks its lines against the
// catalog in the same transaction as the write; every read resolves lines
// against one snapshot of the catalog.
type OrderService struct {
	repo    repositories.OrderRepository
	catalog repositories.Catalog
	tx      repositories.Transactor
	clock   clock.Clock
	log     logger.Logger

	tracer  trace.Tracer
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
}

// NewOrderService wires the service.
func NewOrderService(
	repo repositories.OrderRepository,
	catalog repositories.Catalog,
	tx repositories.Transactor,
	clk clock.Clock,
	log logger.Logger,
) *OrderService {
	meter := otel.Meter(instrumentationName)
	created, _ := meter.Int64Counter("ordering.orders.created", metric.WithDescription("Orders created"))
	updated, _ := meter.Int64Counter("ordering.orders.updated", metric.WithDescription("Orders updated"))
	deleted, _ := meter.Int64Counter("ordering.orders.deleted", metric.WithDescription("Orders deleted"))

	return &OrderService{
		repo:    repo,
		catalog: catalog,
		tx:      tx,
		clock:   clk,
		log:     log,
		tracer:  otel.Tracer(instrumentationName),
		created: created,
		updated: updated,
		deleted: deleted,
	}
}

// List returns one page of orders with resolved lines, plus the total count.
func (s *OrderService) List(ctx context.Context, opts repositories.QueryOpts) (orders []*models.Order, total int, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer func() { endSpan(span, err) }()

	err = s.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		orders, total, err = s.repo.List(ctx, opts)
		if err != nil {
			return err
		}

		var ids []int64
		for _, o := range orders {
			ids = append(ids, o.ItemIDs()...)
		}
		items, err := s.catalog.Lookup(ctx, ids)
		if err != nil {
			return err
		}
		for _, o := range orders {
			s.warnOrphans(ctx, o.ID, o.Resolve(items))
		}
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// GetByID returns the order with resolved lines, or ErrOrderNotFound.
func (s *OrderService) GetByID(ctx context.Context, id int64) (order *models.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer func() { endSpan(span, err) }()

	err = s.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		order, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		items, err := s.catalog.Lookup(ctx, order.ItemIDs())
		if err != nil {
			return err
		}
		s.warnOrphans(ctx, order.ID, order.Resolve(items))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return order, nil
}

// Create validates in, checks every line against the catalog and inserts
// the order. Nothing is written when any item is missing.
func (s *OrderService) Create(ctx context.Context, in domainsvcs.CreateOrderInput) (order *models.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create")
	defer func() { endSpan(span, err) }()

	status, err := domainsvcs.ValidateCreateOrder(in)
	if err != nil {
		return nil, err
	}
	order = models.NewOrder(in.CustomerName, in.CustomerEmail, status, s.clock.Now(), in.Lines)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.resolveForWrite(ctx, order); err != nil {
			return err
		}
		return s.repo.Insert(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.created.Add(ctx, 1)
	span.SetAttributes(attribute.Int64("order.id", order.ID))
	s.log.InfoContext(ctx, "order created", "order_id", order.ID, "lines", len(order.Lines))
	return order, nil
}

// Update applies a partial update. Absent fields keep their values; supplied
// lines replace the whole line collection after the catalog check.
func (s *OrderService) Update(ctx context.Context, id int64, in domainsvcs.PatchOrderInput) (order *models.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer func() { endSpan(span, err) }()

	patch, err := domainsvcs.ValidatePatch(in)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err = s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		order.Apply(patch)

		if patch.Lines != nil {
			order.Lines = models.LinesFrom(patch.Lines)
			if err := s.resolveForWrite(ctx, order); err != nil {
				return err
			}
		} else {
			items, err := s.catalog.Lookup(ctx, order.ItemIDs())
			if err != nil {
				return err
			}
			s.warnOrphans(ctx, order.ID, order.Resolve(items))
		}
		return s.repo.Update(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}

	s.updated.Add(ctx, 1)
	s.log.InfoContext(ctx, "order updated", "order_id", id, "lines_replaced", patch.Lines != nil)
	return order, nil
}

// Delete removes the order and its lines.
func (s *OrderService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer func() { endSpan(span, err) }()

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	}); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}

	s.deleted.Add(ctx, 1)
	s.log.InfoContext(ctx, "order deleted", "order_id", id)
	return nil
}

// resolveForWrite locks the referenced items and attaches them to the lines.
// Any missing item fails the write with ErrInvalidItemReference.
func (s *OrderService) resolveForWrite(ctx context.Context, order *models.Order) error {
	items, err := s.catalog.LookupForWrite(ctx, order.ItemIDs())
	if err != nil {
		return err
	}
	if missing := order.Resolve(items); len(missing) > 0 {
		return fmt.Errorf("%w: items %v not in catalog", orderdomain.ErrInvalidItemReference, missing)
	}
	return nil
}

func (s *OrderService) warnOrphans(ctx context.Context, orderID int64, missing []int64) {
	if len(missing) > 0 {
		s.log.WarnContext(ctx, "order references deleted items", "order_id", orderID, "item_ids", missing)
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
	return errors.Is(err, orderdomain.ErrOrderNotFound) ||
		errors.Is(err, orderdomain.ErrInvalidItemReference) ||
		errors.Is(err, orderdomain.ErrInvalidOrder)
}

package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/orderserver/services/order/domain/models"
)

// Topics published by the ordering context.
const (
	TopicOrderCreated = "order.created"
	TopicOrderUpdated = "order.updated"
	TopicOrderDeleted = "order.deleted"
)

const schemaVersion = 1

// LinePayload is one line of an order as carried in events.
type LinePayload struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// OrderCreatedEvent is published in the transaction that inserts an order.
type OrderCreatedEvent struct {
	EventID       uuid.UUID     `json:"event_id"`
	Version       int           `json:"version"`
	OrderID       int64         `json:"order_id"`
	CustomerEmail string        `json:"customer_email"`
	Status        string        `json:"status"`
	Lines         []LinePayload `json:"lines"`
	Total         float64       `json:"total"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// NewOrderCreated builds the event for a freshly inserted, resolved order.
func NewOrderCreated(o *models.Order, at time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		EventID:       uuid.New(),
		Version:       schemaVersion,
		OrderID:       o.ID,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status.String(),
		Lines:         linePayloads(o.Lines),
		Total:         o.Total(),
		OccurredAt:    at.UTC(),
	}
}

func (e OrderCreatedEvent) Topic() string      { return TopicOrderCreated }
func (e OrderCreatedEvent) ID() string         { return e.EventID.String() }
func (e OrderCreatedEvent) SchemaVersion() int { return e.Version }

// OrderUpdatedEvent is published in the transaction that patches an order.
type OrderUpdatedEvent struct {
	EventID       uuid.UUID     `json:"event_id"`
	Version       int           `json:"version"`
	OrderID       int64         `json:"order_id"`
	CustomerEmail string        `json:"customer_email"`
	Status        string        `json:"status"`
	Lines         []LinePayload `json:"lines"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// NewOrderUpdated builds the event for a patched order, carrying its state
// after the update.
func NewOrderUpdated(o *models.Order, at time.Time) OrderUpdatedEvent {
	return OrderUpdatedEvent{
		EventID:       uuid.New(),
		Version:       schemaVersion,
		OrderID:       o.ID,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status.String(),
		Lines:         linePayloads(o.Lines),
		OccurredAt:    at.UTC(),
	}
}

func (e OrderUpdatedEvent) Topic() string      { return TopicOrderUpdated }
func (e OrderUpdatedEvent) ID() string         { return e.EventID.String() }
func (e OrderUpdatedEvent) SchemaVersion() int { return e.Version }

// OrderDeletedEvent is published in the transaction that deletes an order.
type OrderDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	OrderID    int64     `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderDeleted builds the event for a removed order.
func NewOrderDeleted(id int64, at time.Time) OrderDeletedEvent {
	return OrderDeletedEvent{
		EventID:    uuid.New(),
		Version:    schemaVersion,
		OrderID:    id,
		OccurredAt: at.UTC(),
	}
}

func (e OrderDeletedEvent) Topic() string      { return TopicOrderDeleted }
func (e OrderDeletedEvent) ID() string         { return e.EventID.String() }
func (e OrderDeletedEvent) SchemaVersion() int { return e.Version }

func linePayloads(lines []models.Line) []LinePayload {
	out := make([]LinePayload, len(lines))
	for i, l := range lines {
		out[i] = LinePayload{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return out
}

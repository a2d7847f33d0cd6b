package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/orderserver/services/item/domain/models"
)

// Topics published by the catalog.
const (
	TopicItemCreated = "item.created"
	TopicItemDeleted = "item.deleted"
)

const schemaVersion = 1

// ItemCreatedEvent is published in the transaction that inserts an item.
type ItemCreatedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Version     int       `json:"version"`
	ItemID      int64     `json:"item_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewItemCreated builds the event for a freshly saved item.
func NewItemCreated(item *models.Item, at time.Time) ItemCreatedEvent {
	return ItemCreatedEvent{
		EventID:     uuid.New(),
		Version:     schemaVersion,
		ItemID:      item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price,
		OccurredAt:  at.UTC(),
	}
}

func (e ItemCreatedEvent) Topic() string      { return TopicItemCreated }
func (e ItemCreatedEvent) ID() string         { return e.EventID.String() }
func (e ItemCreatedEvent) SchemaVersion() int { return e.Version }

// ItemDeletedEvent is published in the transaction that deletes an item.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewItemDeleted builds the event for a removed item.
func NewItemDeleted(id int64, at time.Time) ItemDeletedEvent {
	return ItemDeletedEvent{
		EventID:    uuid.New(),
		Version:    schemaVersion,
		ItemID:     id,
		OccurredAt: at.UTC(),
	}
}

func (e ItemDeletedEvent) Topic() string      { return TopicItemDeleted }
func (e ItemDeletedEvent) ID() string         { return e.EventID.String() }
func (e ItemDeletedEvent) SchemaVersion() int { return e.Version }

// Key identifies the deleted item in logs.
func (e ItemDeletedEvent) Key() string { return strconv.FormatInt(e.ItemID, 10) }

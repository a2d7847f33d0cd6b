package handlers

import (
	"time"

	"github.com/ghuser/orderserver/services/order/domain/models"
)

// LineRequest is one requested line of an order.
type LineRequest struct {
	ItemID   int64 `json:"itemId"   validate:"required,gt=0" example:"1"`
	Quantity int   `json:"quantity" validate:"required,gt=0,lte=2147483647" example:"2"`
} // @name LineRequest

// CreateOrderRequest is the request body for POST /order. Status is matched
// case-insensitively and defaults to Registered.
type CreateOrderRequest struct {
	CustomerName  string        `json:"customerName"  validate:"required,max=255"       example:"Ada Lovelace"`
	CustomerEmail string        `json:"customerEmail" validate:"required,max=255"       example:"ada@example.com"`
	Status        string        `json:"status"        validate:"omitempty,max=32"       example:"Registered"`
	Lines         []LineRequest `json:"lines"         validate:"required,min=1,dive"`
} // @name CreateOrderRequest

// UpdateOrderRequest is the request body for PUT /order/{id}. Absent fields
// are left unchanged; lines, when present, replace every line of the order.
type UpdateOrderRequest struct {
	CustomerName  *string        `json:"customerName"  validate:"omitempty,max=255"       example:"Ada Lovelace"`
	CustomerEmail *string        `json:"customerEmail" validate:"omitempty,max=255"       example:"ada@example.com"`
	Status        *string        `json:"status"        validate:"omitempty,max=32"        example:"Shipped"`
	Lines         *[]LineRequest `json:"lines"         validate:"omitempty,dive"`
} // @name UpdateOrderRequest

// LineItemResponse is the catalog item a line resolves to.
type LineItemResponse struct {
	ID          int64   `json:"id"          example:"1"`
	Name        string  `json:"name"        example:"Widget"`
	Description *string `json:"description" example:"A blue widget"`
	Price       float64 `json:"price"       example:"10"`
} // @name LineItemResponse

// OrderLineResponse is a resolved line. Item is null and Orphaned is true
// when the item was deleted after the line was written.
type OrderLineResponse struct {
	ItemID   int64             `json:"itemId"   example:"1"`
	Quantity int               `json:"quantity" example:"2"`
	Item     *LineItemResponse `json:"item"`
	Orphaned bool              `json:"orphaned" example:"false"`
	Subtotal float64           `json:"subtotal" example:"20"`
} // @name OrderLineResponse

// OrderResponse is an order with its lines resolved against the catalog.
type OrderResponse struct {
	ID            int64               `json:"id"            example:"1"`
	CustomerName  string              `json:"customerName"  example:"Ada Lovelace"`
	CustomerEmail string              `json:"customerEmail" example:"ada@example.com"`
	CreatedAtUTC  time.Time           `json:"createdAtUtc"  example:"2025-01-02T10:00:00Z"`
	Status        string              `json:"status"        example:"Registered" enums:"Registered,Processing,Shipped,Delivered,Cancelled"`
	Lines         []OrderLineResponse `json:"lines"`
	Total         float64             `json:"total"         example:"20"`
} // @name OrderResponse

// OrderListResponse is one page of orders.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"  example:"1"`
	Limit  int             `json:"limit"  example:"0"`
	Offset int             `json:"offset" example:"0"`
} // @name OrderListResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"create order: invalid item reference: items [999] not in catalog"`
} // @name OrderErrorResponse

func toLineRequests(in []LineRequest) []models.LineRequest {
	out := make([]models.LineRequest, len(in))
	for i, l := range in {
		out[i] = models.LineRequest{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return out
}

func toOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CreatedAtUTC:  o.CreatedAt.UTC(),
		Status:        o.Status.String(),
		Lines:         make([]OrderLineResponse, len(o.Lines)),
		Total:         o.Total(),
	}
	for i, l := range o.Lines {
		line := OrderLineResponse{
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Orphaned: l.Orphaned(),
			Subtotal: l.Subtotal(),
		}
		if l.Item != nil {
			line.Item = &LineItemResponse{ID: l.Item.ID, Name: l.Item.Name, Price: l.Item.Price}
			if l.Item.Description != "" {
				d := l.Item.Description
				line.Item.Description = &d
			}
		}
		resp.Lines[i] = line
	}
	return resp
}

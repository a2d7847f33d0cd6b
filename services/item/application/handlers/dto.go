package handlers

import (
	"github.com/ghuser/orderserver/services/item/domain/models"
)

// CreateItemRequest is the request body for POST /item.
type CreateItemRequest struct {
	Name        string   `json:"name"        validate:"required,max=255"     example:"Widget"`
	Description *string  `json:"description" validate:"omitempty,max=4000"   example:"A blue widget"`
	Price       *float64 `json:"price"       validate:"required,gte=0"       example:"10"`
} // @name CreateItemRequest

// ItemResponse is a catalog item as returned by the API.
type ItemResponse struct {
	ID          int64   `json:"id"          example:"1"`
	Name        string  `json:"name"        example:"Widget"`
	Description *string `json:"description" example:"A blue widget"`
	Price       float64 `json:"price"       example:"10"`
} // @name ItemResponse

// ItemListResponse is one page of the catalog.
type ItemListResponse struct {
	Items  []ItemResponse `json:"items"`
	Total  int            `json:"total"  example:"1"`
	Limit  int            `json:"limit"  example:"0"`
	Offset int            `json:"offset" example:"0"`
} // @name ItemListResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"create item \"Widget\": item already exists"`
} // @name ErrorResponse

func toItemResponse(item *models.Item) ItemResponse {
	resp := ItemResponse{
		ID:    item.ID,
		Name:  item.Name.String(),
		Price: item.Price,
	}
	if item.HasDescription() {
		d := item.Description
		resp.Description = &d
	}
	return resp
}

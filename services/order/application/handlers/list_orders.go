package handlers

import (
	"net/http"

	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/pkg/httpx"
	appsvcs "github.com/ghuser/orderserver/services/order/application/services"
	"github.com/ghuser/orderserver/services/order/domain/repositories"
)

// ListOrdersHandler handles GET /order.
type ListOrdersHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Writer
}

// NewListOrdersHandler returns a ListOrdersHandler backed by the given services.
func NewListOrdersHandler(svc *appsvcs.Services, errs *errhttp.Writer) *ListOrdersHandler {
	return &ListOrdersHandler{svc: svc, errs: errs}
}

// Execute lists orders with their lines resolved against the current catalog.
//
//	@Summary		List orders
//	@Description	Lists orders ordered by id, each line resolved to its current catalog item.
//	@Tags			orders
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (0 = all)"
//	@Param			offset	query		int	false	"Orders to skip"
//	@Success		200		{object}	OrderListResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/order [get]
func (h *ListOrdersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	limit, err := httpx.IntQuery(r, "limit")
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	offset, err := httpx.IntQuery(r, "offset")
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	orders, total, err := h.svc.Order.List(r.Context(), repositories.QueryOpts{Limit: limit, Offset: offset})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	resp := OrderListResponse{
		Orders: make([]OrderResponse, 0, len(orders)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

package handlers

import (
	"net/http"

	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/pkg/httpx"
	appsvcs "github.com/ghuser/orderserver/services/order/application/services"
)

// DeleteOrderHandler handles DELETE /order/{id}.
type DeleteOrderHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Writer
}

// NewDeleteOrderHandler returns a DeleteOrderHandler backed by the given services.
func NewDeleteOrderHandler(svc *appsvcs.Services, errs *errhttp.Writer) *DeleteOrderHandler {
	return &DeleteOrderHandler{svc: svc, errs: errs}
}

// Execute removes an order and its lines.
//
//	@Summary	Delete order
//	@Tags		orders
//	@Param		id	path	int	true	"Order ID"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/order/{id} [delete]
func (h *DeleteOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	if err := h.svc.Order.Delete(r.Context(), id); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.NoContent(w)
}

package handlers

import (
	"net/http"

	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/pkg/httpx"
	pkgvalidator "github.com/ghuser/orderserver/pkg/validator"
	appsvcs "github.com/ghuser/orderserver/services/order/application/services"
	domainsvcs "github.com/ghuser/orderserver/services/order/domain/services"
)

// PutOrderHandler handles PUT /order/{id}.
type PutOrderHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Writer
}

// NewPutOrderHandler returns a PutOrderHandler backed by the given services.
func NewPutOrderHandler(svc *appsvcs.Services, errs *errhttp.Writer) *PutOrderHandler {
	return &PutOrderHandler{svc: svc, errs: errs}
}

// Execute partially updates an order.
//
//	@Summary		Update order
//	@Description	Changes only the supplied fields. Supplied lines replace every line of the order.
//	@Tags			orders
//	@Accept			json
//	@Param			id		path	int					true	"Order ID"
//	@Param			request	body	UpdateOrderRequest	true	"Fields to change"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/order/{id} [put]
func (h *PutOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[UpdateOrderRequest](w, r)
	if !ok {
		return
	}

	in := domainsvcs.PatchOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        req.Status,
	}
	if req.Lines != nil {
		lines := toLineRequests(*req.Lines)
		in.Lines = &lines
	}

	if _, err := h.svc.Order.Update(r.Context(), id, in); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.NoContent(w)
}

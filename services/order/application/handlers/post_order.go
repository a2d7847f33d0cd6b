package handlers

import (
	"net/http"

	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/pkg/httpx"
	pkgvalidator "github.com/ghuser/orderserver/pkg/validator"
	appsvcs "github.com/ghuser/orderserver/services/order/application/services"
	domainsvcs "github.com/ghuser/orderserver/services/order/domain/services"
)

// PostOrderHandler handles POST /order.
type PostOrderHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Writer
}

// NewPostOrderHandler returns a PostOrderHandler backed by the given services.
func NewPostOrderHandler(svc *appsvcs.Services, errs *errhttp.Writer) *PostOrderHandler {
	return &PostOrderHandler{svc: svc, errs: errs}
}

// Execute creates an order. Every line must reference an existing item;
// otherwise nothing is created.
//
//	@Summary	Create order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateOrderRequest	true	"Order creation request"
//	@Success	201		{object}	OrderResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/order [post]
func (h *PostOrderHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateOrderRequest](w, r)
	if !ok {
		return
	}

	order, err := h.svc.Order.Create(r.Context(), domainsvcs.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        req.Status,
		Lines:         toLineRequests(req.Lines),
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toOrderResponse(order))
}

package handlers

import (
	"net/http"

	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/pkg/httpx"
	appsvcs "github.com/ghuser/orderserver/services/item/application/services"
)

// DeleteItemHandler handles DELETE /item/{id}.
type DeleteItemHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Writer
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services, errs *errhttp.Writer) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc, errs: errs}
}

// Execute removes an item. Orders referencing it are not touched.
//
//	@Summary	Delete item
//	@Tags		items
//	@Param		id	path	int	true	"Item ID"
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/item/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	if err := h.svc.Item.Delete(r.Context(), id); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.NoContent(w)
}

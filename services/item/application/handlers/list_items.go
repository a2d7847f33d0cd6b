package handlers

import (
	"net/http"

	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/pkg/httpx"
	appsvcs "github.com/ghuser/orderserver/services/item/application/services"
	"github.com/ghuser/orderserver/services/item/domain/repositories"
)

// ListItemsHandler handles GET /item.
type ListItemsHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Writer
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services, errs *errhttp.Writer) *ListItemsHandler {
	return &ListItemsHandler{svc: svc, errs: errs}
}

// Execute lists catalog items ordered by id.
//
//	@Summary		List items
//	@Description	Lists catalog items ordered by id. A zero limit returns every item.
//	@Tags			items
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (0 = all)"
//	@Param			offset	query		int	false	"Items to skip"
//	@Success		200		{object}	ItemListResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/item [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.svc.Item.List(r.Context(), repositories.QueryOpts{Limit: limit, Offset: offset})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	resp := ItemListResponse{
		Items:  make([]ItemResponse, 0, len(items)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(item))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

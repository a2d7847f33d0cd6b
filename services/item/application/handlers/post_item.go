package handlers

import (
	"net/http"

	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/pkg/httpx"
	pkgvalidator "github.com/ghuser/orderserver/pkg/validator"
	appsvcs "github.com/ghuser/orderserver/services/item/application/services"
	domainsvcs "github.com/ghuser/orderserver/services/item/domain/services"
)

// PostItemHandler handles POST /item.
type PostItemHandler struct {
	svc  *appsvcs.Services
	errs *errhttp.Writer
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, errs *errhttp.Writer) *PostItemHandler {
	return &PostItemHandler{svc: svc, errs: errs}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Adds an item to the catalog. Names are unique (case-sensitive).
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/item [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	in := domainsvcs.CreateItemInput{Name: req.Name, Price: *req.Price}
	if req.Description != nil {
		in.Description = *req.Description
	}

	item, err := h.svc.Item.Create(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}

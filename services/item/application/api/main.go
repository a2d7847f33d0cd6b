package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/orderserver/pkg/app"
	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/services/item/application/handlers"
	appsvcs "github.com/ghuser/orderserver/services/item/application/services"
)

// ItemRoutes registers the catalog endpoints under /item.
func ItemRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	errs := errhttp.New(a.Logger, a.IsProduction())

	r.Route("/item", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(svcs, errs).Execute)
		r.Post("/", handlers.NewPostItemHandler(svcs, errs).Execute)
		r.Get("/{id}", handlers.NewGetItemHandler(svcs, errs).Execute)
		r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs, errs).Execute)
	})
}

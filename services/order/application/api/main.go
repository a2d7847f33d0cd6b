package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/orderserver/pkg/app"
	"github.com/ghuser/orderserver/pkg/errhttp"
	"github.com/ghuser/orderserver/services/order/application/handlers"
	appsvcs "github.com/ghuser/orderserver/services/order/application/services"
)

// OrderRoutes registers the ordering endpoints under /order.
func OrderRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	errs := errhttp.New(a.Logger, a.IsProduction())

	r.Route("/order", func(r chi.Router) {
		r.Get("/", handlers.NewListOrdersHandler(svcs, errs).Execute)
		r.Post("/", handlers.NewPostOrderHandler(svcs, errs).Execute)
		r.Get("/{id}", handlers.NewGetOrderHandler(svcs, errs).Execute)
		r.Put("/{id}", handlers.NewPutOrderHandler(svcs, errs).Execute)
		r.Delete("/{id}", handlers.NewDeleteOrderHandler(svcs, errs).Execute)
	})
}

package httphandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/balazs-web/smoky-fish-sub000/internal/metrics"
	"github.com/balazs-web/smoky-fish-sub000/pkg/logger"
)

// NewRouter builds the full HTTP surface of the checkout service
func NewRouter(handler *Handler, baseLogger *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(baseLogger))
	r.Use(chimiddleware.Recoverer)

	r.Post("/orders", handler.SubmitOrder)
	r.Get("/orders", handler.ListOrders)
	r.Get("/orders/{id}", handler.GetOrder)
	r.Patch("/orders/{id}/status", handler.UpdateOrderStatus)

	r.Get("/delivery/{postcode}", handler.CheckDelivery)

	r.Route("/session", func(r chi.Router) {
		r.Get("/basket", handler.GetSession)
		r.Post("/basket/items", handler.AddBasketItem)
		r.Patch("/basket/items", handler.UpdateBasketItem)
		r.Delete("/basket/items", handler.RemoveBasketItem)
		r.Delete("/basket", handler.ClearBasket)
		r.Get("/checkout", handler.GetSession)
		r.Post("/checkout/step", handler.CheckoutStep)
		r.Post("/checkout/reset", handler.CheckoutReset)
	})

	r.Get("/healthz", handler.Healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

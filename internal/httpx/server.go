package httpx

import (
	"net/http"

	"pulperia-be/internal/identity"
	"pulperia-be/internal/logger"
	"pulperia-be/internal/middleware"
	"pulperia-be/internal/notification"
	"pulperia-be/internal/order"
	"pulperia-be/internal/realtime"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the REST surface and the channel-acceptance endpoint.
func NewRouter(
	oracle identity.Oracle,
	orders order.Service,
	feed notification.Feed,
	ledger notification.Ledger,
	channels *realtime.Handler,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.AuthMiddleware(oracle))
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/health", health)
	r.Route("/api", func(api chi.Router) {
		api.Get("/health", health)
		(&OrdersHandler{Orders: orders}).Register(api)
		(&NotificationsHandler{Feed: feed, Ledger: ledger}).Register(api)
	})
	r.Get("/ws/orders", channels.ServeHTTP)

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "pulperia-backend"})
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(subs Subscriptions, contacts Contacts, allowedOrigins []string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", adminKeyHeader},
		MaxAge:         300,
	}))

	subHandler := NewSubscriberHandler(subs, logger)
	contactHandler := NewContactHandler(contacts, logger)

	r.Get("/", RootHandler())
	r.Post("/send", contactHandler.Send)
	r.Post("/subscribe", subHandler.Subscribe)
	r.Post("/unsubscribe", subHandler.Unsubscribe)
	r.Get("/admin/subscribers", subHandler.List)

	return r
}

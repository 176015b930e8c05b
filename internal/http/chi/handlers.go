package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-bridge/bridge"
	"github.com/marcelsud/webhook-bridge/routes"
)

// Handlers mounts every configured webhook source plus the service endpoints.
func Handlers(ctx context.Context, client *bridge.Client, loader *routes.Loader, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("webhook-bridge", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	hooks := NewWebhookHandlers(client, logger)
	for _, src := range loader.List() {
		hooks.Mount(r, src)
	}

	return r
}

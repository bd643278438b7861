// Package rest assembles the HTTP API.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/interfaces/http/rest/handlers"
	"github.com/Asadaligondal/Identity-Compass/interfaces/http/rest/middleware"
	"github.com/Asadaligondal/Identity-Compass/pkg/observability"
)

// RouterConfig carries the feature switches the router needs.
type RouterConfig struct {
	EnableCORS    bool
	EnableMetrics bool
}

// NewRouter assembles the chi router with middleware and all routes.
func NewRouter(
	cfg RouterConfig,
	authenticator *middleware.Authenticator,
	metrics *observability.Metrics,
	entryHandler *handlers.EntryHandler,
	importHandler *handlers.ImportHandler,
	graphHandler *handlers.GraphHandler,
	insightHandler *handlers.InsightHandler,
	mappingHandler *handlers.MappingHandler,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))
	if cfg.EnableMetrics {
		r.Use(middleware.Instrument(metrics))
	}
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})
	if cfg.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(authenticator.Handler)

		api.Post("/entries", entryHandler.CreateEntry)
		api.Get("/entries", entryHandler.ListEntries)
		api.Put("/entries/{id}", entryHandler.UpdateEntry)

		api.Post("/import", importHandler.ImportHistory)

		api.Get("/graph", graphHandler.GetGraphData)
		api.Get("/connections", graphHandler.GetConnections)

		api.Route("/insights", func(insights chi.Router) {
			insights.Get("/trajectory", insightHandler.GetTrajectory)
			insights.Get("/trends", insightHandler.GetTrends)
		})

		api.Get("/mappings", mappingHandler.ListMappings)
		api.Put("/mappings/{tag}", mappingHandler.UpdateMapping)
	})

	return r
}

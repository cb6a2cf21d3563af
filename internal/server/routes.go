package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"

	"tweetsearch/internal/handlers"
	"tweetsearch/internal/handlers/api"
	"tweetsearch/internal/metrics"
	"tweetsearch/internal/middleware"
	"tweetsearch/internal/service"
)

// Store is everything the routes need from the search record store.
type Store interface {
	service.Store
	api.RecordStore
	handlers.Pinger
}

// RegisterRoutes registers all application routes. m and gatherer may be nil,
// in which case submissions are not instrumented and /metrics is not served.
func (s *Server) RegisterRoutes(store Store, fetcher service.Fetcher, m *metrics.Metrics, gatherer prometheus.Gatherer) {
	searchService := service.NewSearchService(store, fetcher, m, s.Logger)
	historyService := service.NewHistoryService(store)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService, s.Cfg)
	historyHandler := handlers.NewHistoryHandler(historyService, s.Cfg)
	probeHandler := handlers.NewProbeHandler(store)

	// Frontend routes
	s.App.Get("/", searchHandler.Index)
	s.App.Post("/", searchHandler.Submit)
	s.App.Get("/searchhistory/", historyHandler.List)

	// Operational routes
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	if gatherer != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(gatherer)))
	}

	// Admin API (shared key only)
	if s.Cfg.IsAdminEnabled() {
		recordsHandler := api.NewRecordsHandler(store)
		admin := s.App.Group("/api/admin", middleware.AdminKey(s.Cfg.AdminAPIKey))
		admin.Get("/records", recordsHandler.List)
		admin.Get("/records/:id", recordsHandler.Get)
		admin.Post("/records", recordsHandler.Create)
		admin.Put("/records/:id", recordsHandler.Update)
		admin.Delete("/records/:id", recordsHandler.Delete)
	} else {
		s.Logger.Info("admin API disabled, set ADMIN_API_KEY to enable")
	}
}

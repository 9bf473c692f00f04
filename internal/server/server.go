// Package server exposes the read side over HTTP: dashboard stats, entity
// search and detail, filter options, analytics, and the XLSX export. There
// are no mutation endpoints; ingestion belongs to the batch CLI.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pgale/abn-tracker/internal/export"
	"github.com/pgale/abn-tracker/internal/query"
)

type Server struct {
	queries  *query.Service
	exporter *export.Service
	logger   *slog.Logger
}

func New(queries *query.Service, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{queries: queries, exporter: exporter, logger: logger}
}

// Router mounts every route on a fresh chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/entities", s.handleSearch)
		r.Route("/entities/{abn}", func(r chi.Router) {
			r.Get("/", s.handleDetail)
			r.Get("/export.xlsx", s.handleExport)
		})
		r.Get("/options/entity-types", s.handleEntityTypes)
		r.Get("/options/states", s.handleStates)
		r.Get("/options/postcodes", s.handlePostcodes)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/analytics/registrations-by-year", s.handleRegistrationsByYear)
		r.Get("/map", s.handleMap)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

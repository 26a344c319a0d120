// Package api exposes the read-only HTTP surface: health/readiness probes,
// Prometheus metrics, the search API, and the paginated sitemaps.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/metrics"
	"github.com/salaryscout/salaryscout/internal/sitemap"
	"github.com/salaryscout/salaryscout/internal/store"
)

// Directory is the slice of the store the search and readiness handlers
// consume. *store.Store satisfies it; tests use a fake.
type Directory interface {
	SearchOccupations(ctx context.Context, q string, limit int) ([]store.OccupationHit, error)
	SearchMetros(ctx context.Context, q string, limit int) ([]store.MetroHit, error)
	SearchSalaryPages(ctx context.Context, q, location string, limit int) ([]store.SalaryPageHit, error)
	GetMetadata(ctx context.Context) (store.Metadata, error)
}

// SitemapSource assembles sitemap documents. *sitemap.Builder satisfies it.
type SitemapSource interface {
	BuildIndex(ctx context.Context) (sitemap.Index, error)
	BuildPage(ctx context.Context, page int64) (sitemap.URLSet, error)
}

// Server wires HTTP handlers to the store and the sitemap builder.
type Server struct {
	router   chi.Router
	dir      Directory
	sitemaps SitemapSource
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(dir Directory, sitemaps SitemapSource, logger *zap.Logger, requestTimeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	s := &Server{
		dir:      dir,
		sitemaps: sitemaps,
		logger:   logger,
	}

	metrics.Init()
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(requestTimeout))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/api/search", s.search)
	r.Get("/sitemap.xml", s.sitemapIndex)
	r.Get("/sitemap/{id}.xml", s.sitemapPage)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	// The metadata read doubles as a database liveness probe.
	meta, err := s.dir.GetMetadata(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ready",
		"data_period": meta.DataPeriod,
	})
}

func (s *Server) sitemapIndex(w http.ResponseWriter, r *http.Request) {
	idx, err := s.sitemaps.BuildIndex(r.Context())
	if err != nil {
		s.logger.Error("sitemap index build failed", zap.Error(err))
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	metrics.ObserveSitemapPage()
	writeXML(w, func() error { return idx.Write(w) })
}

func (s *Server) sitemapPage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		http.Error(w, "invalid sitemap id", http.StatusBadRequest)
		return
	}
	set, err := s.sitemaps.BuildPage(r.Context(), id)
	if err != nil {
		s.logger.Error("sitemap page build failed", zap.Int64("page", id), zap.Error(err))
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	metrics.ObserveSitemapPage()
	writeXML(w, func() error { return set.Write(w) })
}

func writeXML(w http.ResponseWriter, render func() error) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600, s-maxage=3600")
	_ = render() //nolint:errcheck // headers are sent, nothing left to do
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

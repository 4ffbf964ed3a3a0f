// Package web serves the metrics dashboard and its JSON API over HTTP.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/config"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/query"
)

//go:embed static/index.html
var indexHTML []byte

// requestTimeout bounds a single collection, which may page through the API.
const requestTimeout = 2 * time.Minute

// Collector gathers a fresh dataset for one repository.
type Collector interface {
	Collect(ctx context.Context, owner, name, secondOwner string) (*domain.Dataset, error)
	CollectProfiles(ctx context.Context, owner, secondOwner string) (*domain.Dataset, error)
}

type Server struct {
	Address string
	server  *http.Server

	router    *chi.Mux
	collector Collector
	renderer  *chart.Renderer
	queries   *query.Router
	validate  *validator.Validate
	logger    *log.Logger
}

// New builds the chi router and registers every route.
func New(cfg *config.Config, collector Collector, renderer *chart.Renderer, logger *log.Logger) *Server {
	mux := chi.NewMux()
	srv := &Server{
		Address:   cfg.Addr,
		router:    mux,
		collector: collector,
		renderer:  renderer,
		queries:   query.NewRouter(renderer),
		validate:  config.NewValidator(),
		logger:    logger,
	}
	srv.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srv.setupRoutes()

	return srv
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Printf("dashboard listening on http://%s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting up to five seconds for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/api/repos/{owner}/{repo}", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/metrics", s.handleMetrics)
		r.Get("/charts/{metric}", s.handleChart)
		r.Get("/query", s.handleQuery)
		r.Get("/compare", s.handleCompare)
	})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// mapDomainError translates domain errors into HTTP statuses and codes.
func mapDomainError(err error) (status int, code, msg string) {
	if err == nil {
		return http.StatusOK, "", ""
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRepository):
		return http.StatusBadRequest, CodeInvalidRepository, err.Error()
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest, CodeBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnknownMetric):
		return http.StatusNotFound, CodeUnknownMetric, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout, err.Error()
	default:
		return http.StatusBadGateway, CodeUpstream, err.Error()
	}
}

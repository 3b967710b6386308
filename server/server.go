// Package server exposes the discussion list API consumed by the pagination
// client: windowed list responses carrying the total result count, single
// discussion lookups, health and metrics endpoints.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-discussion-pager/internal/metrics"
	"github.com/goliatone/go-discussion-pager/internal/store"
	"github.com/goliatone/go-discussion-pager/repositorycount"
	"github.com/goliatone/go-discussion-pager/settings"
)

// Server serves the discussion API.
type Server struct {
	lister   *repositorycount.CountingLister[*store.Discussion]
	settings settings.Settings
	logger   *slog.Logger
	router   *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a server reading discussions from base. The settings decide
// the page size forced on list requests that do not ask for one.
func New(base repositorycount.Lister[*store.Discussion], s settings.Settings, opts ...Option) *Server {
	srv := &Server{
		settings: s,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.lister = repositorycount.New[*store.Discussion](base,
		repositorycount.WithResource(resourceDiscussions),
		repositorycount.WithObserver(func(_ string, total int) {
			metrics.ListTotal.Set(float64(total))
		}),
	)
	srv.routes()
	return srv
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(RequestID, Logging(s.logger), Metrics)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(PageLimit(s.settings), CountRelay)
	api.HandleFunc("/discussions", s.listDiscussions).Methods(http.MethodGet)
	api.HandleFunc("/discussions/{id}", s.getDiscussion).Methods(http.MethodGet)

	s.router = r
}

// Package server exposes the dependency planner over HTTP.
//
// The API is read-only: every request runs one planning pass against
// the current ports tree and installed registry, so concurrent requests
// never share mutable state. Registry edits and metafile changes are
// visible on the next request without a restart.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/porg-project/porg-deps/pkg/cache"
	"github.com/porg-project/porg-deps/pkg/config"
	"github.com/porg-project/porg-deps/pkg/meta"
	"github.com/porg-project/porg-deps/pkg/plan"
	"github.com/porg-project/porg-deps/pkg/registry"
)

// Server serves the planning API.
type Server struct {
	cfg    *config.Config
	store  cache.Store // nil disables resolution caching
	logger *log.Logger
}

// New creates a Server. store may be nil to disable resolution caching.
func New(cfg *config.Config, store cache.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, store: store, logger: logger}
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/resolve/{pkg}", s.handleResolve)
		r.Get("/plan", s.handlePlan)
		r.Get("/installed", s.handleInstalled)
		r.Get("/info/{pkg}", s.handleInfo)
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// collaborators builds one request's planning stack. The metadata view
// and registry snapshot are request-scoped; the byte store is shared.
func (s *Server) collaborators() (*plan.Planner, *meta.Source, *registry.Registry, error) {
	warn := s.logger.Warnf
	source := meta.NewSource(s.cfg.PortsDir, warn)
	reg := registry.New(s.cfg.DBDir)

	var orders plan.OrderCache
	if s.store != nil {
		orders = cache.NewResolutionCache(s.store, warn)
	}

	planner, err := plan.New(source, reg, orders, plan.Options{
		Workers:  s.cfg.Resolver.Workers,
		MaxNodes: s.cfg.Resolver.MaxNodes,
		Warn:     warn,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return planner, source, reg, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}

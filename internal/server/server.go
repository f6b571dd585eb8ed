// Package server implements the corpusgraph HTTP API.
//
// The API exposes the graph pipeline over REST: ad-hoc builds from posted
// payloads, CRUD on stored corpora, derived filter metadata, and build
// statistics. All responses are JSON except graph exports in DOT or SVG
// format.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/fieldlab/corpusgraph/pkg/pipeline"
	"github.com/fieldlab/corpusgraph/pkg/store"
)

// Options configures the server.
type Options struct {
	Addr   string
	Store  store.Store
	Runner *pipeline.Runner
	Logger *log.Logger
}

// Server routes API requests to the pipeline and corpus store.
type Server struct {
	addr   string
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router

	mu     sync.Mutex
	scoped map[string]*pipeline.Runner
}

// New creates a server. Store and Runner are required; a nil logger
// falls back to the default logger.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		addr:   opts.Addr,
		store:  opts.Store,
		runner: opts.Runner,
		logger: logger,
		scoped: make(map[string]*pipeline.Runner),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/graph", s.handleBuildGraph)
		r.Get("/filters", s.handleFilters)

		r.Route("/corpora", func(r chi.Router) {
			r.Post("/", s.handleSaveCorpus)
			r.Get("/", s.handleListCorpora)
			r.Route("/{corpusID}", func(r chi.Router) {
				r.Get("/", s.handleGetCorpus)
				r.Delete("/", s.handleDeleteCorpus)
				r.Get("/graph", s.handleCorpusGraph)
				r.Get("/filters", s.handleCorpusFilters)
				r.Get("/stats", s.handleCorpusStats)
			})
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

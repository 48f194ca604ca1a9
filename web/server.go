// Package web serves the browser front end: a form that takes a book URL,
// runs the pipeline, and hands back a download link.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gaurav-prasanna/shameladocx/core/pipeline"
)

// Converter runs one book conversion and writes the result to disk.
// *pipeline.Pipeline satisfies it.
type Converter interface {
	Run(ctx context.Context, startURL, name string) (*pipeline.Result, error)
}

// Options configures a Server.
type Options struct {
	Addr              string
	DownloadName      string
	RunTimeout        time.Duration
	ReadHeaderTimeout time.Duration
	Logger            *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	handlers   *handlers
	logger     *slog.Logger
	opts       Options
}

// NewServer creates a Server and mounts its routes.
func NewServer(conv Converter, store *Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 10 * time.Second
	}
	if store == nil {
		store = NewStore(time.Hour, 100, opts.Logger)
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(Logging(opts.Logger))
	router.Use(chimiddleware.Recoverer)

	h := newHandlers(conv, store, opts)
	router.Get("/", h.index)
	router.Post("/", h.submit)
	router.Get("/download/{token}", h.download)
	router.Get("/health", h.health)

	return &Server{
		router:   router,
		handlers: h,
		logger:   opts.Logger,
		opts:     opts,
	}
}

// Router returns the chi router.
func (s *Server) Router() chi.Router {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.opts.Addr
}

// Start listens and serves until Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", s.opts.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

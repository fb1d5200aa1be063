// Package server exposes the account merger over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"personmerge/internal/merge"
)

// Config holds server configuration.
type Config struct {
	Addr         string
	MergeOptions []merge.Option // defaults, overridable per request
	TopN         int            // persons listed by /v1/report
	MaxBodyBytes int64          // largest accepted request body
}

// defaultMaxBodyBytes bounds the size of an account list accepted over HTTP.
const defaultMaxBodyBytes = 32 << 20

type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
}

// New wires routes and middleware.
//
//	GET  /healthz
//	POST /v1/merge   account array -> person array
//	POST /v1/report  account array -> merge report
func New(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(requestLogger(logger))

	h := &mergeHandler{
		defaults:     cfg.MergeOptions,
		topN:         cfg.TopN,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
	}
	s.router.Get("/healthz", h.HandleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/merge", h.HandleMerge)
		r.Post("/report", h.HandleReport)
	})
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// SPDX-License-Identifier: MIT

// Package api assembles the HTTP server of the movie info service.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/movieinfo/internal/control/http/movieinfo"
	"github.com/ManuGH/movieinfo/internal/control/middleware"
	"github.com/ManuGH/movieinfo/internal/health"
	"github.com/ManuGH/movieinfo/internal/log"
)

// Config configures the HTTP server.
type Config struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Stack         middleware.StackConfig
	EnableMetrics bool
}

// Server serves the movie info API and the operational endpoints.
type Server struct {
	cfg    Config
	router chi.Router
	http   *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New wires the router. svc backs /v1/movieinfos and hm backs /healthz and /readyz.
func New(cfg Config, svc movieinfo.Service, hm *health.Manager) *Server {
	r := middleware.NewRouter(cfg.Stack)

	r.Get("/healthz", hm.ServeHealth)
	r.Get("/readyz", hm.ServeReady)
	r.Get("/openapi.yaml", serveOpenAPI)
	if cfg.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}
	movieinfo.NewHandler(svc).Routes(r)

	return &Server{
		cfg:    cfg,
		router: r,
		http: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           r,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Shutdown. It
// returns nil after a graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	logger := log.WithComponent("api")
	logger.Info().
		Str(log.FieldEvent, "server.started").
		Str("addr", ln.Addr().String()).
		Msg("HTTP server listening")

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Addr returns the bound address once Start is listening, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	logger := log.WithComponent("api")
	logger.Info().Str(log.FieldEvent, "server.shutdown").Msg("shutting down HTTP server")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

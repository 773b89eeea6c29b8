// Package server exposes the compositor event stream over HTTP as
// Server-Sent Events. It is a read-only bridge: one route streams every
// event the listener dispatches, re-framed as SSE with ULID event ids.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// EventSource is the seam to the listener: a subscription to the JSON
// copies of all dispatched events.
type EventSource interface {
	Tap(ctx context.Context) (<-chan *message.Message, error)
}

// Config holds server configuration.
type Config struct {
	Addr       string
	EnableCORS bool
	// Heartbeat is the interval between SSE keep-alive comments.
	Heartbeat time.Duration
}

// Server is the SSE bridge.
type Server struct {
	config Config
	source EventSource
	router *chi.Mux
}

// New creates a Server streaming events from source.
func New(cfg Config, source EventSource) *Server {
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))
	}

	srv := &Server{config: cfg, source: source, router: r}
	r.Get("/healthz", srv.health)
	r.Get("/events", srv.events)
	return srv
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:        s.config.Addr,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		// No write timeout: /events streams indefinitely.
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.config.Addr).Msg("event bridge listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

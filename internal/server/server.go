// Package server exposes the discovery pipeline over HTTP for the
// embeddable widget: POST /api/discover runs a discovery, the /api/runs
// endpoints read back recorded runs.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/connectsphere/connect-cli/internal/model"
	"github.com/connectsphere/connect-cli/internal/pipeline"
	"github.com/connectsphere/connect-cli/internal/store"
)

// Runner runs one discovery. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, params model.RunParams) (*pipeline.Result, error)
}

// Server is the HTTP front end. The store may be nil; the /api/runs
// endpoints then return 404.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	pipeline Runner
	store    store.Store
	port     int
}

// New builds the router. CORS is wide open: the widget is embedded on
// arbitrary origins.
func New(port int, p Runner, st store.Store) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		router:   r,
		pipeline: p,
		store:    st,
		port:     port,
	}

	r.Get("/health", s.handleHealth)
	r.Post("/api/discover", s.handleDiscover)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{id}", s.handleGetRun)

	return s
}

// Start blocks serving requests until Shutdown or a listen error.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // a discovery run holds the response open
		IdleTimeout:  120 * time.Second,
	}
	zap.L().Info("starting server", zap.Int("port", s.port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	zap.L().Info("shutting down server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

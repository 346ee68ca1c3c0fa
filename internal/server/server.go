// Package server provides the HTTP API for certify.
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

	"github.com/voltcraft/certify/internal/config"
	"github.com/voltcraft/certify/internal/intent"
	"github.com/voltcraft/certify/internal/knowledge"
	"github.com/voltcraft/certify/internal/orchestrator"
	"github.com/voltcraft/certify/internal/storage"
)

// Server is the HTTP server for the certify API.
type Server struct {
	orchestrator *orchestrator.Engine
	classifier   *intent.Classifier
	store        storage.Store
	guidance     *knowledge.Index
	config       *config.ServerConfig
	appConfig    *config.Config
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies. The orchestrator
// may be nil when the merge model is not configured; the orchestrate
// endpoint then reports a configuration error. Store and guidance are
// optional.
func NewServer(
	orch *orchestrator.Engine,
	classifier *intent.Classifier,
	store storage.Store,
	guidance *knowledge.Index,
	cfg *config.ServerConfig,
	appCfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		orchestrator: orch,
		classifier:   classifier,
		store:        store,
		guidance:     guidance,
		config:       cfg,
		appConfig:    appCfg,
		logger:       logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(300 * time.Second))
	r.Use(middleware.Compress(5))
	// The consultation endpoint is called straight from browsers, so the
	// whole API answers preflight permissively.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Post("/api/v1/validate", s.handleValidate)
	r.Get("/api/v1/reports", s.handleListReports)
	r.Get("/api/v1/reports/{id}", s.handleGetReport)
	r.Post("/api/v1/classify", s.handleClassify)
	r.Post("/api/v1/orchestrate", s.handleOrchestrate)
	r.Post("/api/v1/certificates/verify", s.handleVerifyCertificate)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

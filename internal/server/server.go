package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/brandprompt/brandprompt/internal/config"
	apperrors "github.com/brandprompt/brandprompt/internal/errors"
	"github.com/brandprompt/brandprompt/internal/observability"
	"github.com/brandprompt/brandprompt/internal/server/handlers"
	servermw "github.com/brandprompt/brandprompt/internal/server/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	cfg    config.Config
	prompt *handlers.PromptAPI
}

// New creates a new HTTP server instance from cfg. A nil cfg uses the code
// defaults.
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	cors, err := servermw.CORS(servermw.CORSOptions{
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		AllowedOriginRegex: cfg.CORS.AllowedOriginRegex,
		AllowCredentials:   cfg.CORS.AllowCredentials,
		MaxAge:             cfg.CORS.MaxAge,
	})
	if err != nil {
		return nil, apperrors.WrapConfigInvalid(context.Background(), err, "Invalid CORS configuration")
	}

	r := chi.NewRouter()

	// Standard chi middleware
	r.Use(middleware.RealIP)

	// RequestID → Metrics → CORS → Recovery
	r.Use(servermw.RequestID)      // 1. Request ID (early for correlation)
	r.Use(servermw.RequestMetrics) // 2. Metrics (measure everything, preflights included)
	r.Use(cors)                    // 3. CORS (answers preflights before routing)
	r.Use(servermw.Recovery)       // 4. Panic recovery (closest to handlers)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		HandleError(w, req, apperrors.NewNotFoundError("The requested resource was not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		HandleError(w, req, apperrors.NewMethodNotAllowedError("The requested method is not allowed for this resource"))
	})

	s := &Server{
		router: r,
		cfg:    *cfg,
		prompt: &handlers.PromptAPI{
			DocsURL:      cfg.API.DocsURL,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
		},
	}

	// Ensure handlers use the centralized error responder
	handlers.SetHTTPErrorResponder(HandleError)

	s.registerRoutes()

	return s, nil
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
}

// Start starts the HTTP server. It blocks until the server stops and returns
// http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	if logger := observability.ServerLogger; logger != nil {
		logger.Info("Starting HTTP server",
			zap.String("host", s.cfg.Server.Host),
			zap.Int("port", s.cfg.Server.Port),
			zap.String("addr", s.server.Addr),
			zap.Strings("cors_allowed_origins", s.cfg.CORS.AllowedOrigins),
			zap.String("cors_allowed_origin_regex", s.cfg.CORS.AllowedOriginRegex))
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if logger := observability.ServerLogger; logger != nil {
		logger.Info("Shutting down HTTP server")
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for testing and instrumentation
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured server port
func (s *Server) Port() int {
	return s.cfg.Server.Port
}

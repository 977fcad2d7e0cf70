package server

import (
	"github.com/brandprompt/brandprompt/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	// Extension connectivity check
	s.router.Get("/", handlers.RootHandler)

	// Prompt API
	s.router.Get("/config", s.prompt.Config)
	s.router.Get("/settings/defaults", s.prompt.Defaults)
	s.router.Post("/prompts/generate", s.prompt.Generate)
	s.router.Get("/schema/prompt-request", s.prompt.RequestSchema)

	// Standard health endpoints
	if s.cfg.Health.Enabled {
		s.router.Get("/health", handlers.HealthHandler)
		s.router.Get("/health/live", handlers.LivenessHandler)
		s.router.Get("/health/ready", handlers.ReadinessHandler)
		s.router.Get("/health/startup", handlers.StartupHandler)
	}

	// Version endpoint
	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandprompt/brandprompt/internal/config"
	errwrap "github.com/brandprompt/brandprompt/internal/errors"
	"github.com/brandprompt/brandprompt/internal/metrics"
	"github.com/brandprompt/brandprompt/internal/observability"
	"github.com/brandprompt/brandprompt/internal/server"
	"github.com/brandprompt/brandprompt/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// identityHealthChecker validates app identity metadata
type identityHealthChecker struct {
	binaryName string
	envPrefix  string
	configName string
}

func (i identityHealthChecker) CheckHealth(ctx context.Context) error {
	switch {
	case i.binaryName == "":
		return errwrap.NewConfigInvalidError("app identity missing binary name")
	case i.envPrefix == "":
		return errwrap.NewConfigInvalidError("app identity missing env prefix")
	case i.configName == "":
		return errwrap.NewConfigInvalidError("app identity missing config name")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the prompt API server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Reload and validate configuration (restart to apply listener or CORS changes)

The server will cleanly shut down the HTTP server and flush logs on shutdown.`,
}

func init() {
	// Assigned here: runServe reaches serveCmd's flags through flagOverrides.
	serveCmd.RunE = runServe
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (default from config: localhost)")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "server port (default from config: 8000)")
}

// flagOverrides maps explicitly set command flags onto config keys.
func flagOverrides() map[string]any {
	overrides := make(map[string]any)
	flags := serveCmd.Flags()
	if flags.Changed("host") {
		overrides["server.host"] = serverHost
	}
	if flags.Changed("port") {
		overrides["server.port"] = serverPort
	}
	if verbose {
		overrides["logging.level"] = "debug"
	}
	return overrides
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	identity := GetAppIdentity()
	namespace := identity.TelemetryNamespace()

	observability.InitServerLogger(observability.ServerLoggerOptions{
		Service:     identity.BinaryName,
		Level:       cfg.Logging.Level,
		Environment: cfg.Logging.Environment,
		Namespace:   namespace,
	})
	logger := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(namespace, cfg.Metrics.Port); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}
		metrics.SetServerStartTime(time.Now().Unix())
	}

	logger.Info("Initializing server",
		zap.String("service", identity.BinaryName),
		zap.String("namespace", namespace),
		zap.String("version", versionInfo.Version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.Int("metrics_port", observability.GetMetricsPort()))

	handlers.InitHealthManager(versionInfo.Version)
	hm := handlers.GetHealthManager()
	hm.RegisterChecker("composer", handlers.HealthCheckerFunc(composerSelfCheck))
	hm.RegisterChecker("app_identity", identityHealthChecker{
		binaryName: identity.BinaryName,
		envPrefix:  identity.EnvPrefix,
		configName: identity.ConfigName,
	})
	if cfg.Metrics.Enabled {
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
	}

	handlers.SetAppIdentity(identity)

	srv, err := server.New(cfg)
	if err != nil {
		return withExitCode(foundry.ExitConfigInvalid, "invalid server configuration", err)
	}

	// Register graceful shutdown handlers (LIFO order - last registered, first executed)
	// Handler 1: Flush logger (executed last)
	signals.OnShutdown(func(ctx context.Context) error {
		logger.Info("Flushing logger...")
		if err := logger.Sync(); err != nil {
			// Sync errors are often benign (stdout/stderr already closed)
			logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})

	// Handler 2: Stop the metrics exporter
	signals.OnShutdown(func(ctx context.Context) error {
		if err := observability.ShutdownMetrics(); err != nil {
			logger.Warn("Metrics exporter shutdown failed", zap.Error(err))
		}
		return nil
	})

	// Handler 3: Shutdown HTTP server (executed first)
	signals.OnShutdown(func(ctx context.Context) error {
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errwrap.WrapInternal(ctx, err, "server shutdown failed")
		}

		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	signals.OnReload(func(ctx context.Context) error {
		return reloadConfig(ctx, cfg)
	})

	// Enable double-tap force quit (Ctrl+C within 2 seconds)
	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	err = firstError(
		func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		func() error {
			if err := signals.Listen(cmd.Context()); err != nil {
				logger.Error("Signal handler error", zap.Error(err))
				return err
			}
			return nil
		},
	)
	if err != nil {
		return errwrap.WrapInternal(cmd.Context(), err, "server error")
	}

	return nil
}

// firstError runs each function in its own goroutine and returns the first
// non-nil error. It blocks until one fails; a function returning nil never
// unblocks it. Every sender has a buffer slot, so late failures never block.
func firstError(fns ...func() error) error {
	errChan := make(chan error, len(fns))
	for _, fn := range fns {
		go func(fn func() error) {
			if err := fn(); err != nil {
				errChan <- err
			}
		}(fn)
	}
	return <-errChan
}

// reloadConfig re-reads every config layer on SIGHUP. The running listener
// keeps its settings; the reloaded values are validated and logged so an
// operator can confirm a restart will succeed.
func reloadConfig(ctx context.Context, running *config.Config) error {
	logger := observability.ServerLogger
	logger.Info("Received SIGHUP: attempting config reload")

	next, err := config.Load(ctx, loadOptions())
	if err != nil {
		logger.Error("Failed to reload configuration", zap.Error(err))
		return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
	}

	fields := []zap.Field{
		zap.String("log_level", next.Logging.Level),
		zap.String("docs_url", next.API.DocsURL),
	}
	if next.Server != running.Server || !sameCORS(next.CORS, running.CORS) {
		fields = append(fields, zap.Bool("restart_required", true))
	}
	logger.Info("Configuration reloaded successfully", fields...)
	return nil
}

func sameCORS(a, b config.CORSConfig) bool {
	if a.AllowedOriginRegex != b.AllowedOriginRegex || a.AllowCredentials != b.AllowCredentials ||
		a.MaxAge != b.MaxAge || len(a.AllowedOrigins) != len(b.AllowedOrigins) {
		return false
	}
	for i := range a.AllowedOrigins {
		if a.AllowedOrigins[i] != b.AllowedOrigins[i] {
			return false
		}
	}
	return true
}

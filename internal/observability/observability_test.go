package observability

import (
	"testing"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/fulmenhq/gofulmen/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitCLILogger(t *testing.T) {
	InitCLILogger("brandprompt-test", true)
	require.NotNil(t, CLILogger)

	CLILogger.Debug("verbose message", zap.String("mode", "verbose"))
}

func TestInitServerLogger(t *testing.T) {
	InitServerLogger(ServerLoggerOptions{
		Service:     "brandprompt-test",
		Level:       "debug",
		Environment: "test",
		Namespace:   "brandprompt",
	})
	require.NotNil(t, ServerLogger)

	ServerLogger.Info("structured message",
		zap.String("component", "test"),
		zap.String("request_id", "req-1"))
}

func TestServerLoggerConfig(t *testing.T) {
	cfg := serverLoggerConfig(ServerLoggerOptions{Service: "svc", Level: "WARN", Namespace: "ns"})

	assert.Equal(t, logging.ProfileStructured, cfg.Profile)
	assert.Equal(t, "WARN", cfg.DefaultLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "ns", cfg.StaticFields["namespace"])
	require.Len(t, cfg.Sinks, 1)
	assert.Equal(t, "json", cfg.Sinks[0].Format)

	cfg = serverLoggerConfig(ServerLoggerOptions{Service: "svc"})
	assert.NotContains(t, cfg.StaticFields, "namespace")
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"trace":   "TRACE",
		"debug":   "DEBUG",
		"info":    "INFO",
		"warning": "WARN",
		" Error ": "ERROR",
		"":        "INFO",
		"verbose": "INFO",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}

func TestShutdownMetricsWithoutExporter(t *testing.T) {
	PrometheusExporter = nil
	assert.NoError(t, ShutdownMetrics())
}

func TestCrucibleVersionAvailable(t *testing.T) {
	version := crucible.GetVersion()
	assert.NotEmpty(t, version.Gofulmen)
	assert.NotEmpty(t, version.Crucible)
}

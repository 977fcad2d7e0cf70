package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Config represents the complete application configuration.
// Values are layered: code defaults, then the user config file, then
// environment variables, then runtime overrides.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	CORS    CORSConfig    `mapstructure:"cors"`
	API     APIConfig     `mapstructure:"api"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxBodyBytes caps request bodies on the prompt endpoint.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// CORSConfig controls which browser origins may call the API.
//
// The browser extension runs on a chrome-extension:// origin whose ID is not
// known ahead of time, so origins can also be matched by regular expression.
type CORSConfig struct {
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	AllowedOriginRegex string   `mapstructure:"allowed_origin_regex"`
	AllowCredentials   bool     `mapstructure:"allow_credentials"`
	MaxAge             int      `mapstructure:"max_age"`
}

// APIConfig holds values advertised to clients through GET /config.
type APIConfig struct {
	DocsURL string `mapstructure:"docs_url"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Environment is attached to every structured log line.
	Environment string `mapstructure:"environment"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	// Enabled controls whether the Prometheus exporter is started
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated exporter port; /metrics on the main server proxies it.
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	// Enabled controls whether /health endpoints are exposed
	Enabled bool `mapstructure:"enabled"`
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks values that would otherwise fail at server start.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		problems = append(problems, "server.max_body_bytes must be positive")
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 0 || c.Metrics.Port > 65535) {
		problems = append(problems, fmt.Sprintf("metrics.port %d out of range", c.Metrics.Port))
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level))
	}
	if c.CORS.AllowedOriginRegex != "" {
		if _, err := regexp.Compile(c.CORS.AllowedOriginRegex); err != nil {
			problems = append(problems, fmt.Sprintf("cors.allowed_origin_regex: %v", err))
		}
	}
	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				problems = append(problems, "cors.allow_credentials cannot be combined with a wildcard origin")
				break
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

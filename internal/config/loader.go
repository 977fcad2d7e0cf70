// Package config provides centralized configuration management for brandprompt.
// It layers configuration with spf13/viper:
// Layer 1: code defaults (SetDefaults)
// Layer 2: user config file (explicit path or XDG paths from gofulmen/config)
// Layer 3: environment variables and runtime overrides
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fulmenhq/gofulmen/appidentity"
	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/brandprompt/brandprompt/internal/appid"
)

const (
	fallbackAppName   = "brandprompt"
	fallbackEnvPrefix = "BRANDPROMPT_"

	// DefaultMaxBodyBytes is the request body cap for POST /prompts/generate.
	DefaultMaxBodyBytes int64 = 1 << 20

	// DefaultOriginRegex admits any browser extension origin.
	DefaultOriginRegex = `^chrome-extension://.*$`
)

// DefaultAllowedOrigins are the local development front-ends.
var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:3001",
	"http://127.0.0.1:3001",
}

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// LoadOptions selects the optional layers applied by Load.
type LoadOptions struct {
	// ConfigFile is an explicit config path; when empty the XDG paths are searched.
	ConfigFile string

	// Overrides are applied last, keyed by dotted path or nested maps.
	Overrides map[string]any
}

// SetDefaults registers code defaults on v.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("cors.allowed_origin_regex", DefaultOriginRegex)
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)

	// API defaults
	v.SetDefault("api.docs_url", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.environment", "production")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Health check defaults
	v.SetDefault("health.enabled", true)
}

// Load builds a Config from all layers. It is safe to call repeatedly, for
// example on SIGHUP.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	identity, err := appid.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load app identity: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = discoverUserConfig(identity)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	bindEnv(v, envPrefix(identity))

	for key, value := range flatten("", opts.Overrides) {
		v.Set(key, value)
	}

	cfg, err := decode(v.AllSettings())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Default returns the configuration built from code defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := decode(v.AllSettings())
	if err != nil {
		// Defaults are static; a decode failure is a programming error.
		panic(err)
	}
	return cfg
}

func decode(settings map[string]any) (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.CORS.AllowedOrigins = trimAll(cfg.CORS.AllowedOrigins)
	return cfg, nil
}

// bindEnv maps {PREFIX}{SECTION}_{KEY} onto every known key, plus the short
// aliases operators are used to.
func bindEnv(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(strings.TrimSuffix(prefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	aliases := map[string]string{
		"server.host":   "HOST",
		"server.port":   "PORT",
		"logging.level": "LOG_LEVEL",
		"api.docs_url":  "DOCS_URL",
	}
	for key, alias := range aliases {
		envKey := prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envKey, prefix+alias)
	}
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// discoverUserConfig returns the first existing user config file, if any.
func discoverUserConfig(identity *appidentity.Identity) string {
	for _, candidate := range userConfigCandidates(identity) {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// userConfigCandidates expands the XDG config locations from gofulmen/config
// into concrete file paths.
func userConfigCandidates(identity *appidentity.Identity) []string {
	configName, binaryName := appNames(identity)

	legacyNames := []string{}
	if binaryName != configName {
		legacyNames = append(legacyNames, binaryName)
	}

	var candidates []string
	for _, p := range gfconfig.GetAppConfigPaths(configName, legacyNames...) {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml", ".json", ".toml":
			candidates = append(candidates, p)
		default:
			candidates = append(candidates, filepath.Join(p, "config.yaml"))
		}
	}
	return candidates
}

func appNames(identity *appidentity.Identity) (configName string, binaryName string) {
	configName = fallbackAppName
	binaryName = fallbackAppName
	if identity == nil {
		return configName, binaryName
	}

	if strings.TrimSpace(identity.ConfigName) != "" {
		configName = identity.ConfigName
	}
	if strings.TrimSpace(identity.BinaryName) != "" {
		binaryName = identity.BinaryName
	}
	return configName, binaryName
}

func envPrefix(identity *appidentity.Identity) string {
	prefix := fallbackEnvPrefix
	if identity != nil && identity.EnvPrefix != "" {
		prefix = identity.EnvPrefix
	}
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath(ctx context.Context) string {
	identity, _ := appid.Get(ctx)
	configName, _ := appNames(identity)
	configDir := gfconfig.GetAppConfigDir(configName)
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// flatten turns nested override maps into dotted viper keys.
func flatten(prefix string, in map[string]any) map[string]any {
	out := make(map[string]any)
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := in[k].(map[string]any); ok {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = in[k]
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ErrNoConfigFile is returned by ConfigFileUsed when only defaults apply.
var ErrNoConfigFile = errors.New("no config file found")

// ConfigFileUsed reports which file Load would read for the given options.
func ConfigFileUsed(ctx context.Context, opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		return opts.ConfigFile, nil
	}
	identity, err := appid.Get(ctx)
	if err != nil {
		return "", err
	}
	if path := discoverUserConfig(identity); path != "" {
		return path, nil
	}
	return "", ErrNoConfigFile
}

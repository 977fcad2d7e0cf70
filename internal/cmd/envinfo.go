package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandprompt/brandprompt/internal/config"
	"github.com/brandprompt/brandprompt/internal/observability"
	"github.com/brandprompt/brandprompt/internal/prompt"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display environment, configuration, and version information.",
	Run: func(cmd *cobra.Command, args []string) {
		logger := observability.CLILogger
		version := crucible.GetVersion()
		identity := GetAppIdentity()

		logger.Info("=== Environment Information ===")
		logger.Info("")

		logger.Info("Application:")
		logger.Info("  Name:       " + identity.BinaryName)
		logger.Info("  Version:    " + versionInfo.Version)
		logger.Info("  API:        " + prompt.APIVersion)
		logger.Info("  Commit:     " + versionInfo.Commit)
		logger.Info("  Built:      " + versionInfo.BuildDate)
		logger.Info("")

		logger.Info("SSOT:")
		logger.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		logger.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		logger.Info("")

		logger.Info("Runtime:")
		logger.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		logger.Info("  GOOS:       "+runtime.GOOS, zap.String("goos", runtime.GOOS))
		logger.Info("  GOARCH:     "+runtime.GOARCH, zap.String("goarch", runtime.GOARCH))
		logger.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		logger.Info("")

		cfg := currentConfig()
		configFile, err := config.ConfigFileUsed(cmd.Context(), loadOptions())
		if err != nil {
			configFile = "(none; default path " + config.DefaultConfigPath(cmd.Context()) + ")"
		}

		logger.Info("Configuration:")
		logger.Info("  Config File:    "+configFile, zap.String("config_file", configFile))
		logger.Info("  Server Host:    "+cfg.Server.Host, zap.String("host", cfg.Server.Host))
		logger.Info(fmt.Sprintf("  Server Port:    %d", cfg.Server.Port), zap.Int("port", cfg.Server.Port))
		logger.Info(fmt.Sprintf("  Max Body:       %d bytes", cfg.Server.MaxBodyBytes), zap.Int64("max_body_bytes", cfg.Server.MaxBodyBytes))
		logger.Info("  Log Level:      "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		logger.Info(fmt.Sprintf("  Metrics:        %t (port %d)", cfg.Metrics.Enabled, cfg.Metrics.Port),
			zap.Bool("metrics_enabled", cfg.Metrics.Enabled), zap.Int("metrics_port", cfg.Metrics.Port))
		if strings.TrimSpace(cfg.API.DocsURL) != "" {
			logger.Info("  Docs URL:       "+cfg.API.DocsURL, zap.String("docs_url", cfg.API.DocsURL))
		}
		logger.Info("")

		logger.Info("CORS:")
		logger.Info("  Origins:        "+strings.Join(cfg.CORS.AllowedOrigins, ", "), zap.Strings("allowed_origins", cfg.CORS.AllowedOrigins))
		logger.Info("  Origin Regex:   "+cfg.CORS.AllowedOriginRegex, zap.String("allowed_origin_regex", cfg.CORS.AllowedOriginRegex))
		logger.Info(fmt.Sprintf("  Credentials:    %t", cfg.CORS.AllowCredentials))
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/brandprompt/brandprompt/internal/errors"
	"github.com/brandprompt/brandprompt/internal/observability"
	"github.com/brandprompt/brandprompt/internal/prompt"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long: `Run a self-health check to verify the application can start successfully.

With --server the running API is probed as well (GET /health on the
configured host and port, or on --url).`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().Bool("server", false, "also probe the running server's /health endpoint")
	healthCmd.Flags().String("url", "", "base URL of the server to probe (implies --server)")
	healthCmd.Flags().Duration("timeout", 5*time.Second, "server probe timeout")
}

func runHealth(cmd *cobra.Command, args []string) error {
	logger := observability.CLILogger
	logger.Info("Running health check...")

	if versionInfo.Version == "" {
		return withExitCode(foundry.ExitConfigInvalid, "version information missing",
			errwrap.NewConfigInvalidError("Version information missing"))
	}
	logger.Debug("Version check passed", zap.String("version", versionInfo.Version))
	logger.Info("✅ Version information available")

	if err := composerSelfCheck(cmd.Context()); err != nil {
		return withExitCode(foundry.ExitFailure, "prompt composer self-check failed", err)
	}
	logger.Info("✅ Prompt composer ready")

	cfg := currentConfig()
	if err := cfg.Validate(); err != nil {
		return withExitCode(foundry.ExitConfigInvalid, "configuration invalid", err)
	}
	logger.Info("✅ Configuration valid")

	probeServer, _ := cmd.Flags().GetBool("server")
	baseURL, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if probeServer || baseURL != "" {
		if baseURL == "" {
			baseURL = "http://" + net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		if err := probeHealthEndpoint(ctx, http.DefaultClient, baseURL); err != nil {
			return withExitCode(foundry.ExitExternalServiceUnavailable, "server health probe failed", err)
		}
		logger.Info("✅ Server healthy", zap.String("url", baseURL))
	}

	logger.Info("✅ All health checks passed")
	return nil
}

// composerSelfCheck validates and composes a fixed request end to end.
func composerSelfCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	defaults := prompt.Defaults()
	req, err := prompt.Validate(map[string]any{
		"orientation": string(prompt.OrientationPost),
		"platform":    string(prompt.PlatformOther),
		"brief":       "Health check",
		"brand": map[string]any{
			"brand_name": defaults.Brand.BrandName,
		},
	})
	if err != nil {
		return err
	}

	resp := prompt.Generate(req)
	if !strings.Contains(resp.Prompt, "Brand name: "+defaults.Brand.BrandName) {
		return errwrap.NewInternalError("composed prompt is missing the brand section")
	}
	return nil
}

// probeHealthEndpoint expects 200 from baseURL/health.
func probeHealthEndpoint(ctx context.Context, client *http.Client, baseURL string) error {
	url := strings.TrimRight(baseURL, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

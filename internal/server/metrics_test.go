package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/gofulmen/telemetry/exporters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandprompt/brandprompt/internal/config"
	"github.com/brandprompt/brandprompt/internal/observability"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// stubExporter installs an exporter that is never started, so the exporter's
// own port stays unresolved and the handler falls back to configuration.
func stubExporter(t *testing.T) {
	t.Helper()
	observability.PrometheusExporter = exporters.NewPrometheusExporter("test", ":0")
	t.Cleanup(func() {
		observability.PrometheusExporter = nil
	})
}

// captureScrapes replaces the proxy client and records every upstream request.
func captureScrapes(t *testing.T, respond func(*http.Request) (*http.Response, error)) *[]*http.Request {
	t.Helper()
	original := metricsProxyClient
	t.Cleanup(func() {
		metricsProxyClient = original
	})

	var seen []*http.Request
	metricsProxyClient = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			seen = append(seen, req)
			return respond(req)
		}),
	}
	return &seen
}

func prometheusResponse(contentType string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("# HELP brandprompt_prompt_generated_total Prompts generated\nbrandprompt_prompt_generated_total 3\n")),
			Header:     make(http.Header),
		}
		if contentType != "" {
			resp.Header.Set("Content-Type", contentType)
		}
		resp.Header.Set("Connection", "close")
		return resp, nil
	}
}

// loadMetricsPort loads configuration with the given metrics port, restoring
// a default load afterwards.
func loadMetricsPort(t *testing.T, port int) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	ctx := context.Background()
	_, err := config.Load(ctx, config.LoadOptions{Overrides: map[string]any{"metrics.port": port}})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = config.Load(ctx, config.LoadOptions{})
	})
}

func TestMetricsHandlerScrapesLoadedConfigPort(t *testing.T) {
	require.Zero(t, observability.GetMetricsPort(), "exporter port must be unresolved for this test")
	loadMetricsPort(t, 9311)
	stubExporter(t)
	seen := captureScrapes(t, prometheusResponse("text/plain; version=0.0.4"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept", "application/openmetrics-text")
	rec := httptest.NewRecorder()
	MetricsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *seen, 1)
	upstream := (*seen)[0]
	assert.Equal(t, "127.0.0.1:9311", upstream.URL.Host)
	assert.Equal(t, "/metrics", upstream.URL.Path)
	assert.Equal(t, "application/openmetrics-text", upstream.Header.Get("Accept"))

	assert.Contains(t, rec.Body.String(), "brandprompt_prompt_generated_total 3")
	assert.Empty(t, rec.Header().Get("Connection"))
}

func TestMetricsHandlerFallsBackToDefaultPort(t *testing.T) {
	require.Zero(t, observability.GetMetricsPort(), "exporter port must be unresolved for this test")
	// Port 0 asks for random assignment; until the exporter reports its
	// address the code default is scraped.
	loadMetricsPort(t, 0)
	stubExporter(t)
	seen := captureScrapes(t, prometheusResponse(""))

	rec := httptest.NewRecorder()
	MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *seen, 1)
	assert.Equal(t, "127.0.0.1:9090", (*seen)[0].URL.Host)
	assert.Equal(t, "text/plain; version=0.0.4", rec.Header().Get("Content-Type"))
}

func TestMetricsHandlerExporterUnreachable(t *testing.T) {
	loadMetricsPort(t, 9312)
	stubExporter(t)
	captureScrapes(t, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	rec := httptest.NewRecorder()
	MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "EXTERNAL_SERVICE_ERROR", body.Error.Code)
}

func TestMetricsHandlerWithoutExporter(t *testing.T) {
	observability.PrometheusExporter = nil

	rec := httptest.NewRecorder()
	MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	assert.Equal(t, "Metrics exporter not initialized", body.Error.Message)
}

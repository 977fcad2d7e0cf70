package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandprompt/brandprompt/internal/config"
	apperrors "github.com/brandprompt/brandprompt/internal/errors"
	"github.com/brandprompt/brandprompt/internal/prompt"
	"github.com/brandprompt/brandprompt/internal/server/handlers"
)

const acmePayload = `{
  "orientation": "post",
  "platform": "linkedin",
  "brief": "Announce our new analytics feature.",
  "brand": {"brand_name": "Acme Analytics"}
}`

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(handlers.ResetHTTPErrorResponder)
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.NotEmpty(t, body.Error.RequestID)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/prompts/generate", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "METHOD_NOT_ALLOWED", body.Error.Code)
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/", "/config", "/settings/defaults", "/schema/prompt-request", "/version"} {
		rec := serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestServerGeneratePrompt(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/prompts/generate", strings.NewReader(acmePayload))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(srv, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp prompt.GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Prompt, "Brand name: Acme Analytics")
	assert.Equal(t, "medium", resp.Metadata["length"])
}

func TestServerGenerateValidationEnvelope(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/prompts/generate",
		strings.NewReader(`{"orientation":"tweet","platform":"linkedin","brief":"x","brand":{"brand_name":"A"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	rec := serve(srv, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Equal(t, "req-123", body.Error.RequestID)
	assert.Contains(t, body.Error.Details, "errors")
}

func TestServerDocsURLFromConfig(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.API.DocsURL = "https://docs.example.com"
	})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg prompt.PublicConfig
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cfg))
	require.NotNil(t, cfg.DocsURL)
	assert.Equal(t, "https://docs.example.com", *cfg.DocsURL)
}

func TestServerCORS(t *testing.T) {
	srv := newTestServer(t, nil)

	t.Run("ExtensionPreflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/prompts/generate", nil)
		req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type")
		rec := serve(srv, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "chrome-extension://abcdefghijklmnop", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("LocalDevOrigin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/config", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := serve(srv, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("UnknownOriginGetsNoHeaders", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/config", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := serve(srv, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("UnknownOriginPreflightRejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/prompts/generate", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := serve(srv, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServerHealthRoutesFollowConfig(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Health.Enabled = false
	})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRejectsInvalidOriginRegex(t *testing.T) {
	cfg := config.Default()
	cfg.CORS.AllowedOriginRegex = "(unclosed"

	_, err := New(cfg)
	require.Error(t, err)
}

func TestServerAddr(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.Host = "0.0.0.0"
		cfg.Server.Port = 8123
	})

	assert.Equal(t, "0.0.0.0:8123", srv.Addr())
	assert.Equal(t, 8123, srv.Port())
}

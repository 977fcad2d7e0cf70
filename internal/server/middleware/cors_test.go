package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCORSHandler(t *testing.T, opts CORSOptions) http.Handler {
	t.Helper()
	mw, err := CORS(opts)
	require.NoError(t, err)
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("handled"))
	}))
}

func defaultCORSOptions() CORSOptions {
	return CORSOptions{
		AllowedOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3001"},
		AllowedOriginRegex: `chrome-extension://.*`,
		MaxAge:             600,
	}
}

func TestCORS_SimpleRequestFromAllowedOrigin(t *testing.T) {
	handler := newCORSHandler(t, defaultCORSOptions())

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "handled", rec.Body.String())
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_ExtensionOriginMatchesRegex(t *testing.T) {
	handler := newCORSHandler(t, defaultCORSOptions())

	req := httptest.NewRequest(http.MethodPost, "/prompts/generate", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefghijklmnop")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "chrome-extension://abcdefghijklmnop", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RegexMustMatchWholeOrigin(t *testing.T) {
	handler := newCORSHandler(t, defaultCORSOptions())

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	req.Header.Set("Origin", "https://evil.example/chrome-extension://x")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_SimpleRequestFromUnknownOriginPassesWithoutHeaders(t *testing.T) {
	handler := newCORSHandler(t, defaultCORSOptions())

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	req.Header.Set("Origin", "https://other.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "handled", rec.Body.String())
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightAllowed(t *testing.T) {
	handler := newCORSHandler(t, defaultCORSOptions())

	req := httptest.NewRequest(http.MethodOptions, "/prompts/generate", nil)
	req.Header.Set("Origin", "chrome-extension://abc")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-custom")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "chrome-extension://abc", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "content-type, x-custom", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_PreflightDisallowed(t *testing.T) {
	handler := newCORSHandler(t, defaultCORSOptions())

	req := httptest.NewRequest(http.MethodOptions, "/prompts/generate", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INVALID_INPUT", body.Error.Code)
	assert.Equal(t, "Disallowed CORS origin", body.Error.Message)
}

func TestCORS_PlainOptionsReachesHandler(t *testing.T) {
	handler := newCORSHandler(t, defaultCORSOptions())

	req := httptest.NewRequest(http.MethodOptions, "/config", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "handled", rec.Body.String())
}

func TestCORS_WildcardAndCredentials(t *testing.T) {
	handler := newCORSHandler(t, CORSOptions{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://any.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	handler = newCORSHandler(t, CORSOptions{
		AllowedOrigins:   []string{"https://app.example"},
		AllowCredentials: true,
	})
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_InvalidRegex(t *testing.T) {
	_, err := CORS(CORSOptions{AllowedOriginRegex: "("})
	require.Error(t, err)
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brandprompt/brandprompt/internal/observability"
)

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// EndpointPattern extracts the chi route pattern to avoid high-cardinality paths
func EndpointPattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if routePattern := rctx.RoutePattern(); routePattern != "" {
			return routePattern
		}
	}

	// Fallback to path-based categorization for unmatched routes
	switch path := r.URL.Path; path {
	case "/health", "/health/live", "/health/ready", "/health/startup":
		return "/health/*"
	case "/", "/config", "/settings/defaults", "/prompts/generate",
		"/schema/prompt-request", "/version", "/metrics":
		return path
	default:
		return "/unknown"
	}
}

// RequestMetrics emits Prometheus-style HTTP metrics and logs each request.
// Probe and scrape traffic is logged at debug level.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		requestSize := r.ContentLength
		if requestSize < 0 {
			requestSize = 0
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		endpoint := EndpointPattern(r)
		status := strconv.Itoa(wrapped.statusCode)

		if sys := observability.TelemetrySystem; sys != nil {
			commonLabels := map[string]string{
				"method":   r.Method,
				"endpoint": endpoint,
				"status":   status,
			}
			sizeLabels := map[string]string{
				"method":   r.Method,
				"endpoint": endpoint,
			}

			_ = sys.Counter("http_requests_total", 1, commonLabels)
			_ = sys.Histogram("http_request_duration_ms", duration, commonLabels)
			_ = sys.Gauge("http_request_size_bytes", float64(requestSize), sizeLabels)
			_ = sys.Gauge("http_response_size_bytes", float64(wrapped.bytesWritten), sizeLabels)

			if wrapped.statusCode >= 400 {
				errorType := "client_error"
				if wrapped.statusCode >= 500 {
					errorType = "server_error"
				}
				_ = sys.Counter("http_errors_total", 1, map[string]string{
					"method":     r.Method,
					"endpoint":   endpoint,
					"status":     status,
					"error_type": errorType,
				})
			}
		}

		logger := observability.ServerLogger
		if logger == nil {
			return
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("endpoint", endpoint),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", duration),
			zap.Int64("request_size", requestSize),
			zap.Int64("response_size", wrapped.bytesWritten),
			zap.String("request_id", GetRequestID(r.Context())),
		}
		if origin := r.Header.Get("Origin"); origin != "" {
			fields = append(fields, zap.String("origin", origin))
		}
		if isProbe(endpoint) {
			logger.Debug("HTTP request completed", fields...)
			return
		}
		logger.Info("HTTP request completed", fields...)
	})
}

func isProbe(endpoint string) bool {
	return endpoint == "/" || endpoint == "/metrics" || strings.HasPrefix(endpoint, "/health")
}

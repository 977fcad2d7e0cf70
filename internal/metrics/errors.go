package metrics

import (
	"strconv"

	"github.com/brandprompt/brandprompt/internal/observability"
)

// Error metric names.
const (
	ErrorsTotalName = "errors_total"
	PanicsTotalName = "panics_total"
)

// Status classes used to split caller mistakes from service faults.
const (
	StatusClassClient = "client"
	StatusClassServer = "server"
)

// ErrorResponse describes one error envelope written to a caller. Endpoint
// is a route pattern such as /prompts/generate, never a raw path.
type ErrorResponse struct {
	Code     string
	Status   int
	Endpoint string
}

// RecordError counts an error response by code, status and route.
func RecordError(resp ErrorResponse) {
	if observability.TelemetrySystem == nil {
		return
	}
	endpoint := resp.Endpoint
	if endpoint == "" {
		endpoint = "/unknown"
	}
	_ = observability.TelemetrySystem.Counter(ErrorsTotalName, 1, map[string]string{
		"error_code":   resp.Code,
		"http_status":  strconv.Itoa(resp.Status),
		"status_class": StatusClass(resp.Status),
		"endpoint":     endpoint,
	})
}

// RecordPanic counts a recovered handler panic on the given route.
func RecordPanic(endpoint string) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(PanicsTotalName, 1, map[string]string{
		"endpoint": endpoint,
	})
}

// StatusClass reports whether an HTTP status blames the caller or the service.
func StatusClass(status int) string {
	if status >= 500 {
		return StatusClassServer
	}
	return StatusClassClient
}

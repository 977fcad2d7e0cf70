package metrics

import (
	"time"

	"github.com/brandprompt/brandprompt/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Operations metrics
	OperationsTotal       = "app_operations_total"
	OperationsErrorsTotal = "app_operations_errors_total"

	// Prompt composition metrics
	PromptsGeneratedTotal       = "prompt_generated_total"
	PromptValidationErrorsTotal = "prompt_validation_errors_total"
	PromptComposeDuration       = "prompt_compose_duration_ms"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
)

// Operation names recorded under OperationsTotal.
const (
	OperationGeneratePrompt = "generate_prompt"
	OperationRenderPrompt   = "render_prompt"
)

// RecordOperation records an application operation with status
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			OperationsTotal,
			1,
			map[string]string{
				"operation": operation,
				"status":    status,
			},
		)
	}
}

// RecordOperationError records an application operation error
func RecordOperationError(operation string, errorType string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			OperationsErrorsTotal,
			1,
			map[string]string{
				"operation":  operation,
				"error_type": errorType,
			},
		)
	}
}

// RecordPromptGenerated counts a composed prompt and how long composition took.
// Labels are drawn from closed enums so cardinality stays bounded.
func RecordPromptGenerated(orientation, platform string, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	labels := map[string]string{
		"orientation": orientation,
		"platform":    platform,
	}
	_ = observability.TelemetrySystem.Counter(PromptsGeneratedTotal, 1, labels)
	_ = observability.TelemetrySystem.Histogram(PromptComposeDuration, duration, labels)
}

// RecordValidationErrors counts field errors by type for a rejected request.
func RecordValidationErrors(errorTypes []string) {
	if observability.TelemetrySystem == nil {
		return
	}

	for _, errorType := range errorTypes {
		_ = observability.TelemetrySystem.Counter(
			PromptValidationErrorsTotal,
			1,
			map[string]string{
				"error_type": errorType,
			},
		)
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

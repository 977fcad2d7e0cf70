package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/elnormous/contenttype"
	"go.uber.org/zap"

	apperrors "github.com/brandprompt/brandprompt/internal/errors"
	"github.com/brandprompt/brandprompt/internal/metrics"
	"github.com/brandprompt/brandprompt/internal/observability"
	"github.com/brandprompt/brandprompt/internal/prompt"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

// PromptAPI serves the prompt endpoints.
type PromptAPI struct {
	// DocsURL is advertised by GET /config; empty means null.
	DocsURL string
	// MaxBodyBytes caps POST /prompts/generate bodies.
	MaxBodyBytes int64
}

// Config handles GET /config.
func (api *PromptAPI) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, prompt.Options(api.DocsURL))
}

// Defaults handles GET /settings/defaults.
func (api *PromptAPI) Defaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, prompt.Defaults())
}

// RequestSchema handles GET /schema/prompt-request.
func (api *PromptAPI) RequestSchema(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(prompt.RequestSchema())
	if err != nil {
		respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "Unable to render request schema"))
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Generate handles POST /prompts/generate.
func (api *PromptAPI) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != "" {
		ctype, err := contenttype.GetMediaType(r)
		if err != nil || !ctype.Matches(jsonMediaType) {
			respondWithError(w, r, apperrors.NewUnsupportedMediaTypeError("Content-Type must be application/json"))
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, api.maxBodyBytes()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, r, apperrors.WrapPayloadTooLarge(r.Context(), err, "Request body too large"))
			return
		}
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Unable to read request body"))
		return
	}

	req, err := prompt.ValidateJSON(body)
	if err != nil {
		metrics.RecordOperation(metrics.OperationGeneratePrompt, false)
		if verr, ok := prompt.AsValidationError(err); ok {
			metrics.RecordValidationErrors(errorTypes(verr))
		}
		respondWithError(w, r, err)
		return
	}

	start := time.Now()
	resp := prompt.Generate(req)
	metrics.RecordPromptGenerated(string(req.Orientation), string(req.Platform), time.Since(start))
	metrics.RecordOperation(metrics.OperationGeneratePrompt, true)

	if observability.ServerLogger != nil {
		observability.ServerLogger.Debug("Prompt generated",
			zap.String("orientation", string(req.Orientation)),
			zap.String("platform", string(req.Platform)),
			zap.Int("prompt_length", len(resp.Prompt)))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (api *PromptAPI) maxBodyBytes() int64 {
	if api.MaxBodyBytes > 0 {
		return api.MaxBodyBytes
	}
	return 1 << 20
}

func errorTypes(verr *prompt.ValidationError) []string {
	types := make([]string, len(verr.Errors))
	for i, fe := range verr.Errors {
		types[i] = fe.Type
	}
	return types
}

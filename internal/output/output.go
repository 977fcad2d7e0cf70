// Package output renders prompts, option lists and validation failures for
// the command line.
package output

import (
	"fmt"
	"strings"

	"github.com/brandprompt/brandprompt/internal/prompt"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates and normalizes a format string against the formats a
// command supports. An empty value selects the first supported format.
func ParseFormat(value string, supported ...Format) (Format, error) {
	if len(supported) == 0 {
		return "", fmt.Errorf("no output formats supported")
	}

	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "":
		return supported[0], nil
	case "yml":
		normalized = string(FormatYAML)
	case "md":
		normalized = string(FormatMarkdown)
	}

	for _, f := range supported {
		if string(f) == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s (want one of %s)", value, joinFormats(supported))
}

func joinFormats(formats []Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// metadataOrder is the display order of prompt metadata.
var metadataOrder = []string{
	prompt.MetaOrientation,
	prompt.MetaPlatform,
	prompt.MetaBrandName,
	prompt.MetaTone,
	prompt.MetaLength,
	prompt.MetaIncludeHashtags,
	prompt.MetaEmojiLevel,
}

// RenderPrompt renders a generated prompt. Text output is the bare prompt.
func RenderPrompt(format Format, resp prompt.GenerateResponse) (string, error) {
	switch format {
	case FormatText, "":
		return resp.Prompt, nil
	case FormatJSON:
		return encodeJSON(resp)
	case FormatYAML:
		return encodeYAML(resp)
	case FormatMarkdown:
		return promptMarkdown(resp), nil
	default:
		return "", fmt.Errorf("unsupported output format for prompts: %s", format)
	}
}

// RenderOptions renders the supported option lists.
func RenderOptions(format Format, cfg prompt.PublicConfig) (string, error) {
	switch format {
	case FormatTable, "":
		return optionsTable(cfg), nil
	case FormatJSON:
		return encodeJSON(cfg)
	case FormatYAML:
		return encodeYAML(cfg)
	default:
		return "", fmt.Errorf("unsupported output format for options: %s", format)
	}
}

// RenderValidationErrors renders a validation failure for the terminal.
func RenderValidationErrors(format Format, verr *prompt.ValidationError) (string, error) {
	if verr == nil {
		return "", nil
	}
	switch format {
	case FormatJSON:
		return encodeJSON(map[string]any{"errors": verr.Errors})
	case FormatYAML:
		return encodeYAML(map[string]any{"errors": verr.Errors})
	case FormatMarkdown:
		return validationMarkdown(verr), nil
	default:
		return validationTable(verr), nil
	}
}

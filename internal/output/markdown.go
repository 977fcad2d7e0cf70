package output

import (
	"fmt"
	"strings"

	"github.com/brandprompt/brandprompt/internal/prompt"
)

func promptMarkdown(resp prompt.GenerateResponse) string {
	var sb strings.Builder
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	for _, key := range metadataOrder {
		value, ok := resp.Metadata[key]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n",
			escapeMarkdownCell(key),
			escapeMarkdownCell(fmt.Sprint(value))))
	}

	sb.WriteString("\n```text\n")
	sb.WriteString(resp.Prompt)
	sb.WriteString("\n```\n")
	return sb.String()
}

func validationMarkdown(verr *prompt.ValidationError) string {
	var sb strings.Builder
	sb.WriteString("| Field | Type | Message |\n")
	sb.WriteString("|-------|------|---------|\n")
	for _, fe := range verr.Errors {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			escapeMarkdownCell(fe.Field),
			escapeMarkdownCell(fe.Type),
			escapeMarkdownCell(fe.Message)))
	}
	return sb.String()
}

func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.ReplaceAll(value, "|", "\\|")
}

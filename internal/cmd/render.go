package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandprompt/brandprompt/internal/metrics"
	"github.com/brandprompt/brandprompt/internal/observability"
	"github.com/brandprompt/brandprompt/internal/output"
	"github.com/brandprompt/brandprompt/internal/prompt"
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render a prompt from a request file",
	Long: `Validate a prompt request (JSON or YAML) and print the composed prompt.

The request is read from the named file, or from stdin when the argument is
omitted or "-". Validation failures are printed as a table on stderr and the
command exits non-zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "text", "Output format: text, json, yaml, markdown")
	renderCmd.Flags().String("input-format", "auto", "Input format: auto, json, yaml")
}

func runRender(cmd *cobra.Command, args []string) error {
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue,
		output.FormatText, output.FormatJSON, output.FormatYAML, output.FormatMarkdown)
	if err != nil {
		return withExitCode(foundry.ExitConfigInvalid, "invalid --output", err)
	}

	inputFormat, err := cmd.Flags().GetString("input-format")
	if err != nil {
		return err
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	data, err := readRequest(cmd.InOrStdin(), source)
	if err != nil {
		return withExitCode(foundry.ExitFileNotFound, "unable to read request", err)
	}

	cmd.SilenceUsage = true
	return renderRequest(cmd.OutOrStdout(), cmd.ErrOrStderr(), data, source, inputFormat, format)
}

// renderRequest validates data and writes the rendered prompt to out.
// Validation failures go to errOut in the same format family.
func renderRequest(out, errOut io.Writer, data []byte, source, inputFormat string, format output.Format) error {
	kind, err := detectInputFormat(data, source, inputFormat)
	if err != nil {
		return withExitCode(foundry.ExitConfigInvalid, "invalid --input-format", err)
	}

	var req *prompt.GenerateRequest
	if kind == "yaml" {
		req, err = prompt.ValidateYAML(data)
	} else {
		req, err = prompt.ValidateJSON(data)
	}
	metrics.RecordOperation(metrics.OperationRenderPrompt, err == nil)
	if err != nil {
		if verr, ok := prompt.AsValidationError(err); ok {
			errFormat := output.FormatTable
			if format == output.FormatJSON || format == output.FormatYAML || format == output.FormatMarkdown {
				errFormat = format
			}
			rendered, renderErr := output.RenderValidationErrors(errFormat, verr)
			if renderErr != nil {
				return renderErr
			}
			fmt.Fprintln(errOut, rendered)
			return withExitCode(foundry.ExitFailure,
				fmt.Sprintf("request validation failed with %d error(s)", len(verr.Errors)), nil)
		}
		return err
	}

	rendered, err := output.RenderPrompt(format, prompt.Generate(req))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)

	if logger := observability.CLILogger; logger != nil {
		logger.Debug("Prompt rendered",
			zap.String("source", source),
			zap.String("input_format", kind),
			zap.String("orientation", string(req.Orientation)),
			zap.String("platform", string(req.Platform)))
	}
	return nil
}

func readRequest(stdin io.Reader, source string) ([]byte, error) {
	if source == "" || source == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(source)
}

// detectInputFormat resolves "auto" from the file extension, then from the
// first non-space byte: documents starting with '{' are JSON.
func detectInputFormat(data []byte, source, requested string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	case "", "auto":
	default:
		return "", fmt.Errorf("unsupported input format: %s (want auto, json or yaml)", requested)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return "json", nil
	}
	return "yaml", nil
}

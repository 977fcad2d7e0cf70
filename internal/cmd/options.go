package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/brandprompt/brandprompt/internal/output"
	"github.com/brandprompt/brandprompt/internal/prompt"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List supported orientations, platforms, tones and lengths",
	Long:  "Print the option lists served by GET /config, including the configured docs URL.",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the prompt request JSON Schema",
	Long:  "Print the JSON Schema served by GET /schema/prompt-request.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(prompt.RequestSchema(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(schemaCmd)

	optionsCmd.Flags().StringP("output", "o", "table", "Output format: table, json, yaml")
}

func runOptions(cmd *cobra.Command, args []string) error {
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue, output.FormatTable, output.FormatJSON, output.FormatYAML)
	if err != nil {
		return withExitCode(foundry.ExitConfigInvalid, "invalid --output", err)
	}

	rendered, err := output.RenderOptions(format, prompt.Options(currentConfig().API.DocsURL))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}

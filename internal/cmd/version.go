package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/brandprompt/brandprompt/internal/server/handlers"
)

var extended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for API, Gofulmen, Crucible and Go versions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "brandprompt"
		if identity := GetAppIdentity(); identity != nil && identity.BinaryName != "" {
			name = identity.BinaryName
		}
		writeVersion(cmd.OutOrStdout(), name, extended)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&extended, "extended", "e", false, "show extended version information")
}

func writeVersion(w io.Writer, name string, extended bool) {
	fmt.Fprintf(w, "%s %s\n", name, versionInfo.Version)
	if !extended {
		return
	}

	info := handlers.CurrentVersion()
	fmt.Fprintf(w, "Commit: %s\n", versionInfo.Commit)
	fmt.Fprintf(w, "Built: %s\n", versionInfo.BuildDate)
	fmt.Fprintf(w, "API: %s\n", info.App.APIVersion)
	fmt.Fprintf(w, "Go: %s\n", info.App.GoVersion)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Gofulmen: %s\n", info.Dependencies.Gofulmen)
	fmt.Fprintf(w, "Crucible: %s\n", info.Dependencies.Crucible)
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/hoaregistry/internal/config"
	hoalog "github.com/nao1215/hoaregistry/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for hoaregistry.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hoaregistry",
		Short: "Export the Utah HOA registry to a spreadsheet",
		Long: `hoaregistry retrieves every homeowners association registered with the
Utah Department of Commerce, extracts the registration details and the
contacts of each one, and exports them as a single table.

Settings such as the last limit, search term and save directory are
remembered between runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("settings-file", config.SettingsPath(),
		"Path of the persisted settings file")

	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewSettingsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

// getSettingsPath retrieves the settings file path.
func getSettingsPath(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("settings-file")
	if err != nil || path == "" {
		return config.SettingsPath()
	}
	return path
}

// setupLogger creates the redacting logger selected by the global flags.
func setupLogger(cmd *cobra.Command, w io.Writer) *slog.Logger {
	verbose := getVerboseFlag(cmd)
	if asJSON, err := cmd.Flags().GetBool("log-json"); err == nil && asJSON {
		return hoalog.NewJSONLogger(w, verbose)
	}
	return hoalog.NewLogger(w, verbose)
}

package main

import (
	"fmt"

	"github.com/nao1215/hoaregistry/internal/config"
	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the settings command.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the persisted settings",
		Long: `Settings prints the location and content of the settings file. The limit,
search term, wait time and save directory stored there are the defaults of
the next scrape and are rewritten after every run.

Examples:
  # Show the current settings
  hoaregistry settings

  # Remember a save directory for future runs
  hoaregistry settings --save-dir ~/hoa

  # Restore the defaults
  hoaregistry settings --reset`,
		Args: cobra.NoArgs,
		RunE: runSettingsCmd,
	}

	cmd.Flags().Bool("reset", false, "Restore the default settings")
	cmd.Flags().IntP("limit", "l", config.DefaultLimit, "Remember this entity limit (0 = all)")
	cmd.Flags().String("term", config.DefaultTerm, "Remember this search term")
	cmd.Flags().Duration("wait", config.DefaultWait, "Remember this browser wait time")
	cmd.Flags().StringP("save-dir", "d", "", "Remember this save directory")

	return cmd
}

// runSettingsCmd executes the settings command.
func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	path := getSettingsPath(cmd)
	flags := cmd.Flags()

	reset, err := flags.GetBool("reset")
	if err != nil {
		return err
	}

	settings := config.DefaultSettings()
	if !reset {
		if settings, err = config.LoadSettings(path); err != nil {
			return err
		}
	}

	changed := reset
	if flags.Changed("limit") {
		if settings.Limit, err = flags.GetInt("limit"); err != nil {
			return err
		}
		changed = true
	}
	if flags.Changed("term") {
		if settings.Term, err = flags.GetString("term"); err != nil {
			return err
		}
		changed = true
	}
	if flags.Changed("wait") {
		if settings.Wait, err = flags.GetDuration("wait"); err != nil {
			return err
		}
		changed = true
	}
	if flags.Changed("save-dir") {
		if settings.SaveDir, err = flags.GetString("save-dir"); err != nil {
			return err
		}
		changed = true
	}

	if changed {
		cfg := config.NewConfig()
		cfg.ApplySettings(settings)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := config.SaveSettings(path, settings); err != nil {
			return err
		}
	}

	saveDir := settings.SaveDir
	if saveDir == "" {
		saveDir = "(current directory)"
	}
	limit := fmt.Sprintf("%d", settings.Limit)
	if settings.Limit == 0 {
		limit = "0 (all)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Settings file: %s\n", path)
	fmt.Fprintf(out, "  limit:    %s\n", limit)
	fmt.Fprintf(out, "  term:     %q\n", settings.Term)
	fmt.Fprintf(out, "  wait:     %s\n", settings.Wait)
	fmt.Fprintf(out, "  save_dir: %s\n", saveDir)
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nao1215/hoaregistry/internal/config"
	"github.com/nao1215/hoaregistry/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the registry entities matching a search term",
		Long: `List retrieves the registry's entity list and prints the id and name of
each entity, without fetching any detail record. It is a quick way to check
that the registry is reachable and to preview what a scrape would process.

Unlike scrape, list does not change the persisted settings.

Examples:
  # Print the first 10 entities
  hoaregistry list --limit 10

  # Search by name
  hoaregistry list --term "ridge"`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	addSourceFlags(cmd)

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, _ []string) error {
	logger := setupLogger(cmd, os.Stderr)

	cfg := config.NewConfig()
	settings, err := config.LoadSettings(getSettingsPath(cmd))
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "error", err)
	}
	cfg.ApplySettings(settings)
	if err := applySourceFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, closeSource, err := newSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Warn("failed to close source", "error", err)
		}
	}()

	entities, err := src.FetchEntityList(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrEntityList, err)
	}
	selected := pipeline.SelectEntities(entities, cfg.Limit)

	printer := newProgressPrinter(cmd.OutOrStdout())
	for _, e := range selected {
		printer.Printf("%s\t%s\n", e.ID, e.Name)
	}
	printer.Printf("Found %d entities, showing %d\n", len(entities), len(selected))
	return nil
}

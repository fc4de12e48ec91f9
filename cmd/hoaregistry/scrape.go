package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/hoaregistry/internal/config"
	"github.com/nao1215/hoaregistry/internal/database"
	"github.com/nao1215/hoaregistry/internal/export"
	"github.com/nao1215/hoaregistry/internal/model"
	"github.com/nao1215/hoaregistry/internal/pipeline"
	"github.com/nao1215/hoaregistry/internal/retrieve"
	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Retrieve registry records and export them",
		Long: `Scrape lists the registered entities, fetches the detail record of each
one concurrently and exports a single table with one row per entity.

Each row holds the registration details plus one column group (Name, Phone,
Email, Address) for every President, Manager, Payoff Contact and Board Member
of the entity. Entities whose detail cannot be retrieved are skipped and
reported at the end.

Limit, search term, wait time and save directory default to the values of
the previous run.

Press Ctrl-C to stop early: fetches already running complete and the
records retrieved so far are still exported.

Examples:
  # Export every registered HOA to utah_hoa_registry_data.csv
  hoaregistry scrape

  # Export the first 50 entities as a spreadsheet into ./out
  hoaregistry scrape --limit 50 --format xlsx --save-dir ./out

  # Reuse detail pages fetched within the last day
  hoaregistry scrape --cache 24h

  # Drive a headless browser through the search page instead
  hoaregistry scrape --source browser --wait 5s`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	addSourceFlags(cmd)

	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of detail pages fetched concurrently")
	cmd.Flags().StringP("save-dir", "d", "",
		"Directory the export is written to (default: current directory)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Export file name or path")
	cmd.Flags().StringP("format", "f", "",
		"Export format: csv, xlsx or json (default: from --output extension)")
	cmd.Flags().String("summary", "",
		"Also write a Markdown summary of the run to this file")
	cmd.Flags().Duration("cache", 0,
		"Reuse detail pages fetched within this duration (0 = always fetch)")
	cmd.Flags().Bool("no-db", false,
		"Do not record snapshots and run history in the database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the snapshot and history database")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	logger := setupLogger(cmd, os.Stderr)
	slog.SetDefault(logger)

	settingsPath := getSettingsPath(cmd)
	cfg, err := buildScrapeConfig(cmd, settingsPath, logger)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted, finishing in-flight requests...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runScrape(ctx, cmd, cfg, settingsPath, logger)
}

// buildScrapeConfig creates a Config from persisted settings and flags.
func buildScrapeConfig(cmd *cobra.Command, settingsPath string, logger *slog.Logger) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "path", settingsPath, "error", err)
	}
	cfg.ApplySettings(settings)

	if err := applySourceFlags(cmd, cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if cfg.Workers, err = flags.GetInt("workers"); err != nil {
		return nil, err
	}
	if flags.Changed("save-dir") {
		if cfg.SaveDir, err = flags.GetString("save-dir"); err != nil {
			return nil, err
		}
	}
	if cfg.Output, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.SummaryFile, err = flags.GetString("summary"); err != nil {
		return nil, err
	}
	if cfg.CacheMaxAge, err = flags.GetDuration("cache"); err != nil {
		return nil, err
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runScrape executes one scrape with a validated configuration.
func runScrape(ctx context.Context, cmd *cobra.Command, cfg *config.Config, settingsPath string, logger *slog.Logger) error {
	format, err := cfg.ExportFormat()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
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

	var (
		db     *database.RegistryDB
		cached *retrieve.CachedSource
	)
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "path", db.Path())

		cached = retrieve.NewCachedSource(src, db, cfg.CacheMaxAge, logger)
		src = cached
	}

	printer := newProgressPrinter(cmd.OutOrStdout())
	printer.Printf("Scraping Utah HOA registry (source: %s, term: %q)\n", cfg.Source, cfg.Term)

	run, runErr := pipeline.Scrape(ctx, src, pipeline.RunOptions{
		SourceName:  cfg.Source,
		Term:        cfg.Term,
		Limit:       cfg.Limit,
		Workers:     cfg.Workers,
		OutputPath:  cfg.OutputPath(),
		Format:      format,
		SummaryPath: cfg.SummaryFile,
		Observer: pipeline.Observer{
			Progress: printer.Progress,
			Status:   printer.Status,
		},
		Logger: logger,
	})

	// Settings and history failures never fail the run.
	if err := config.SaveSettings(settingsPath, cfg.Settings()); err != nil {
		logger.Warn("failed to save settings", "path", settingsPath, "error", err)
	}
	if db != nil {
		if _, err := db.SaveRun(context.WithoutCancel(ctx), run); err != nil {
			logger.Warn("failed to record run", "error", err)
		}
	}
	if cached != nil {
		stats := cached.Stats()
		logger.Debug("snapshot cache",
			"hits", stats.Hits,
			"misses", stats.Misses,
			"changed", stats.Changed,
		)
	}

	if runErr != nil {
		var exportErr *export.Error
		if errors.As(runErr, &exportErr) && run.Table != nil {
			printer.Printf("%d records were retrieved but not exported.\n", run.Table.Len())
		}
		return runErr
	}

	printOutcome(printer, run)
	return nil
}

// printOutcome prints the terminal summary of a successful run.
func printOutcome(p *progressPrinter, run *model.Run) {
	if run.Interrupted {
		p.Printf("Run interrupted: exported the %d records retrieved before cancellation.\n", run.Processed())
	}
	p.Printf("Done in %s: %d exported, %d skipped, output %s\n",
		run.Duration().Round(time.Millisecond), run.Processed(), len(run.Skipped), run.OutputPath)
	for _, s := range run.Skipped {
		p.Printf("  skipped %s (%s): %s\n", s.ID, s.Name, s.Reason)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/hoaregistry/internal/config"
	"github.com/nao1215/hoaregistry/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 10

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs or the stored snapshot of an entity",
		Long: `History lists the runs recorded in the database, newest first, with their
totals and outcome. With --entity it shows the snapshot stored for one
entity instead: when its detail page was last fetched and the hash of that
page.

Examples:
  # Show the last 10 runs
  hoaregistry history

  # Show every recorded run
  hoaregistry history --limit 0

  # Show the snapshot of entity 12345
  hoaregistry history --entity 12345`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit, "Number of runs to show (0 = all)")
	cmd.Flags().String("entity", "", "Show the stored snapshot of this entity id")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the snapshot and history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	entityID, err := flags.GetString("entity")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no history available (run scrape first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if entityID != "" {
		return showSnapshot(ctx, cmd.OutOrStdout(), db, entityID)
	}
	return showRuns(ctx, cmd.OutOrStdout(), db, limit)
}

// showRuns prints the most recent runs.
func showRuns(ctx context.Context, out io.Writer, db *database.RegistryDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(out, "#%d %s  %-11s source=%s term=%q found=%d selected=%d processed=%d skipped=%d\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			r.Source,
			r.Term,
			r.TotalFound,
			r.Selected,
			r.Processed,
			len(r.Skipped),
		)
		if r.OutputPath != "" {
			fmt.Fprintf(out, "    output: %s\n", r.OutputPath)
		}
		if r.Error != "" {
			fmt.Fprintf(out, "    error:  %s\n", r.Error)
		}
	}
	return nil
}

// showSnapshot prints the stored snapshot metadata of one entity.
func showSnapshot(ctx context.Context, out io.Writer, db *database.RegistryDB, entityID string) error {
	snap, err := db.GetSnapshot(ctx, entityID)
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no snapshot stored for entity %s", entityID)
	}

	fmt.Fprintf(out, "Entity:     %s\n", snap.EntityID)
	fmt.Fprintf(out, "Name:       %s\n", snap.Name)
	fmt.Fprintf(out, "Fetched:    %s (%s ago)\n",
		snap.FetchedAt.Local().Format("2006-01-02 15:04:05"),
		time.Since(snap.FetchedAt).Round(time.Second))
	fmt.Fprintf(out, "Hash:       %s\n", snap.Hash)
	fmt.Fprintf(out, "Size:       %d bytes\n", len(snap.Markup))
	return nil
}

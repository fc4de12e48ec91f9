package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/hoaregistry/internal/export"
	"github.com/nao1215/hoaregistry/internal/model"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	return records
}

// TestScrape tests complete runs against an in-memory registry.
func TestScrape(t *testing.T) {
	t.Parallel()

	t.Run("exports every entity", func(t *testing.T) {
		t.Parallel()

		src := newRegistry(3)
		src.fetchErr["102"] = errFetch
		out := filepath.Join(t.TempDir(), "utah_hoa_registry_data.csv")

		var (
			mu       sync.Mutex
			statuses []string
			last     [2]int
		)
		run, err := Scrape(context.Background(), src, RunOptions{
			SourceName: "endpoint",
			Term:       "%",
			OutputPath: out,
			Format:     export.FormatCSV,
			Observer: Observer{
				Progress: func(done, total int) {
					mu.Lock()
					defer mu.Unlock()
					last = [2]int{done, total}
				},
				Status: func(msg string) {
					mu.Lock()
					defer mu.Unlock()
					statuses = append(statuses, msg)
				},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if run.TotalFound != 3 || run.Processed() != 2 || len(run.Skipped) != 1 {
			t.Errorf("unexpected totals: found=%d processed=%d skipped=%d",
				run.TotalFound, run.Processed(), len(run.Skipped))
		}
		if run.OutputPath != out {
			t.Errorf("expected output path %q, got %q", out, run.OutputPath)
		}
		if last != [2]int{3, 3} {
			t.Errorf("expected final progress (3, 3), got %v", last)
		}
		if len(statuses) == 0 || !strings.HasPrefix(statuses[len(statuses)-1], "Exported 2 records") {
			t.Errorf("expected export status message, got %v", statuses)
		}

		records := readCSV(t, out)
		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(records))
		}
		header := records[0]
		if diff := cmp.Diff(model.FixedColumns, header[:len(model.FixedColumns)]); diff != "" {
			t.Errorf("fixed header mismatch (-want +got):\n%s", diff)
		}
		if !slices.Contains(header, "President 1 Name") {
			t.Errorf("expected dynamic president column in %v", header)
		}
		if records[1][0] != "101" || records[2][0] != "103" {
			t.Errorf("expected rows for 101 and 103, got %q and %q", records[1][0], records[2][0])
		}
	})

	t.Run("limit selects the first entities", func(t *testing.T) {
		t.Parallel()

		src := newRegistry(5)
		run, err := Scrape(context.Background(), src, RunOptions{
			Limit:      2,
			OutputPath: filepath.Join(t.TempDir(), "out.csv"),
			Format:     export.FormatCSV,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.TotalFound != 5 || len(run.Entities) != 2 {
			t.Errorf("expected 2 of 5 entities, got %d of %d", len(run.Entities), run.TotalFound)
		}
		if len(src.fetched) != 2 {
			t.Errorf("expected 2 detail fetches, got %d", len(src.fetched))
		}
	})

	t.Run("entity list failure produces no output", func(t *testing.T) {
		t.Parallel()

		src := newRegistry(2)
		src.listErr = errFetch
		out := filepath.Join(t.TempDir(), "out.csv")

		run, err := Scrape(context.Background(), src, RunOptions{OutputPath: out, Format: export.FormatCSV})
		if !errors.Is(err, ErrEntityList) || !errors.Is(err, errFetch) {
			t.Fatalf("expected ErrEntityList wrapping the cause, got %v", err)
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Error("expected no output file")
		}
		if run.ErrorMessage == "" {
			t.Error("expected error recorded in run")
		}
	})

	t.Run("export failure keeps the table", func(t *testing.T) {
		t.Parallel()

		run, err := Scrape(context.Background(), newRegistry(2), RunOptions{
			OutputPath: filepath.Join(t.TempDir(), "out.pdf"),
			Format:     "pdf",
		})

		var exportErr *export.Error
		if !errors.As(err, &exportErr) {
			t.Fatalf("expected *export.Error, got %v", err)
		}
		if run.Table.Len() != 2 {
			t.Errorf("expected table with 2 rows, got %d", run.Table.Len())
		}
		if run.OutputPath != "" {
			t.Errorf("expected no output path, got %q", run.OutputPath)
		}
	})

	t.Run("interrupted run exports partial results", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		src := newRegistry(4)
		src.onFetch = func(id string) {
			if id == "102" {
				cancel()
			}
		}
		out := filepath.Join(t.TempDir(), "out.csv")

		run, err := Scrape(ctx, src, RunOptions{Workers: 1, OutputPath: out, Format: export.FormatCSV})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !run.Interrupted {
			t.Error("expected run to be interrupted")
		}
		if got := len(readCSV(t, out)); got != 3 {
			t.Errorf("expected header and 2 rows, got %d lines", got)
		}
	})

	t.Run("writes summary", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		summary := filepath.Join(dir, "summary.md")
		_, err := Scrape(context.Background(), newRegistry(1), RunOptions{
			OutputPath:  filepath.Join(dir, "out.csv"),
			Format:      export.FormatCSV,
			SummaryPath: summary,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(summary)
		if err != nil {
			t.Fatalf("expected summary file: %v", err)
		}
		if !strings.Contains(string(data), "Utah HOA Registry Run") {
			t.Error("expected summary title")
		}
	})
}

// TestSelectEntities tests limit handling.
func TestSelectEntities(t *testing.T) {
	t.Parallel()

	entities := newRegistry(3).entities
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero selects all", limit: 0, want: 3},
		{name: "negative selects all", limit: -1, want: 3},
		{name: "limit below total", limit: 2, want: 2},
		{name: "limit above total", limit: 10, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := len(SelectEntities(entities, tt.limit)); got != tt.want {
				t.Errorf("expected %d entities, got %d", tt.want, got)
			}
		})
	}
}

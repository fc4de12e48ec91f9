package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/hoaregistry/internal/model"
	"github.com/nao1215/hoaregistry/internal/retrieve"
)

// Observer receives progress and status updates during a scrape.
// Either callback may be nil.
type Observer struct {
	// Progress is called in completion order with the number of finished
	// entities and the number selected.
	Progress func(done, total int)

	// Status is called with human readable status messages.
	Status func(msg string)
}

// status forwards msg to the Status callback if one is set.
func (o Observer) status(msg string) {
	if o.Status != nil {
		o.Status(msg)
	}
}

// RunOptions configures Scrape.
type RunOptions struct {
	// SourceName is recorded in the run ("endpoint" or "browser").
	SourceName string

	// Term is the search term the source was configured with.
	Term string

	// Limit caps the number of entities processed; 0 means all.
	Limit int

	// Workers is the number of concurrent detail fetches.
	Workers int

	// OutputPath and Format select the export destination.
	OutputPath string
	Format     string

	// SummaryPath enables the Markdown summary when not empty.
	SummaryPath string

	// Observer receives progress and status updates.
	Observer Observer

	// Logger is used by every step. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewDefaultPipeline builds the list, fetch, flatten and export steps,
// plus the summary step when opts.SummaryPath is set.
func NewDefaultPipeline(src retrieve.Source, opts RunOptions) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	batch := NewBatchProcessor(src,
		WithConcurrency(opts.Workers),
		WithProgress(opts.Observer.Progress),
		WithBatchLogger(logger),
	)

	p := New(WithLogger(logger))
	p.AddSteps(
		NewListStep(src,
			WithLimit(opts.Limit),
			WithListObserver(opts.Observer),
			WithListLogger(logger),
		),
		NewFetchStep(batch),
		NewFlattenStep(),
		NewExportStep(opts.OutputPath, opts.Format, WithExportObserver(opts.Observer)),
	)
	if opts.SummaryPath != "" {
		p.AddStep(NewSummaryStep(opts.SummaryPath, logger))
	}
	return p
}

// Scrape runs one complete scrape against src and returns the run.
//
// The run is returned even on error: an entity list failure leaves it
// empty, an export failure leaves the flattened table in run.Table.
// Cancelling ctx during retrieval exports the records fetched so far and
// marks the run interrupted.
func Scrape(ctx context.Context, src retrieve.Source, opts RunOptions) (*model.Run, error) {
	run := model.NewRun(opts.SourceName, opts.Term, opts.Limit)
	err := NewDefaultPipeline(src, opts).Execute(ctx, run)
	if err != nil {
		opts.Observer.status("Error: " + err.Error())
	}
	return run, err
}

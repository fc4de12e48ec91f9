package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/hoaregistry/internal/export"
	"github.com/nao1215/hoaregistry/internal/flatten"
	"github.com/nao1215/hoaregistry/internal/model"
	"github.com/nao1215/hoaregistry/internal/retrieve"
)

// Step names, recorded in model.Run.PerformedSteps.
const (
	StepList    = "list"
	StepFetch   = "fetch"
	StepFlatten = "flatten"
	StepExport  = "export"
	StepSummary = "summary"
)

// ListStep retrieves the entity list and applies the limit.
type ListStep struct {
	// source provides the entity list.
	source retrieve.Source

	// limit caps the number of selected entities; 0 selects all.
	limit int

	// observer receives status messages.
	observer Observer

	// logger for structured logging.
	logger *slog.Logger
}

// ListStepOption configures a ListStep.
type ListStepOption func(*ListStep)

// WithLimit caps the number of entities processed. 0 or less means all.
func WithLimit(limit int) ListStepOption {
	return func(s *ListStep) {
		s.limit = limit
	}
}

// WithListObserver sets the observer notified of the list outcome.
func WithListObserver(o Observer) ListStepOption {
	return func(s *ListStep) {
		s.observer = o
	}
}

// WithListLogger sets a custom logger for the list step.
func WithListLogger(logger *slog.Logger) ListStepOption {
	return func(s *ListStep) {
		s.logger = logger
	}
}

// NewListStep creates a new list step reading from source.
func NewListStep(source retrieve.Source, opts ...ListStepOption) *ListStep {
	s := &ListStep{
		source: source,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ListStep) Name() string {
	return StepList
}

// Do retrieves the entity list. A retrieval failure wraps ErrEntityList.
func (s *ListStep) Do(ctx context.Context, run *model.Run) error {
	s.observer.status("Retrieving entity list...")

	entities, err := s.source.FetchEntityList(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEntityList, err)
	}

	run.TotalFound = len(entities)
	run.Entities = SelectEntities(entities, s.limit)

	s.logger.Debug("entity list retrieved",
		"found", run.TotalFound,
		"selected", len(run.Entities),
	)
	s.observer.status(fmt.Sprintf("Found %d entities, processing %d", run.TotalFound, len(run.Entities)))
	return nil
}

// SelectEntities returns the first min(limit, len(entities)) entities,
// or all of them when limit is 0 or less.
func SelectEntities(entities []model.Entity, limit int) []model.Entity {
	if limit <= 0 || limit >= len(entities) {
		return entities
	}
	return entities[:limit]
}

// FetchStep retrieves and extracts the detail of every selected entity.
type FetchStep struct {
	// batch runs the fetches.
	batch *BatchProcessor
}

// NewFetchStep creates a new fetch step backed by batch.
func NewFetchStep(batch *BatchProcessor) *FetchStep {
	return &FetchStep{batch: batch}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return StepFetch
}

// Do fills Records and Skipped. Cancellation marks the run interrupted
// and keeps whatever was fetched.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	result := s.batch.Process(ctx, run.Entities)

	run.Records = result.Records
	run.Skipped = result.Skipped
	if result.Interrupted || ctx.Err() != nil {
		run.Interrupted = true
	}
	return nil
}

// FlattenStep turns the extracted records into the export table.
type FlattenStep struct{}

// NewFlattenStep creates a new flatten step.
func NewFlattenStep() *FlattenStep {
	return &FlattenStep{}
}

// Name returns the step name.
func (s *FlattenStep) Name() string {
	return StepFlatten
}

// Do sets run.Table.
func (s *FlattenStep) Do(_ context.Context, run *model.Run) error {
	run.Table = flatten.Table(run.Records)
	return nil
}

// ExportStep writes the table to a file.
type ExportStep struct {
	// path is the destination file.
	path string

	// format is one of the export formats.
	format string

	// observer receives status messages.
	observer Observer
}

// ExportStepOption configures an ExportStep.
type ExportStepOption func(*ExportStep)

// WithExportObserver sets the observer notified of the export outcome.
func WithExportObserver(o Observer) ExportStepOption {
	return func(s *ExportStep) {
		s.observer = o
	}
}

// NewExportStep creates a new export step writing to path.
func NewExportStep(path, format string, opts ...ExportStepOption) *ExportStep {
	s := &ExportStep{
		path:   path,
		format: format,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return StepExport
}

// Do exports run.Table. Failures are returned as *export.Error and the
// table stays in the run.
func (s *ExportStep) Do(_ context.Context, run *model.Run) error {
	if err := export.WriteFile(s.path, s.format, run.Table); err != nil {
		return err
	}
	run.OutputPath = s.path
	s.observer.status(fmt.Sprintf("Exported %d records to %s", run.Table.Len(), s.path))
	return nil
}

// SummaryStep writes a Markdown summary of the run.
// Failures are logged and do not fail the run.
type SummaryStep struct {
	// path is the destination file.
	path string

	// logger for structured logging.
	logger *slog.Logger
}

// NewSummaryStep creates a new summary step writing to path.
func NewSummaryStep(path string, logger *slog.Logger) *SummaryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryStep{path: path, logger: logger}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return StepSummary
}

// Do writes the summary.
func (s *SummaryStep) Do(_ context.Context, run *model.Run) error {
	if err := export.WriteSummaryFile(s.path, run); err != nil {
		s.logger.Warn("failed to write run summary", "path", s.path, "error", err)
	}
	return nil
}

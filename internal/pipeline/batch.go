package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/hoaregistry/internal/extract"
	"github.com/nao1215/hoaregistry/internal/model"
	"github.com/nao1215/hoaregistry/internal/retrieve"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of detail fetches run at once.
const DefaultConcurrency = 20

// reasonNoContent is the skip reason for markup without a detail record.
const reasonNoContent = "detail markup had no content"

// BatchProcessor fetches and extracts entity details concurrently.
// Failures are recorded as skipped entities and never abort the batch.
type BatchProcessor struct {
	// source provides the detail markup.
	source retrieve.Source

	// concurrency is the maximum number of concurrent fetches.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// progress is called after each entity completes.
	progress func(done, total int)
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent fetches.
// Default is DefaultConcurrency if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithProgress sets a callback invoked in completion order with the number
// of finished entities and the batch size. Calls are serialised.
func WithProgress(fn func(done, total int)) BatchOption {
	return func(b *BatchProcessor) {
		b.progress = fn
	}
}

// NewBatchProcessor creates a new BatchProcessor reading from source.
func NewBatchProcessor(source retrieve.Source, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		source:      source,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// BatchResult is the outcome of one Process call.
type BatchResult struct {
	// Records holds one entry per entity in input order; nil where the
	// entity was skipped or never started.
	Records []*model.DetailRecord

	// Skipped lists the entities that failed, in input order.
	Skipped []model.SkippedEntity

	// Interrupted is true when cancellation left entities unstarted.
	Interrupted bool
}

// Process fetches and extracts every entity.
//
// Once ctx is cancelled no new fetch is started. Fetches already running
// are detached from the cancellation and finish or hit their own timeout,
// so their results are kept.
func (bp *BatchProcessor) Process(ctx context.Context, entities []model.Entity) *BatchResult {
	bp.logger.Debug("starting batch processing",
		"total_entities", len(entities),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	records := make([]*model.DetailRecord, len(entities))
	reasons := make([]string, len(entities))
	started := make([]bool, len(entities))

	var (
		mu   sync.Mutex
		done int
	)

	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	fetchCtx := context.WithoutCancel(ctx)
	for i, entity := range entities {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			rec, reason := bp.fetch(fetchCtx, entity)

			mu.Lock()
			defer mu.Unlock()
			started[i] = true
			records[i] = rec
			reasons[i] = reason
			done++
			if bp.progress != nil {
				bp.progress(done, len(entities))
			}
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // tasks never return errors

	result := &BatchResult{
		Records: records,
		Skipped: make([]model.SkippedEntity, 0),
	}
	for i, entity := range entities {
		if !started[i] {
			result.Interrupted = true
			continue
		}
		if records[i] == nil {
			result.Skipped = append(result.Skipped, model.SkippedEntity{
				Entity: entity,
				Reason: reasons[i],
			})
		}
	}

	bp.logger.Debug("batch processing complete",
		"total_entities", len(entities),
		"processed", done,
		"skipped", len(result.Skipped),
		"interrupted", result.Interrupted,
		"elapsed", time.Since(startTime),
	)

	return result
}

// fetch retrieves and extracts one entity. A nil record comes with the
// reason it was skipped.
func (bp *BatchProcessor) fetch(ctx context.Context, entity model.Entity) (*model.DetailRecord, string) {
	markup, err := bp.source.FetchDetailMarkup(ctx, entity.ID)
	if err != nil {
		bp.logger.Warn("detail fetch failed",
			"entity_id", entity.ID,
			"error", err,
		)
		return nil, err.Error()
	}

	rec, ok := extract.Detail(markup, entity.ID)
	if !ok {
		bp.logger.Warn("detail markup had no content", "entity_id", entity.ID)
		return nil, reasonNoContent
	}
	return rec, ""
}

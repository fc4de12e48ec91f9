package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/hoaregistry/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each one reading what earlier steps
// left in the run.
type Step interface {
	// Do executes the pipeline step.
	// It returns an error only when the run cannot continue; per-entity
	// failures are recorded in the run instead.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The first error is still recorded in the run.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// Cancellation is checked before each step. A run that was already marked
// interrupted keeps going without cancellation so the partial results are
// still flattened and exported; otherwise cancellation stops the run.
//
// The first error is recorded in the run and returned. FinishedAt is set
// when Execute returns.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) (err error) {
	defer func() {
		if err != nil && run.Error == nil {
			run.Error = err
			run.ErrorMessage = err.Error()
		}
		run.FinishedAt = time.Now()
	}()

	var firstErr error
	for _, step := range p.steps {
		if ctx.Err() != nil {
			if !run.Interrupted {
				p.logger.Warn("pipeline cancelled",
					"step", step.Name(),
					"reason", ctx.Err(),
				)
				run.Interrupted = true
				return ctx.Err()
			}
			p.logger.Warn("run interrupted, keeping partial results",
				"step", step.Name(),
			)
			ctx = context.WithoutCancel(ctx)
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"term", run.Term,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)

			if firstErr == nil {
				firstErr = err
			}
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed", "step", step.Name())
		}

		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

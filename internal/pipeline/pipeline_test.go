package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/hoaregistry/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *model.Run) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *model.Run) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))
		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineExecute tests step execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		for _, name := range []string{"first", "second", "third"} {
			p.AddStep(&mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *model.Run) error {
					order = append(order, name)
					return nil
				},
			})
		}

		run := model.NewRun("endpoint", "%", 0)
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"first", "second", "third"}
		if diff := cmp.Diff(want, order); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(want, run.PerformedSteps); diff != "" {
			t.Errorf("performed steps mismatch (-want +got):\n%s", diff)
		}
		if run.FinishedAt.IsZero() {
			t.Error("expected FinishedAt to be set")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errStep := errors.New("step failed")
		last := &mockStep{name: "last"}
		p := New()
		p.AddSteps(
			&mockStep{name: "failing", doFunc: func(context.Context, *model.Run) error { return errStep }},
			last,
		)

		run := model.NewRun("endpoint", "%", 0)
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, errStep) {
			t.Fatalf("expected errStep, got %v", err)
		}
		if last.callCount != 0 {
			t.Error("expected last step to be skipped")
		}
		if run.ErrorMessage != "step failed" {
			t.Errorf("expected error message recorded, got %q", run.ErrorMessage)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		errStep := errors.New("step failed")
		last := &mockStep{name: "last"}
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&mockStep{name: "failing", doFunc: func(context.Context, *model.Run) error { return errStep }},
			last,
		)

		run := model.NewRun("endpoint", "%", 0)
		if err := p.Execute(context.Background(), run); !errors.Is(err, errStep) {
			t.Fatalf("expected errStep, got %v", err)
		}
		if last.callCount != 1 {
			t.Error("expected last step to run")
		}
	})

	t.Run("cancelled before a step stops the run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)

		run := model.NewRun("endpoint", "%", 0)
		if err := p.Execute(ctx, run); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
		if !run.Interrupted {
			t.Error("expected run to be marked interrupted")
		}
	})

	t.Run("interrupted run keeps executing without cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var sawCancelled bool
		p := New()
		p.AddSteps(
			&mockStep{name: "fetch", doFunc: func(_ context.Context, run *model.Run) error {
				cancel()
				run.Interrupted = true
				return nil
			}},
			&mockStep{name: "export", doFunc: func(ctx context.Context, _ *model.Run) error {
				sawCancelled = ctx.Err() != nil
				return nil
			}},
		)

		run := model.NewRun("endpoint", "%", 0)
		if err := p.Execute(ctx, run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sawCancelled {
			t.Error("expected export step to get an uncancelled context")
		}
		if diff := cmp.Diff([]string{"fetch", "export"}, run.PerformedSteps); diff != "" {
			t.Errorf("performed steps mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestPipelineStepNames tests step name listing.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := NewDefaultPipeline(newRegistry(1), RunOptions{OutputPath: "out.csv", Format: "csv", SummaryPath: "summary.md"})
	want := []string{StepList, StepFetch, StepFlatten, StepExport, StepSummary}
	if diff := cmp.Diff(want, p.StepNames()); diff != "" {
		t.Errorf("step names mismatch (-want +got):\n%s", diff)
	}

	p = NewDefaultPipeline(newRegistry(1), RunOptions{OutputPath: "out.csv", Format: "csv"})
	if p.StepCount() != 4 {
		t.Errorf("expected 4 steps without summary, got %d", p.StepCount())
	}
}

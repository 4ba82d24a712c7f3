package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nao1215/doccano2spacy/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *Run) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *Run) error {
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

func newTestRun() *Run {
	return NewRun("train.jsonl", model.SchemaAuto, model.ShapeLegacy)
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
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

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds steps in order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

		names := p.StepNames()
		expected := []string{"first", "second", "third"}
		if len(names) != len(expected) {
			t.Fatalf("expected %d steps, got %d", len(expected), len(names))
		}
		for i, name := range expected {
			if names[i] != name {
				t.Errorf("step[%d]: expected %q, got %q", i, name, names[i])
			}
		}
	})

	t.Run("returns empty slice for empty pipeline", func(t *testing.T) {
		t.Parallel()

		if names := New().StepNames(); len(names) != 0 {
			t.Errorf("expected no names, got %v", names)
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		executionOrder := make([]string, 0)

		p := New()
		for _, name := range []string{"step-1", "step-2"} {
			p.AddStep(&mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *Run) error {
					executionOrder = append(executionOrder, name)
					return nil
				},
			})
		}

		run := newTestRun()
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(executionOrder) != 2 || executionOrder[0] != "step-1" || executionOrder[1] != "step-2" {
			t.Errorf("wrong execution order: %v", executionOrder)
		}
		if len(run.Report.PerformedSteps) != 2 {
			t.Errorf("expected 2 performed steps, got %d", len(run.Report.PerformedSteps))
		}
		if run.Report.FinishedAt.IsZero() {
			t.Error("expected FinishedAt to be set")
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}

		p := New()
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *Run) error {
				return expectedErr
			},
		})
		p.AddStep(second)

		run := newTestRun()
		err := p.Execute(context.Background(), run)

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
		if run.Report.ErrorMessage != expectedErr.Error() {
			t.Errorf("expected error message %q, got %q", expectedErr.Error(), run.Report.ErrorMessage)
		}
		if run.Report.Valid() {
			t.Error("expected report with processing error to be invalid")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		second := &mockStep{name: "should-run"}

		p := New(WithContinueOnError(true))
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *Run) error {
				return errors.New("step failed")
			},
		})
		p.AddStep(second)

		run := newTestRun()
		if err := p.Execute(context.Background(), run); err != nil {
			t.Errorf("expected nil error with continueOnError, got %v", err)
		}
		if second.callCount != 1 {
			t.Error("second step should have been called")
		}
		if run.Report.Error == nil {
			t.Error("expected error to be recorded in report")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "should-not-run"}
		p := New()
		p.AddStep(step)

		run := newTestRun()
		err := p.Execute(ctx, run)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not have been called")
		}
		if !errors.Is(run.Report.Error, context.Canceled) {
			t.Errorf("expected cancellation recorded in report, got %v", run.Report.Error)
		}
	})

	t.Run("pipeline works with custom logger", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		p := New(WithLogger(logger))
		p.AddStep(&mockStep{name: "logged"})

		if err := p.Execute(context.Background(), newTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Contains(buf.Bytes(), []byte("step=logged")) {
			t.Errorf("expected step name in log output, got %q", buf.String())
		}
	})
}

// TestDefaultPipeline tests the standard step layout.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("validation steps", func(t *testing.T) {
		t.Parallel()

		names := DefaultPipeline(nil).StepNames()
		expected := []string{"read", "detect", "construct", "shape"}
		if len(names) != len(expected) {
			t.Fatalf("expected %v, got %v", expected, names)
		}
		for i := range expected {
			if names[i] != expected[i] {
				t.Errorf("step[%d]: expected %q, got %q", i, expected[i], names[i])
			}
		}
	})

	t.Run("match steps", func(t *testing.T) {
		t.Parallel()

		names := MatchPipeline(&model.DoccanoDataset{}, nil).StepNames()
		if len(names) != 2 || names[0] != "read" || names[1] != "reference" {
			t.Errorf("unexpected steps: %v", names)
		}
	})

	t.Run("config options", func(t *testing.T) {
		t.Parallel()

		cfg := newDefaultPipelineConfig([]DefaultPipelineOption{
			WithPipelineSkipMalformed(false),
			WithPipelineMaxLineBytes(1024),
		})
		if cfg.SkipMalformed {
			t.Error("expected SkipMalformed to be false")
		}
		if cfg.MaxLineBytes != 1024 {
			t.Errorf("expected MaxLineBytes 1024, got %d", cfg.MaxLineBytes)
		}

		cfg = newDefaultPipelineConfig([]DefaultPipelineOption{WithPipelineMaxLineBytes(-1)})
		if cfg.MaxLineBytes <= 0 {
			t.Errorf("expected default MaxLineBytes, got %d", cfg.MaxLineBytes)
		}
		if !cfg.SkipMalformed {
			t.Error("expected SkipMalformed to default to true")
		}
	})
}

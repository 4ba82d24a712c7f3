package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/doccano2spacy/internal/jsonl"
	"github.com/nao1215/doccano2spacy/internal/model"
)

// Run is the state of one input moving through a pipeline.
type Run struct {
	// Report collects counts and findings for the input.
	Report *model.ValidationReport

	// Lines holds every line that decoded as JSON, in input order.
	Lines []jsonl.Line

	// Accepted holds the lines that were constructed into Dataset entries.
	// Accepted[i] is the raw form of Dataset entry i.
	Accepted []jsonl.Line

	// Dataset is the constructed dataset. Nil until ConstructStep ran.
	Dataset model.Dataset
}

// NewRun creates the state for validating path.
func NewRun(path string, schema model.Schema, mode model.ShapeMode) *Run {
	return &Run{Report: model.NewValidationReport(path, schema, mode)}
}

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Do executes the step. Non-critical problems are recorded in the
	// run's report and nil is returned.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
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
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The error is still recorded in the report.
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

// Execute runs all steps in sequence, checking for cancellation before
// each one. It returns the first step error unless continueOnError is
// set. FinishedAt is stamped on the report in every case.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	report := run.Report
	defer func() {
		report.FinishedAt = time.Now()
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"path", report.Path,
				"reason", ctx.Err(),
			)
			report.SetError(ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"path", report.Path,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"path", report.Path,
				"error", err,
			)

			report.SetError(err)

			if !p.continueOnError {
				report.PerformedSteps = append(report.PerformedSteps, step.Name())
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"path", report.Path,
			)
		}

		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}

	return nil
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

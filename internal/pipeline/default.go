package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/doccano2spacy/internal/jsonl"
	"github.com/nao1215/doccano2spacy/internal/model"
)

// DefaultPipelineConfig holds the knobs of the standard pipelines.
type DefaultPipelineConfig struct {
	// SkipMalformed keeps going past records that fail construction.
	SkipMalformed bool

	// MaxLineBytes is the largest accepted input line.
	MaxLineBytes int
}

// DefaultPipelineOption configures DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineSkipMalformed sets whether malformed records are skipped.
func WithPipelineSkipMalformed(skip bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SkipMalformed = skip
	}
}

// WithPipelineMaxLineBytes sets the maximum line size. Values <= 0 keep the default.
func WithPipelineMaxLineBytes(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		if n > 0 {
			c.MaxLineBytes = n
		}
	}
}

func newDefaultPipelineConfig(configOpts []DefaultPipelineOption) *DefaultPipelineConfig {
	cfg := &DefaultPipelineConfig{
		SkipMalformed: true,
		MaxLineBytes:  jsonl.DefaultMaxLineBytes,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}
	return cfg
}

// DefaultPipeline returns the validation pipeline:
// read, detect, construct, shape.
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)
	cfg := newDefaultPipelineConfig(configOpts)

	p.AddSteps(
		NewReadStep(
			WithReadMaxLineBytes(cfg.MaxLineBytes),
			WithReadLogger(p.logger),
		),
		NewDetectStep(p.logger),
		NewConstructStep(
			WithSkipMalformed(cfg.SkipMalformed),
			WithConstructLogger(p.logger),
		),
		NewShapeStep(p.logger),
	)

	return p
}

// MatchPipeline returns the pipeline that compares an input with a
// reference dataset: read, reference.
func MatchPipeline(reference model.Dataset, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)
	cfg := newDefaultPipelineConfig(configOpts)

	p.AddSteps(
		NewReadStep(
			WithReadMaxLineBytes(cfg.MaxLineBytes),
			WithReadLogger(p.logger),
		),
		NewReferenceStep(reference, p.logger),
	)

	return p
}

// LoadReference reads path and constructs its dataset. Unlike validation
// every record must be well formed: a reference with a bad record is an
// error, as is an empty one.
func LoadReference(ctx context.Context, path string, schema model.Schema, pipelineOpts []Option, configOpts ...DefaultPipelineOption) (model.Dataset, error) {
	p := New(pipelineOpts...)
	cfg := newDefaultPipelineConfig(configOpts)
	p.AddSteps(
		NewReadStep(WithReadMaxLineBytes(cfg.MaxLineBytes), WithReadLogger(p.logger)),
		NewDetectStep(p.logger),
		NewConstructStep(WithSkipMalformed(false), WithConstructLogger(p.logger)),
	)

	run := NewRun(path, schema, model.ShapeLegacy)
	if err := p.Execute(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to load reference %s: %w", path, err)
	}
	if n := run.Report.CountBySeverity(model.SeverityError); n > 0 {
		return nil, fmt.Errorf("failed to load reference %s: %d invalid lines", path, n)
	}
	if run.Dataset == nil || run.Dataset.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyReference)
	}
	return run.Dataset, nil
}

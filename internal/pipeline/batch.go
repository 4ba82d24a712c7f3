package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/doccano2spacy/internal/model"
	"golang.org/x/sync/errgroup"
)

// Factory builds a fresh pipeline and run for one input path. Per-input
// configuration is resolved inside the factory.
type Factory func(path string) (*Pipeline, *Run)

// BatchProcessor validates multiple inputs concurrently.
type BatchProcessor struct {
	// factory creates a new pipeline for each input.
	factory Factory

	// concurrency is the maximum number of files processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of files processed at once.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(factory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: 10,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch validates every path with at most concurrency files in
// flight. Reports are returned in input order, one per path; a failure on
// one file is recorded in its report and does not stop the others. The
// error is non-nil only when ctx was cancelled, in which case reports for
// files that never started are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.ValidationReport, error) {
	bp.logger.Info("starting batch processing",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.ValidationReport, len(paths))

	err := bp.run(ctx, paths, func(report *model.ValidationReport, index int) {
		results[index] = report
	})

	bp.logger.Info("batch processing complete",
		"total_files", len(paths),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback validates every path and calls callback as
// each file completes. The callback runs on the worker goroutine, so it
// must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *model.ValidationReport, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)

	return bp.run(ctx, paths, callback)
}

func (bp *BatchProcessor) run(
	ctx context.Context,
	paths []string,
	done func(report *model.ValidationReport, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("validating file",
				"path", path,
				"index", i+1,
				"total", len(paths),
			)

			p, run := bp.factory(path)
			if err := p.Execute(ctx, run); err != nil {
				bp.logger.Warn("validation failed",
					"path", path,
					"error", err,
				)
			}

			done(run.Report, i)
			return nil
		})
	}

	return g.Wait()
}

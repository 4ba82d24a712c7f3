package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/doccano2spacy/internal/config"
	"github.com/nao1215/doccano2spacy/internal/model"
	"github.com/nao1215/doccano2spacy/internal/pipeline"
	"github.com/nao1215/doccano2spacy/internal/report"
	"github.com/spf13/cobra"
)

// ErrValidationFailed is returned when at least one input did not pass.
// The process exits non-zero.
var ErrValidationFailed = errors.New("validation failed")

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file.jsonl...]",
		Short: "Validate Doccano or Spacy JSONL files",
		Long: `Validate checks that every record of a JSON-Lines file belongs to one
annotation schema and has a consistent shape.

For each file it:
- Decodes every non-blank line as JSON
- Detects the schema from the first record (unless --schema is given)
- Constructs a typed entry per record, reporting missing fields and wrong types
- Checks each entry against its own record and the dataset against all records

The exit status is non-zero when any file has an error finding.

Examples:
  # Validate a single file, detecting its schema
  doccano2spacy validate train.jsonl

  # Validate several files, eight at a time
  doccano2spacy validate -b 8 data/*.jsonl

  # Force the Spacy schema and the strict shape mode
  doccano2spacy validate --schema spacy --mode strict corpus.jsonl.xz

  # Stop each file at its first malformed record
  doccano2spacy validate --skip-malformed=false export.jsonl.gz

  # Write a Markdown report for a pull request comment
  doccano2spacy validate --markdown -o report.md train.jsonl

Configuration file (.doccano2spacy.yaml) example:
  defaults:
    shapeMode: strict
  inputs:
    "*.spacy.jsonl":
      schema: spacy`,
		Args: cobra.ArbitraryArgs,
		RunE: runValidateCmd,
	}

	addCommonFlags(cmd)

	return cmd
}

// addCommonFlags registers the flags shared by validate and match.
func addCommonFlags(cmd *cobra.Command) {
	// Validation behavior flags
	cmd.Flags().StringP("schema", "s", string(model.SchemaAuto),
		"Annotation schema: auto, doccano or spacy")
	cmd.Flags().StringP("mode", "M", model.ShapeLegacy.String(),
		"Shape mode: legacy (first element only) or strict (every element)")
	cmd.Flags().BoolP("skip-malformed", "k", config.DefaultSkipMalformed,
		"Report malformed records and keep going; false stops at the first one")
	cmd.Flags().String("max-line-bytes", humanize.IBytes(config.DefaultMaxLineBytes),
		"Largest accepted line, e.g. 512KiB or 64MB")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files validated concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .doccano2spacy.yaml in current, XDG config or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runBatch(ctx, cmd.OutOrStdout(), cfg, logger, validateFactory(cfg, logger))
}

// buildConfig creates a Config from cobra command flags.
// Validation settings are copied only when the flag was given, so the
// configuration file can supply them otherwise.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	flags := cmd.Flags()
	var err error

	if flags.Changed("schema") {
		if cfg.Schema, err = flags.GetString("schema"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("mode") {
		if cfg.ShapeMode, err = flags.GetString("mode"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("skip-malformed") {
		skip, err := flags.GetBool("skip-malformed")
		if err != nil {
			return nil, err
		}
		cfg.SkipMalformed = &skip
	}

	if flags.Changed("max-line-bytes") {
		raw, err := flags.GetString("max-line-bytes")
		if err != nil {
			return nil, err
		}
		n, err := humanize.ParseBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-line-bytes %q: %w", raw, err)
		}
		if n == 0 || n > math.MaxInt32 {
			return nil, fmt.Errorf("invalid --max-line-bytes %q: %w", raw, config.ErrInvalidMaxLineBytes)
		}
		cfg.MaxLineBytes = int(n)
	}

	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicit --config must exist; the default locations are optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.InputConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.InputConfigs = &config.File{
			Inputs: make(map[string]config.InputConfig),
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}

	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}

	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	cfg.Inputs = args

	return cfg, nil
}

// pipelineOptions returns the options shared by every pipeline of a run.
// A failing step stops its file; other files continue.
func pipelineOptions(logger *slog.Logger) []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(false),
	}
}

// settingsOptions converts resolved settings into pipeline options.
func settingsOptions(s config.Settings) []pipeline.DefaultPipelineOption {
	return []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineSkipMalformed(s.SkipMalformed),
		pipeline.WithPipelineMaxLineBytes(s.MaxLineBytes),
	}
}

// failedRun returns an empty pipeline and a run already carrying err.
func failedRun(path string, err error, logger *slog.Logger) (*pipeline.Pipeline, *pipeline.Run) {
	run := pipeline.NewRun(path, model.SchemaAuto, model.ShapeLegacy)
	run.Report.SetError(err)
	return pipeline.New(pipelineOptions(logger)...), run
}

// validateFactory builds one validation pipeline per input, applying the
// input's own settings from the configuration file.
func validateFactory(cfg *config.Config, logger *slog.Logger) pipeline.Factory {
	return func(path string) (*pipeline.Pipeline, *pipeline.Run) {
		s, err := cfg.Resolve(path)
		if err != nil {
			return failedRun(path, err, logger)
		}

		logger.Debug("resolved settings",
			"path", path,
			"schema", s.Schema,
			"mode", s.ShapeMode,
			"skip_malformed", s.SkipMalformed,
			"max_line_bytes", s.MaxLineBytes,
		)

		p := pipeline.DefaultPipeline(pipelineOptions(logger), settingsOptions(s)...)
		return p, pipeline.NewRun(path, s.Schema, s.ShapeMode)
	}
}

// runBatch processes every input, writes the reports and turns the
// verdict into the command's error.
func runBatch(ctx context.Context, stdout io.Writer, cfg *config.Config, logger *slog.Logger, factory pipeline.Factory) error {
	bp := pipeline.NewBatchProcessor(
		factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, batchErr := bp.ProcessBatch(ctx, cfg.Inputs)

	if err := outputReports(stdout, cfg, reports); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if batchErr != nil {
		return batchErr
	}

	return verdict(reports)
}

// verdict returns ErrValidationFailed when any report did not pass.
func verdict(reports []*model.ValidationReport) error {
	failed := 0
	for _, r := range reports {
		if r == nil || !r.Valid() {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d file(s)", ErrValidationFailed, failed, len(reports))
}

// newWriter returns the report writer for the requested format.
func newWriter(output io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// outputReports writes the reports in the requested format, followed by a
// summary when there is more than one. JSON output of several files is a
// single document.
func outputReports(stdout io.Writer, cfg *config.Config, reports []*model.ValidationReport) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	present := make([]*model.ValidationReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			present = append(present, r)
		}
	}

	w := newWriter(output, cfg)

	if cfg.JSONReport && len(present) > 1 {
		_, err := w.WriteSummary(present)
		return err
	}

	for _, r := range present {
		if _, err := w.Write(r); err != nil {
			return err
		}
	}

	if len(present) > 1 {
		if _, err := w.WriteSummary(present); err != nil {
			return err
		}
	}
	return nil
}

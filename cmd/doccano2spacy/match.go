package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/doccano2spacy/internal/config"
	"github.com/nao1215/doccano2spacy/internal/model"
	"github.com/nao1215/doccano2spacy/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewMatchCmd creates the match command.
// This command checks target files against the shape of a reference file.
func NewMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match --reference <ref.jsonl> [file.jsonl...]",
		Short: "Check JSONL files against the shape of a reference file",
		Long: `Match builds a dataset from a reference file and checks target files
against it.

The reference must be well formed: every record has to construct, and the
file must not be empty. For each target record, match reports whether it
has the shape of the reference's first entry. It also gives a dataset-level
verdict for each target in the chosen shape mode.

The schema always comes from the reference; --schema applies to the
reference only.

Examples:
  # Check a new export against a known-good file
  doccano2spacy match --reference golden.jsonl export.jsonl

  # Compare every element instead of the first one
  doccano2spacy match -r golden.jsonl --mode strict exports/*.jsonl

  # Output the result as JSON
  doccano2spacy match -r golden.jsonl --json export.jsonl`,
		Args: cobra.ArbitraryArgs,
		RunE: runMatchCmd,
	}

	cmd.Flags().StringP("reference", "r", "",
		"Reference JSONL file whose shape targets must have (required)")
	addCommonFlags(cmd)

	return cmd
}

// runMatchCmd executes the match command.
func runMatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if cfg.Reference, err = cmd.Flags().GetString("reference"); err != nil {
		return err
	}
	if cfg.Reference == "" {
		return fmt.Errorf("configuration error: %w", config.ErrNoReference)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refSettings, err := cfg.Resolve(cfg.Reference)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	reference, err := pipeline.LoadReference(ctx, cfg.Reference, refSettings.Schema,
		pipelineOptions(logger),
		pipeline.WithPipelineMaxLineBytes(refSettings.MaxLineBytes),
	)
	if err != nil {
		return err
	}

	logger.Info("reference loaded",
		"path", cfg.Reference,
		"schema", reference.Schema(),
		"entries", reference.Len(),
	)

	return runBatch(ctx, cmd.OutOrStdout(), cfg, logger, matchFactory(cfg, reference, logger))
}

// matchFactory builds one match pipeline per target.
func matchFactory(cfg *config.Config, reference model.Dataset, logger *slog.Logger) pipeline.Factory {
	return func(path string) (*pipeline.Pipeline, *pipeline.Run) {
		s, err := cfg.Resolve(path)
		if err != nil {
			return failedRun(path, err, logger)
		}

		p := pipeline.MatchPipeline(reference, pipelineOptions(logger),
			pipeline.WithPipelineMaxLineBytes(s.MaxLineBytes),
		)

		run := pipeline.NewRun(path, reference.Schema(), s.ShapeMode)
		run.Report.Reference = cfg.Reference
		return p, run
	}
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/doccano2spacy/internal/jsonl"
	"github.com/nao1215/doccano2spacy/internal/model"
)

// cancelCheckInterval is how many lines are processed between context checks.
const cancelCheckInterval = 1024

// ReadStep reads and decodes the input file. Lines that are not valid
// JSON become invalid_json findings; the rest are stored in Run.Lines.
type ReadStep struct {
	maxLineBytes int
	logger       *slog.Logger
}

// ReadStepOption configures a ReadStep.
type ReadStepOption func(*ReadStep)

// WithReadMaxLineBytes sets the maximum accepted line size.
func WithReadMaxLineBytes(n int) ReadStepOption {
	return func(s *ReadStep) {
		s.maxLineBytes = n
	}
}

// WithReadLogger sets a custom logger for the read step.
func WithReadLogger(logger *slog.Logger) ReadStepOption {
	return func(s *ReadStep) {
		s.logger = logger
	}
}

// NewReadStep creates a new read step.
func NewReadStep(opts ...ReadStepOption) *ReadStep {
	s := &ReadStep{
		maxLineBytes: jsonl.DefaultMaxLineBytes,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ReadStep) Name() string {
	return "read"
}

// Do executes the read step.
func (s *ReadStep) Do(ctx context.Context, run *Run) error {
	report := run.Report

	r, err := jsonl.Open(report.Path, jsonl.WithMaxLineBytes(s.maxLineBytes))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			s.logger.Debug("failed to close input", "path", report.Path, "error", cerr)
		}
	}()

	for {
		line, ok := r.Next()
		if !ok {
			break
		}
		report.Lines++

		if report.Lines%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if line.Err != nil {
			s.logger.Debug("invalid JSON line", "path", report.Path, "line_number", line.Number, "raw", string(line.Raw))
			f := model.NewFinding(model.FindingInvalidJSON, line.Number, line.Err.Error())
			f.RecordID = line.Locator()
			report.AddFinding(f)
			continue
		}
		run.Lines = append(run.Lines, line)
	}
	if err := r.Err(); err != nil {
		return err
	}

	report.Records = len(run.Lines)
	report.SizeBytes = r.Size()
	report.Digest = r.Digest()

	if report.Lines == 0 {
		report.AddFinding(model.NewFinding(model.FindingEmptyInput, 0, "no records found"))
	}

	s.logger.Debug("read input",
		"path", report.Path,
		"lines", report.Lines,
		"records", report.Records,
		"bytes", report.SizeBytes,
	)
	return nil
}

// DetectStep resolves SchemaAuto from the first decoded record.
type DetectStep struct {
	logger *slog.Logger
}

// NewDetectStep creates a new detect step.
func NewDetectStep(logger *slog.Logger) *DetectStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetectStep{logger: logger}
}

// Name returns the step name.
func (s *DetectStep) Name() string {
	return "detect"
}

// Do executes the detect step. A file without records keeps SchemaAuto.
func (s *DetectStep) Do(_ context.Context, run *Run) error {
	report := run.Report
	if report.Schema != model.SchemaAuto || len(run.Lines) == 0 {
		return nil
	}

	first := run.Lines[0]
	detected := model.DetectSchema(first.Value)
	if !detected.Known() {
		report.Schema = model.SchemaUnknown
		f := model.NewFinding(model.FindingUnknownSchema, first.Number, "first record has neither \"label\" nor \"tokens\"")
		f.RecordID = first.Locator()
		report.AddFinding(f)
		return fmt.Errorf("%w: cannot detect schema of %s", model.ErrUnknownSchema, report.Path)
	}

	s.logger.Debug("detected schema", "path", report.Path, "schema", detected)
	report.Schema = detected
	return nil
}

// ConstructStep builds typed entries from the decoded records and then
// the dataset of every entry that succeeded.
type ConstructStep struct {
	skipMalformed bool
	logger        *slog.Logger
}

// ConstructStepOption configures a ConstructStep.
type ConstructStepOption func(*ConstructStep)

// WithSkipMalformed controls whether malformed records are skipped (the
// default) or abort the run with ErrMalformedInput.
func WithSkipMalformed(skip bool) ConstructStepOption {
	return func(s *ConstructStep) {
		s.skipMalformed = skip
	}
}

// WithConstructLogger sets a custom logger for the construct step.
func WithConstructLogger(logger *slog.Logger) ConstructStepOption {
	return func(s *ConstructStep) {
		s.logger = logger
	}
}

// NewConstructStep creates a new construct step.
func NewConstructStep(opts ...ConstructStepOption) *ConstructStep {
	s := &ConstructStep{
		skipMalformed: true,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ConstructStep) Name() string {
	return "construct"
}

// Do executes the construct step.
func (s *ConstructStep) Do(ctx context.Context, run *Run) error {
	report := run.Report
	if !report.Schema.Known() {
		return nil
	}

	run.Accepted = run.Accepted[:0]
	for i, line := range run.Lines {
		if i%cancelCheckInterval == cancelCheckInterval-1 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if _, err := model.NewEntry(report.Schema, line.Value); err != nil {
			report.AddFinding(constructFinding(report.Schema, line, err))
			if !s.skipMalformed {
				return fmt.Errorf("%w: line %d: %w", ErrMalformedInput, line.Number, err)
			}
			continue
		}
		run.Accepted = append(run.Accepted, line)
	}

	ds, err := model.NewDataset(report.Schema, values(run.Accepted))
	if err != nil {
		return err
	}
	run.Dataset = ds
	report.Constructed = ds.Len()

	s.logger.Debug("constructed dataset",
		"path", report.Path,
		"schema", report.Schema,
		"entries", ds.Len(),
		"skipped", len(run.Lines)-ds.Len(),
	)
	return nil
}

// constructFinding classifies a construction failure. A record that
// looks like the other schema is a schema mismatch; anything else is
// malformed.
func constructFinding(schema model.Schema, line jsonl.Line, err error) model.Finding {
	findingType := model.FindingMalformedRecord
	if detected := model.DetectSchema(line.Value); detected.Known() && detected != schema {
		findingType = model.FindingSchemaMismatch
	}

	f := model.NewFinding(findingType, line.Number, err.Error())
	f.RecordID = line.Locator()

	var fe *model.FieldError
	if errors.As(err, &fe) {
		f.Field = fe.Field
	}
	return f
}

// ShapeStep checks every constructed entry against its own raw record,
// then the dataset against all accepted records.
type ShapeStep struct {
	logger *slog.Logger
}

// NewShapeStep creates a new shape step.
func NewShapeStep(logger *slog.Logger) *ShapeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShapeStep{logger: logger}
}

// Name returns the step name.
func (s *ShapeStep) Name() string {
	return "shape"
}

// Do executes the shape step.
func (s *ShapeStep) Do(_ context.Context, run *Run) error {
	report := run.Report
	if run.Dataset == nil || run.Dataset.Len() == 0 {
		return nil
	}

	for i, line := range run.Accepted {
		if run.Dataset.EntryMatcher(i).MatchesShapeMode(line.Value, report.Mode) {
			report.ShapeMatched++
			continue
		}
		f := model.NewFinding(model.FindingShapeMismatch, line.Number,
			fmt.Sprintf("entry does not match its own record in %s mode", report.Mode))
		f.RecordID = line.Locator()
		report.AddFinding(f)
	}

	report.DatasetMatch = run.Dataset.MatchesShapeMode(values(run.Accepted), report.Mode)
	if !report.DatasetMatch {
		report.AddFinding(model.NewFinding(model.FindingDatasetShapeMismatch, 0,
			fmt.Sprintf("dataset does not match its records in %s mode", report.Mode)))
	}

	s.logger.Debug("checked shapes",
		"path", report.Path,
		"mode", report.Mode,
		"matched", report.ShapeMatched,
		"dataset_match", report.DatasetMatch,
	)
	return nil
}

// ReferenceStep checks every decoded record of the input against the
// first entry of a reference dataset, and the whole input against the
// reference dataset.
type ReferenceStep struct {
	reference model.Dataset
	logger    *slog.Logger
}

// NewReferenceStep creates a new reference step.
func NewReferenceStep(reference model.Dataset, logger *slog.Logger) *ReferenceStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceStep{reference: reference, logger: logger}
}

// Name returns the step name.
func (s *ReferenceStep) Name() string {
	return "reference"
}

// Do executes the reference step.
func (s *ReferenceStep) Do(_ context.Context, run *Run) error {
	report := run.Report
	if s.reference == nil || s.reference.Len() == 0 {
		return ErrEmptyReference
	}
	report.Schema = s.reference.Schema()

	first := s.reference.EntryMatcher(0)
	for _, line := range run.Lines {
		if first.MatchesShapeMode(line.Value, report.Mode) {
			report.ShapeMatched++
			continue
		}
		f := model.NewFinding(model.FindingReferenceMismatch, line.Number,
			fmt.Sprintf("record does not match the first %s reference entry", report.Schema))
		f.RecordID = line.Locator()
		report.AddFinding(f)
	}

	report.DatasetMatch = len(run.Lines) > 0 && s.reference.MatchesShapeMode(values(run.Lines), report.Mode)
	if !report.DatasetMatch && len(run.Lines) > 0 {
		report.AddFinding(model.NewFinding(model.FindingDatasetShapeMismatch, 0,
			fmt.Sprintf("input does not match the reference dataset in %s mode", report.Mode)))
	}

	s.logger.Debug("compared with reference",
		"path", report.Path,
		"reference", report.Reference,
		"matched", report.ShapeMatched,
		"dataset_match", report.DatasetMatch,
	)
	return nil
}

func values(lines []jsonl.Line) []any {
	out := make([]any, len(lines))
	for i, l := range lines {
		out[i] = l.Value
	}
	return out
}

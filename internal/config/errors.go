package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Config.Resolve.
var (
	// ErrNoInput is returned when no input file is specified.
	ErrNoInput = errors.New("no input specified: provide at least one JSONL file")

	// ErrNoReference is returned by the match command without --reference.
	ErrNoReference = errors.New("no reference specified: use --reference")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxLineBytes is returned when the maximum line size is negative.
	// Zero means the built-in default.
	ErrInvalidMaxLineBytes = errors.New("invalid max line bytes: must be non-negative")

	// ErrInvalidSchema is returned for a schema name other than auto, doccano or spacy.
	ErrInvalidSchema = errors.New("invalid schema: must be auto, doccano or spacy")

	// ErrInvalidShapeMode is returned for a shape mode other than legacy or strict.
	ErrInvalidShapeMode = errors.New("invalid shape mode: must be legacy or strict")
)

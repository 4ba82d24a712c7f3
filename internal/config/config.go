package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/doccano2spacy/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "doccano2spacy"

	// DefaultBatchSize is the number of files validated concurrently.
	DefaultBatchSize = 10

	// DefaultMaxLineBytes is the largest JSONL line accepted.
	// Long Spacy records with many tokens can reach several megabytes.
	DefaultMaxLineBytes = 16 << 20

	// DefaultSkipMalformed keeps validating past records that fail construction.
	DefaultSkipMalformed = true
)

// Config holds all configuration options for a command run.
// It is populated from CLI flags and passed down explicitly.
//
// Schema, ShapeMode, SkipMalformed and MaxLineBytes are only set when the
// matching flag was given on the command line. Their zero values mean
// "not set", so Resolve can fall back to the config file and then to the
// built-in defaults.
type Config struct {
	// Schema is "auto", "doccano" or "spacy". Empty means not set.
	Schema string

	// ShapeMode is "legacy" or "strict". Empty means not set.
	ShapeMode string

	// SkipMalformed reports malformed records as findings and keeps going.
	// Nil means not set.
	SkipMalformed *bool

	// MaxLineBytes is the largest accepted line. Zero means not set.
	MaxLineBytes int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of files validated concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string

	// InputConfigs holds the loaded configuration file, if any.
	InputConfigs *File

	// JSONReport enables JSON report output instead of the text format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables GitHub Flavored Markdown output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Inputs is the list of JSONL files to process.
	Inputs []string

	// Reference is the reference JSONL file for the match command.
	Reference string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
	}
}

// XDGConfigDir returns the XDG config directory for doccano2spacy.
// On Linux: ~/.config/doccano2spacy
// On macOS: ~/Library/Application Support/doccano2spacy
// On Windows: %APPDATA%\doccano2spacy
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxLineBytes < 0 {
		return ErrInvalidMaxLineBytes
	}

	if _, err := parseSchema(c.Schema); err != nil {
		return err
	}
	if _, err := parseShapeMode(c.ShapeMode); err != nil {
		return err
	}

	if c.InputConfigs != nil {
		return c.InputConfigs.Validate()
	}
	return nil
}

// Settings are the effective options for one input file.
type Settings struct {
	Schema        model.Schema
	ShapeMode     model.ShapeMode
	SkipMalformed bool
	MaxLineBytes  int
}

// Resolve returns the settings for path. Each option comes from the first
// source that sets it: command-line flag, the file's entry for path, the
// file's defaults, then the built-in default.
func (c *Config) Resolve(path string) (Settings, error) {
	var in InputConfig
	if c.InputConfigs != nil {
		in = c.InputConfigs.GetInputConfig(path)
	}

	schemaName := firstNonEmpty(c.Schema, in.Schema)
	schema, err := parseSchema(schemaName)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}

	modeName := firstNonEmpty(c.ShapeMode, in.ShapeMode)
	mode, err := parseShapeMode(modeName)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}

	s := Settings{
		Schema:        schema,
		ShapeMode:     mode,
		SkipMalformed: DefaultSkipMalformed,
		MaxLineBytes:  DefaultMaxLineBytes,
	}

	switch {
	case c.SkipMalformed != nil:
		s.SkipMalformed = *c.SkipMalformed
	case in.SkipMalformed != nil:
		s.SkipMalformed = *in.SkipMalformed
	}

	switch {
	case c.MaxLineBytes > 0:
		s.MaxLineBytes = c.MaxLineBytes
	case in.MaxLineBytes > 0:
		s.MaxLineBytes = in.MaxLineBytes
	}

	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseSchema(s string) (model.Schema, error) {
	schema, err := model.ParseSchema(s)
	if err != nil {
		return model.SchemaAuto, fmt.Errorf("%w: %q", ErrInvalidSchema, s)
	}
	return schema, nil
}

func parseShapeMode(s string) (model.ShapeMode, error) {
	mode, err := model.ParseShapeMode(s)
	if err != nil {
		return model.ShapeLegacy, fmt.Errorf("%w: %q", ErrInvalidShapeMode, s)
	}
	return mode, nil
}

package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/doccano2spacy/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.ValidationReport) (int, error) {
	return w.writeJSON(report)
}

// WriteSummary outputs all reports and their totals as one JSON document.
func (w *JSONWriter) WriteSummary(reports []*model.ValidationReport) (int, error) {
	return w.writeJSON(newBatchJSON(reports, ""))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a report with the version of the tool that produced it.
type JSONReport struct {
	// Version is the doccano2spacy version that generated this report.
	Version string `json:"version"`

	// Valid repeats the report's verdict at the top level.
	Valid bool `json:"valid"`

	// Report is the full validation report.
	Report *model.ValidationReport `json:"report"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.ValidationReport, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Valid:   report.Valid(),
		Report:  report,
	}
}

// BatchJSON is the JSON document written for several reports.
type BatchJSON struct {
	Version string                    `json:"version,omitempty"`
	Summary BatchSummary              `json:"summary"`
	Reports []*model.ValidationReport `json:"reports"`
}

func newBatchJSON(reports []*model.ValidationReport, version string) *BatchJSON {
	kept := make([]*model.ValidationReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return &BatchJSON{
		Version: version,
		Summary: countReports(reports),
		Reports: kept,
	}
}

// FullJSONWriter outputs reports wrapped with version metadata.
type FullJSONWriter struct {
	*JSONWriter

	// version is the doccano2spacy version string.
	version string
}

// NewFullJSONWriter creates a writer for reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.ValidationReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}

// WriteSummary outputs all reports with metadata.
func (w *FullJSONWriter) WriteSummary(reports []*model.ValidationReport) (int, error) {
	return w.writeJSON(newBatchJSON(reports, w.version))
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/doccano2spacy/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether severities with no findings are shown.
	showEmpty bool

	// verbose adds hints, field paths and the digest to the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ValidationReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeCounts(&sb, report)
	w.writeFindings(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs one line per report followed by totals.
func (w *SimpleWriter) WriteSummary(reports []*model.ValidationReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\nBATCH SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	for _, r := range reports {
		if r == nil {
			continue
		}
		fmt.Fprintf(&sb, "  %-8s %s (%d records, %d errors, %d warnings)\n",
			status(r), r.Path, r.Records,
			r.CountBySeverity(model.SeverityError),
			r.CountBySeverity(model.SeverityWarning),
		)
	}

	c := countReports(reports)
	fmt.Fprintf(&sb, "\n  %d files: %d valid, %d invalid, %d failed\n\n", c.Files, c.Valid, c.Invalid, c.Errored)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with input information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ValidationReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                     DOCCANO2SPACY VALIDATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "File:       %s\n", report.Path)
	if report.Reference != "" {
		fmt.Fprintf(sb, "Reference:  %s\n", report.Reference)
	}
	fmt.Fprintf(sb, "Schema:     %s\n", report.Schema)
	fmt.Fprintf(sb, "Shape mode: %s\n", report.Mode)
	fmt.Fprintf(sb, "Size:       %s\n", sizeText(report))
	if w.verbose && report.Digest != "" {
		fmt.Fprintf(sb, "BLAKE3:     %s\n", report.Digest)
	}
	fmt.Fprintf(sb, "Checked at: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))

	switch status(report) {
	case StatusError:
		fmt.Fprintf(sb, "Status:     ERROR - %s\n", report.ErrorMessage)
	default:
		fmt.Fprintf(sb, "Status:     %s\n", status(report))
	}

	sb.WriteString("\n")
}

// writeCounts writes the record counts section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, report *model.ValidationReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nRECORDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  Lines:          %d\n", report.Lines)
	fmt.Fprintf(sb, "  Decoded:        %d\n", report.Records)
	if report.Reference == "" {
		fmt.Fprintf(sb, "  Constructed:    %d\n", report.Constructed)
	}
	fmt.Fprintf(sb, "  Shape matched:  %d\n", report.ShapeMatched)
	fmt.Fprintf(sb, "  Dataset match:  %t\n", report.DatasetMatch)
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.ValidationReport) {
	if !report.HasFindings() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nFINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, severity := range []model.Severity{model.SeverityError, model.SeverityWarning, model.SeverityInfo} {
		findings := report.FindingsBySeverity(severity)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}
		w.writeFindingsForSeverity(sb, severity, findings)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	fmt.Fprintf(sb, "[%s] %s (%d)\n", w.getSeverityIndicator(severity), severity, len(findings))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, f := range findings {
		fmt.Fprintf(sb, "  * %s: %s\n", location(f), f.Title)
		if f.Field != "" {
			fmt.Fprintf(sb, "    Field: %s\n", f.Field)
		}
		if f.Message != "" {
			fmt.Fprintf(sb, "    %s\n", f.Message)
		}
		if w.verbose && f.Hint != "" {
			fmt.Fprintf(sb, "    Hint: %s\n", f.Hint)
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

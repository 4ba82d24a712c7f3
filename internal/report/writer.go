package report

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/doccano2spacy/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs one file's report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ValidationReport) (int, error)

	// WriteSummary outputs an overview of several reports, one line or row
	// per file. Used after batch validation.
	WriteSummary(reports []*model.ValidationReport) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ValidationReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(reports []*model.ValidationReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(reports)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Status values shown by the text and Markdown writers.
const (
	StatusValid   = "VALID"
	StatusInvalid = "INVALID"
	StatusError   = "ERROR"
)

// status classifies a report for display.
func status(report *model.ValidationReport) string {
	switch {
	case report.ErrorMessage != "":
		return StatusError
	case !report.Valid():
		return StatusInvalid
	default:
		return StatusValid
	}
}

// sizeText renders the on-disk size, e.g. "1.2 MB".
func sizeText(report *model.ValidationReport) string {
	if report.SizeBytes < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(report.SizeBytes))
}

// location renders where a finding was seen, e.g. "line 4 (id 17)".
func location(f model.Finding) string {
	if f.Line == 0 {
		return "file"
	}
	loc := "line " + humanize.Comma(int64(f.Line))
	if f.RecordID != "" {
		loc += " (id " + f.RecordID + ")"
	}
	return loc
}

// BatchSummary tallies reports by status.
type BatchSummary struct {
	Files   int `json:"files"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Errored int `json:"errored"`
	Records int `json:"records"`
}

func countReports(reports []*model.ValidationReport) BatchSummary {
	var c BatchSummary
	for _, r := range reports {
		if r == nil {
			continue
		}
		c.Files++
		c.Records += r.Records
		switch status(r) {
		case StatusValid:
			c.Valid++
		case StatusInvalid:
			c.Invalid++
		default:
			c.Errored++
		}
	}
	return c
}

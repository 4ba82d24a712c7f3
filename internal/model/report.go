package model

import (
	"time"

	"github.com/google/uuid"
)

// ValidationReport is the result of checking one JSONL input file.
// Pipeline steps fill it in; report writers render it.
type ValidationReport struct {
	// ID identifies this run; useful when several reports are collected.
	ID string `json:"id"`

	// Path is the input file.
	Path string `json:"path"`

	// Reference is the reference file for a match run. Empty for validation.
	Reference string `json:"reference,omitempty"`

	// Schema is the requested schema, replaced by the detected one when
	// SchemaAuto was requested.
	Schema Schema `json:"schema"`

	// Mode is the shape mode used for comparisons.
	Mode ShapeMode `json:"mode"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// SizeBytes is the on-disk size of the input, before decompression.
	SizeBytes int64 `json:"size_bytes"`

	// Digest is the hex BLAKE3 digest of the on-disk input.
	Digest string `json:"blake3,omitempty"`

	// Lines is the number of non-blank lines read.
	Lines int `json:"lines"`

	// Records is the number of lines that decoded as JSON.
	Records int `json:"records"`

	// Constructed is the number of records turned into typed entries.
	Constructed int `json:"constructed"`

	// ShapeMatched is the number of records that passed the shape check.
	ShapeMatched int `json:"shape_matched"`

	// DatasetMatch is the dataset-level shape verdict.
	DatasetMatch bool `json:"dataset_match"`

	Findings []Finding `json:"findings,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error that stopped the pipeline, if any.
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// Finding is a single problem found in an input file.
type Finding struct {
	// Type is one of the Finding* constants.
	Type string `json:"type"`

	Severity Severity `json:"severity"`

	Title string `json:"title"`

	// Line is the 1-based line number in the input, 0 for file-level findings.
	Line int `json:"line,omitempty"`

	// RecordID is the record's "id" value when one could be located.
	RecordID string `json:"record_id,omitempty"`

	// Field is the offending field path, e.g. "tokens[2].start".
	Field string `json:"field,omitempty"`

	Message string `json:"message,omitempty"`

	Hint string `json:"hint,omitempty"`
}

// NewValidationReport creates an empty report for path.
func NewValidationReport(path string, schema Schema, mode ShapeMode) *ValidationReport {
	return &ValidationReport{
		ID:        uuid.NewString(),
		Path:      path,
		Schema:    schema,
		Mode:      mode,
		StartedAt: time.Now(),
	}
}

// NewFinding builds a finding of the given type, filling severity, title
// and hint from the finding table.
func NewFinding(findingType string, line int, message string) Finding {
	info := GetFindingInfo(findingType)
	return Finding{
		Type:     findingType,
		Severity: info.Severity,
		Title:    info.Title,
		Line:     line,
		Message:  message,
		Hint:     info.Hint,
	}
}

// AddFinding appends f to the report.
func (r *ValidationReport) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// SetError records the error that stopped processing.
func (r *ValidationReport) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// FindingsBySeverity returns findings filtered by severity, in input order.
func (r *ValidationReport) FindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}

// CountBySeverity returns the number of findings of the given severity.
func (r *ValidationReport) CountBySeverity(severity Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == severity {
			n++
		}
	}
	return n
}

// HasFindings returns true if there are any findings.
func (r *ValidationReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// Valid reports whether the file passed: no error findings and no
// processing error.
func (r *ValidationReport) Valid() bool {
	return r.Error == nil && r.ErrorMessage == "" && r.CountBySeverity(SeverityError) == 0
}

// Duration returns how long processing took.
func (r *ValidationReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

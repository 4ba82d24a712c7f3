package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/doccano2spacy/internal/config"
	"github.com/nao1215/doccano2spacy/internal/model"
)

// TestNewValidateCmd tests the validate command flags.
func TestNewValidateCmd(t *testing.T) {
	t.Parallel()

	cmd := NewValidateCmd()

	testCases := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"schema", "s", "auto"},
		{"mode", "M", "legacy"},
		{"skip-malformed", "k", "true"},
		{"max-line-bytes", "", "16 MiB"},
		{"batch", "b", "10"},
		{"config", "c", ""},
		{"json", "j", "false"},
		{"markdown", "m", "false"},
		{"output", "o", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tc.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tc.name)
			}
			if flag.Shorthand != tc.shorthand {
				t.Errorf("expected shorthand %q, got %q", tc.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tc.defValue {
				t.Errorf("expected default %q, got %q", tc.defValue, flag.DefValue)
			}
		})
	}
}

// TestValidateCmd tests validation of files end to end.
func TestValidateCmd(t *testing.T) {
	t.Parallel()

	t.Run("valid doccano file passes", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", doccanoLines)

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output, "Status:     VALID") {
			t.Errorf("expected VALID status, got:\n%s", output)
		}
		if !strings.Contains(output, "Schema:     doccano") {
			t.Errorf("expected detected schema, got:\n%s", output)
		}
	})

	t.Run("malformed record fails validation", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", doccanoLines+`{"id": 3, "text": "no label"}`+"\n")

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", input)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}

		r := decodeReport(t, output)
		if r.Valid {
			t.Error("expected invalid verdict")
		}
		if r.Report.Records != 4 || r.Report.Constructed != 3 {
			t.Errorf("expected 4 records and 3 constructed, got %d and %d", r.Report.Records, r.Report.Constructed)
		}
		if r.Report.countType(model.FindingMalformedRecord) != 1 {
			t.Fatalf("expected one malformed record finding, got %+v", r.Report.Findings)
		}
		if r.Report.Findings[0].Line != 4 || r.Report.Findings[0].RecordID != "3" {
			t.Errorf("expected finding at line 4 for id 3, got %+v", r.Report.Findings[0])
		}
	})

	t.Run("skip-malformed false stops the file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", `{"id": 0, "text": "x"}`+"\n"+doccanoLines)

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", "--schema", "doccano", "--skip-malformed=false", input)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}

		r := decodeReport(t, output)
		if r.Report.Error == "" {
			t.Error("expected processing error in report")
		}
		if r.Report.Constructed != 0 {
			t.Errorf("expected no constructed entries, got %d", r.Report.Constructed)
		}
	})

	t.Run("invalid JSON line fails validation", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", doccanoLines+`{"id": 9, "text": `+"\n")

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", input)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if r := decodeReport(t, output); r.Report.countType(model.FindingInvalidJSON) != 1 {
			t.Errorf("expected invalid JSON finding, got %+v", r.Report.Findings)
		}
	})

	t.Run("forced schema reports the other schema", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", doccanoLines)

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", "-s", "spacy", input)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		r := decodeReport(t, output)
		if r.Report.Schema != "spacy" {
			t.Errorf("expected schema spacy, got %q", r.Report.Schema)
		}
		if r.Report.countType(model.FindingSchemaMismatch) != 3 {
			t.Errorf("expected 3 schema mismatch findings, got %+v", r.Report.Findings)
		}
	})

	t.Run("unknown schema is reported", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "other.jsonl", `{"title": "not an annotation"}`+"\n")

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", input)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		r := decodeReport(t, output)
		if r.Report.Schema != "unknown" {
			t.Errorf("expected unknown schema, got %q", r.Report.Schema)
		}
		if r.Report.countType(model.FindingUnknownSchema) != 1 {
			t.Errorf("expected unknown schema finding, got %+v", r.Report.Findings)
		}
	})

	t.Run("legacy mode warns about empty spans", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "spans.jsonl", spacyNoSpans)

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", input)
		if err != nil {
			t.Fatalf("expected warnings only, got %v", err)
		}
		r := decodeReport(t, output)
		if !r.Valid {
			t.Error("expected file to stay valid")
		}
		if r.Report.countType(model.FindingShapeMismatch) != 1 {
			t.Errorf("expected shape mismatch warning, got %+v", r.Report.Findings)
		}
		if r.Report.DatasetMatch {
			t.Error("expected dataset match to fail under legacy rule")
		}
	})

	t.Run("strict mode accepts empty spans", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "spans.jsonl", spacyNoSpans)

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", "--mode", "strict", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := decodeReport(t, output)
		if r.Report.Mode != "strict" {
			t.Errorf("expected strict mode, got %q", r.Report.Mode)
		}
		if len(r.Report.Findings) != 0 {
			t.Errorf("expected no findings, got %+v", r.Report.Findings)
		}
		if !r.Report.DatasetMatch {
			t.Error("expected dataset match")
		}
	})

	t.Run("reads gzip input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeGzip(t, dir, "spacy.jsonl.gz", spacyLines)

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := decodeReport(t, output)
		if r.Report.Schema != "spacy" || r.Report.Constructed != 2 {
			t.Errorf("expected 2 spacy entries, got %q with %d", r.Report.Schema, r.Report.Constructed)
		}
	})

	t.Run("line above max-line-bytes fails the file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", doccanoLines)

		_, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--max-line-bytes", "32B", input)
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	})

	t.Run("missing input file fails validation", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), filepath.Join(dir, "missing.jsonl"))
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if !strings.Contains(output, "Status:     ERROR") {
			t.Errorf("expected ERROR status, got:\n%s", output)
		}
	})
}

// TestValidateCmdBatch tests validation of several files.
func TestValidateCmdBatch(t *testing.T) {
	t.Parallel()

	t.Run("text output ends with a summary", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := writeFile(t, dir, "good.jsonl", doccanoLines)
		bad := writeFile(t, dir, "bad.jsonl", doccanoLines+`{"id": 3}`+"\n")

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "-b", "2", good, bad)
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "1 of 2 file(s)") {
			t.Errorf("expected failure count in error, got %v", err)
		}
		if strings.Count(output, "DOCCANO2SPACY VALIDATION REPORT") != 2 {
			t.Errorf("expected two reports, got:\n%s", output)
		}
		if !strings.Contains(output, "2 files: 1 valid, 1 invalid, 0 failed") {
			t.Errorf("expected summary, got:\n%s", output)
		}
		if strings.Index(output, "good.jsonl") > strings.Index(output, "bad.jsonl") {
			t.Error("expected reports in input order")
		}
	})

	t.Run("json output is one document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := writeFile(t, dir, "a.jsonl", doccanoLines)
		b := writeFile(t, dir, "b.jsonl", spacyLines)

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--json", a, b)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc struct {
			Version string `json:"version"`
			Summary struct {
				Files int `json:"files"`
				Valid int `json:"valid"`
			} `json:"summary"`
			Reports []reportBody `json:"reports"`
		}
		if err := json.Unmarshal([]byte(output), &doc); err != nil {
			t.Fatalf("expected one JSON document, got error %v", err)
		}
		if doc.Summary.Files != 2 || doc.Summary.Valid != 2 {
			t.Errorf("unexpected summary: %+v", doc.Summary)
		}
		if len(doc.Reports) != 2 || doc.Reports[0].Schema != "doccano" || doc.Reports[1].Schema != "spacy" {
			t.Errorf("unexpected reports: %+v", doc.Reports)
		}
	})
}

// TestValidateCmdOutput tests report formats and destinations.
func TestValidateCmdOutput(t *testing.T) {
	t.Parallel()

	t.Run("writes markdown to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", doccanoLines)
		reportPath := filepath.Join(dir, "reports", "nested", "report.md")

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--markdown", "-o", reportPath, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output != "" {
			t.Errorf("expected nothing on stdout, got %q", output)
		}

		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# Validation Report") {
			t.Errorf("expected markdown report, got:\n%s", content)
		}

		info, err := os.Stat(reportPath)
		if err != nil {
			t.Fatalf("failed to stat report: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("json carries version", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", doccanoLines)

		output, err := execute(t, "validate", "-c", emptyConfig(t, dir), "-j", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r := decodeReport(t, output); r.Version != getVersion() {
			t.Errorf("expected version %q, got %q", getVersion(), r.Version)
		}
	})
}

// TestValidateCmdConfig tests configuration errors and config file settings.
func TestValidateCmdConfig(t *testing.T) {
	t.Parallel()

	t.Run("configuration errors", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := emptyConfig(t, dir)
		input := writeFile(t, dir, "train.jsonl", doccanoLines)

		testCases := []struct {
			name     string
			args     []string
			expected error
		}{
			{"no input", []string{"validate", "-c", cfgPath}, config.ErrNoInput},
			{"json and markdown", []string{"validate", "-c", cfgPath, "-j", "-m", input}, config.ErrConflictingReportFormats},
			{"zero batch", []string{"validate", "-c", cfgPath, "-b", "0", input}, config.ErrInvalidBatchSize},
			{"bad schema", []string{"validate", "-c", cfgPath, "-s", "conll", input}, config.ErrInvalidSchema},
			{"bad mode", []string{"validate", "-c", cfgPath, "-M", "loose", input}, config.ErrInvalidShapeMode},
			{"zero max line bytes", []string{"validate", "-c", cfgPath, "--max-line-bytes", "0", input}, config.ErrInvalidMaxLineBytes},
			{"missing config file", []string{"validate", "-c", filepath.Join(dir, "nope.yaml"), input}, config.ErrConfigNotFound},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				_, err := execute(t, tc.args...)
				if !errors.Is(err, tc.expected) {
					t.Errorf("expected %v, got %v", tc.expected, err)
				}
			})
		}
	})

	t.Run("unparsable max line bytes", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := writeFile(t, dir, "train.jsonl", doccanoLines)

		_, err := execute(t, "validate", "-c", emptyConfig(t, dir), "--max-line-bytes", "lots", input)
		if err == nil || !strings.Contains(err.Error(), "max-line-bytes") {
			t.Errorf("expected max-line-bytes error, got %v", err)
		}
	})

	t.Run("per-input settings apply", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "cfg.yaml", `defaults:
  shapeMode: legacy
inputs:
  "*.spacy.jsonl":
    schema: spacy
    shapeMode: strict
`)
		input := writeFile(t, dir, "train.spacy.jsonl", spacyNoSpans)

		output, err := execute(t, "validate", "-c", cfgPath, "--json", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := decodeReport(t, output)
		if r.Report.Mode != "strict" {
			t.Errorf("expected strict mode from config, got %q", r.Report.Mode)
		}
		if r.Report.Schema != "spacy" {
			t.Errorf("expected spacy schema from config, got %q", r.Report.Schema)
		}
	})

	t.Run("flags override config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "cfg.yaml", "defaults:\n  shapeMode: strict\n")
		input := writeFile(t, dir, "train.jsonl", doccanoLines)

		output, err := execute(t, "validate", "-c", cfgPath, "--json", "--mode", "legacy", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r := decodeReport(t, output); r.Report.Mode != "legacy" {
			t.Errorf("expected legacy mode from flag, got %q", r.Report.Mode)
		}
	})

	t.Run("invalid config file is rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := writeFile(t, dir, "cfg.yaml", "defaults:\n  schema: conll\n")
		input := writeFile(t, dir, "train.jsonl", doccanoLines)

		_, err := execute(t, "validate", "-c", cfgPath, input)
		if !errors.Is(err, config.ErrInvalidSchema) {
			t.Errorf("expected ErrInvalidSchema, got %v", err)
		}
	})
}

package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const (
	doccanoLines = `{"id": 0, "text": "Bob met Alice.", "label": [0, 3, "PERSON"]}
{"id": 1, "text": "Carol lives in Paris.", "label": [15, 20, "GPE"]}
{"id": 2, "text": "Dave left.", "label": [0, 4, "PERSON"]}
`
	spacyLines = `{"text": "Paris.", "tokens": [{"text": "Paris", "start": 0, "end": 5, "id": 0}, {"text": ".", "start": 5, "end": 6, "id": 1}], "spans": [{"start": 0, "end": 5, "token_start": 0, "token_end": 0, "label": "GPE"}]}
{"text": "Rome.", "tokens": [{"text": "Rome", "start": 0, "end": 4, "id": 0}, {"text": ".", "start": 4, "end": 5, "id": 1}], "spans": [{"start": 0, "end": 4, "token_start": 0, "token_end": 0, "label": "GPE"}]}
`
	spacyNoSpans = `{"text": "Hi.", "tokens": [{"text": "Hi", "start": 0, "end": 2, "id": 0}], "spans": []}
`
)

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeGzip creates a gzip-compressed file under dir.
func writeGzip(t *testing.T, dir, name, content string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("failed to compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to compress: %v", err)
	}
	return writeFile(t, dir, name, buf.String())
}

// emptyConfig writes a config file with no settings so tests never pick
// up a configuration from the user's home directory.
func emptyConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "empty.yaml", "defaults: {}\n")
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

// jsonReport is the decoded form of a single-file JSON report.
type jsonReport struct {
	Version string     `json:"version"`
	Valid   bool       `json:"valid"`
	Report  reportBody `json:"report"`
}

type reportBody struct {
	Path         string `json:"path"`
	Reference    string `json:"reference"`
	Schema       string `json:"schema"`
	Mode         string `json:"mode"`
	Records      int    `json:"records"`
	Constructed  int    `json:"constructed"`
	ShapeMatched int    `json:"shape_matched"`
	DatasetMatch bool   `json:"dataset_match"`
	Error        string `json:"error"`
	Findings     []struct {
		Type     string `json:"type"`
		Severity string `json:"severity"`
		Line     int    `json:"line"`
		RecordID string `json:"record_id"`
	} `json:"findings"`
}

func (r reportBody) countType(findingType string) int {
	n := 0
	for _, f := range r.Findings {
		if f.Type == findingType {
			n++
		}
	}
	return n
}

// decodeReport parses the output of a --json run over one file.
func decodeReport(t *testing.T, output string) jsonReport {
	t.Helper()

	var r jsonReport
	if err := json.Unmarshal([]byte(output), &r); err != nil {
		t.Fatalf("expected JSON report, got error %v for:\n%s", err, output)
	}
	return r
}

package model

import (
	"bytes"
	"encoding/json"
	"testing"
)

// decode parses a JSON literal the same way the JSONL reader does.
func decode(t *testing.T, s string) any {
	t.Helper()

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("failed to decode %q: %v", s, err)
	}
	return v
}

// decodeAll parses a JSON array literal into a slice of records.
func decodeAll(t *testing.T, s string) []any {
	t.Helper()

	v, ok := decode(t, s).([]any)
	if !ok {
		t.Fatalf("expected JSON array, got %q", s)
	}
	return v
}

const (
	doccanoRecord0 = `{"id": 0, "text": "Bob met Alice.", "label": [0, 3, "PERSON"]}`
	doccanoRecord1 = `{"id": 1, "text": "Carol lives in Paris.", "label": [15, 20, "GPE"]}`
	doccanoRecord2 = `{"id": 2, "text": "Dave left.", "label": [0, 4, "PERSON"]}`

	spacyRecord0 = `{
		"text": "Bob met Alice.",
		"tokens": [
			{"text": "Bob", "start": 0, "end": 3, "id": 0},
			{"text": "met", "start": 4, "end": 7, "id": 1},
			{"text": "Alice", "start": 8, "end": 13, "id": 2},
			{"text": ".", "start": 13, "end": 14, "id": 3}
		],
		"spans": [
			{"start": 0, "end": 3, "token_start": 0, "token_end": 0, "label": "PERSON"},
			{"start": 8, "end": 13, "token_start": 2, "token_end": 2, "label": "PERSON"}
		]
	}`
	spacyRecord1 = `{
		"text": "Paris.",
		"tokens": [
			{"text": "Paris", "start": 0, "end": 5, "id": 0},
			{"text": ".", "start": 5, "end": 6, "id": 1}
		],
		"spans": [
			{"start": 0, "end": 5, "token_start": 0, "token_end": 0, "label": "GPE"}
		]
	}`
)

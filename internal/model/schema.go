package model

import (
	"fmt"
	"strings"
)

// Schema names one of the supported JSONL annotation schemas.
type Schema string

const (
	// SchemaAuto asks for the schema to be detected from the first record.
	SchemaAuto Schema = "auto"

	// SchemaDoccano is the offset-labelled schema: id, text, label.
	SchemaDoccano Schema = "doccano"

	// SchemaSpacy is the tokenized schema: text, tokens, spans.
	SchemaSpacy Schema = "spacy"

	// SchemaUnknown is reported when detection finds neither schema.
	SchemaUnknown Schema = "unknown"
)

// ParseSchema parses a schema name (case-insensitive).
// An empty string selects SchemaAuto.
func ParseSchema(s string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemaAuto:
		return SchemaAuto, nil
	case SchemaDoccano:
		return SchemaDoccano, nil
	case SchemaSpacy:
		return SchemaSpacy, nil
	default:
		return SchemaUnknown, fmt.Errorf("%w: %q", ErrUnknownSchema, s)
	}
}

// Known reports whether s names a concrete schema.
func (s Schema) Known() bool {
	return s == SchemaDoccano || s == SchemaSpacy
}

// DetectSchema guesses the schema of a single decoded record from its
// keys: "tokens" means Spacy, "label" means Doccano. Anything else,
// including non-mappings, is SchemaUnknown.
func DetectSchema(raw any) Schema {
	m, ok := asMapping(raw)
	if !ok {
		return SchemaUnknown
	}
	if _, ok := m["tokens"]; ok {
		return SchemaSpacy
	}
	if _, ok := m["label"]; ok {
		return SchemaDoccano
	}
	return SchemaUnknown
}

// Dataset is the schema-independent view of a constructed dataset.
// *DoccanoDataset and *SpacyDataset implement it.
type Dataset interface {
	ShapeMatcher

	// Len returns the number of entries.
	Len() int

	// EntryMatcher returns the i-th entry. It panics if i is out of range.
	EntryMatcher(i int) ShapeMatcher

	// Schema returns the dataset's schema.
	Schema() Schema
}

// NewEntry constructs a single entry of the given schema.
func NewEntry(schema Schema, raw any) (ShapeMatcher, error) {
	switch schema {
	case SchemaDoccano:
		entry, err := NewDoccanoEntry(raw)
		if err != nil {
			return nil, err
		}
		return entry, nil
	case SchemaSpacy:
		entry, err := NewSpacyEntry(raw)
		if err != nil {
			return nil, err
		}
		return entry, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, schema)
	}
}

// NewDataset constructs a dataset of the given schema.
func NewDataset(schema Schema, raws []any) (Dataset, error) {
	switch schema {
	case SchemaDoccano:
		ds, err := NewDoccanoDataset(raws)
		if err != nil {
			return nil, err
		}
		return ds, nil
	case SchemaSpacy:
		ds, err := NewSpacyDataset(raws)
		if err != nil {
			return nil, err
		}
		return ds, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, schema)
	}
}

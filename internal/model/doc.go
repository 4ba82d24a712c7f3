// Package model defines the typed containers for the two JSONL annotation
// schemas handled by doccano2spacy, and the validation report built on top
// of them.
//
// This package contains the following main types:
//   - DoccanoDataset, DoccanoEntry, Label: offset-labelled documents
//   - SpacyDataset, SpacyEntry, Token, Span: tokenized documents
//   - ValidationReport, Finding: the outcome of checking one input file
//
// Every container is built top-down from a decoded JSON record by its
// New* constructor. Construction errors match ErrMalformedRecord.
//
// # Shape matching
//
// MatchesShape answers "does this raw record have the right kinds to
// represent this object", not "do these hold the same values". A token
// built from {"text":"Bob",...} matches a raw token {"text":"Alice",...}.
// Value equality is available separately through Equal.
//
// Under ShapeLegacy (the default) collections are compared by their first
// element only, so a dataset matches a raw sequence whose later records
// are broken. ShapeStrict compares every element and requires equal
// lengths.
package model

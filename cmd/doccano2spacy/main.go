// Package main provides the entry point for the doccano2spacy CLI.
//
// doccano2spacy checks JSON-Lines annotation files in the Doccano and
// Spacy schemas: every record must construct into a typed entry and match
// the shape of the dataset built from the file.
//
// Usage:
//
//	doccano2spacy validate <file.jsonl>...
//	doccano2spacy match --reference <ref.jsonl> <file.jsonl>...
//
// See --help for all available options.
package main

// main is the entry point for doccano2spacy.
func main() {
	Execute()
}

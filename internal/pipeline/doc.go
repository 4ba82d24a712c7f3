// Package pipeline runs validation steps over a JSONL input file.
//
// Each input gets a Run that carries its ValidationReport and the records
// read so far. Steps (read, detect, construct, shape, reference) receive
// the Run in order and extend it. A step returns an error only when the
// file cannot be processed further; problems with individual records are
// recorded as findings.
//
// BatchProcessor validates many files concurrently using errgroup.
package pipeline

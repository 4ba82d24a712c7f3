package pipeline

import "errors"

var (
	// ErrMalformedInput is returned by ConstructStep when a record cannot be
	// constructed and malformed records are not being skipped.
	ErrMalformedInput = errors.New("input contains malformed records")

	// ErrEmptyReference is returned when a reference file yields no entries.
	ErrEmptyReference = errors.New("reference dataset is empty")
)

package jsonl

import "errors"

var (
	// ErrInvalidJSON is set on a Line whose bytes are not exactly one JSON value.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrLineTooLong is returned by Err when a line exceeds the maximum
	// line size. Scanning stops at that line.
	ErrLineTooLong = errors.New("line too long")
)

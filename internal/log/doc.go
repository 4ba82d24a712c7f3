// Package log provides logging that keeps annotated document text out of
// log output, built on top of the standard slog package.
//
// Annotation corpora often hold personal or licensed text. The
// RedactingHandler replaces attributes that carry document content with a
// length marker and truncates any other long string value, so even
// verbose logs can be shared.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("invalid JSON line",
//	    "path", "train.jsonl",
//	    "line_number", 42,
//	    "raw", string(raw), // logged as "<elided 87 bytes>"
//	)
//
//	slog.SetDefault(logger)
package log

package model

import (
	"fmt"
	"strings"
)

// ShapeMode selects how collections are compared during shape matching.
type ShapeMode int

const (
	// ShapeLegacy compares only the first element of every collection
	// (dataset entries, tokens, spans). A collection with no first element
	// on either side does not match. This is the historical behavior and
	// the default.
	ShapeLegacy ShapeMode = iota

	// ShapeStrict requires collections of equal length whose elements all
	// match pairwise, and label sequences of exactly three elements.
	ShapeStrict
)

// String returns the configuration name of the mode.
func (m ShapeMode) String() string {
	switch m {
	case ShapeLegacy:
		return "legacy"
	case ShapeStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m ShapeMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ShapeMode) UnmarshalText(text []byte) error {
	parsed, err := ParseShapeMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseShapeMode parses "legacy" or "strict" (case-insensitive).
// An empty string selects ShapeLegacy.
func ParseShapeMode(s string) (ShapeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy":
		return ShapeLegacy, nil
	case "strict":
		return ShapeStrict, nil
	default:
		return ShapeLegacy, fmt.Errorf("%w: %q", ErrUnknownShapeMode, s)
	}
}

// ShapeMatcher is implemented by every typed object. MatchesShapeMode
// answers whether raw has the right kinds to represent the object; it
// never compares values and never panics.
type ShapeMatcher interface {
	MatchesShapeMode(raw any, mode ShapeMode) bool
}

// matchCollection applies the mode's collection rule: raw must be a
// sequence, then either its first element (legacy) or every element
// (strict) is checked against the n stored elements via match.
func matchCollection(n int, raw any, mode ShapeMode, match func(i int, raw any) bool) bool {
	seq, ok := asSequence(raw)
	if !ok {
		return false
	}

	if mode == ShapeStrict {
		if len(seq) != n {
			return false
		}
		for i, elem := range seq {
			if !match(i, elem) {
				return false
			}
		}
		return true
	}

	if n == 0 || len(seq) == 0 {
		return false
	}
	return match(0, seq[0])
}

package model

import (
	"encoding/json"
	"strings"
)

// Kind is the runtime type class of a decoded JSON value.
// Shape matching compares kinds, never values.
type Kind int

const (
	// KindInvalid is any Go value that a JSON decoder never produces.
	KindInvalid Kind = iota

	// KindNull is a JSON null.
	KindNull

	// KindBool is a JSON true or false.
	// Booleans are never integers, even though some languages treat them so.
	KindBool

	// KindInteger is a JSON number written without fraction or exponent,
	// or any Go integer type.
	KindInteger

	// KindFloat is a JSON number with a fraction or exponent, or a Go float.
	// 3.0 is a float, not an integer.
	KindFloat

	// KindString is a JSON string.
	KindString

	// KindSequence is a JSON array ([]any).
	KindSequence

	// KindMapping is a JSON object (map[string]any).
	KindMapping
)

// String returns a human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// KindOf classifies a decoded value.
//
// Values are expected to come from encoding/json with UseNumber enabled,
// so numbers arrive as json.Number and keep the integer/float distinction
// of their literal. Records built by hand in Go may use native int and
// float64 values instead.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32, float64:
		return KindFloat
	case json.Number:
		if strings.ContainsAny(x.String(), ".eE") {
			return KindFloat
		}
		return KindInteger
	case string:
		return KindString
	case []any:
		return KindSequence
	case map[string]any:
		return KindMapping
	default:
		return KindInvalid
	}
}

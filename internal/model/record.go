package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Helpers for reading fields out of decoded records. Constructors use the
// error-returning variants; shape matching uses hasKind, which only ever
// answers yes or no.

func asMapping(raw any) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	return m, ok
}

func asSequence(raw any) ([]any, bool) {
	s, ok := raw.([]any)
	return s, ok
}

// mappingOf returns raw as a mapping or a wrong-type error.
func mappingOf(raw any) (map[string]any, error) {
	m, ok := asMapping(raw)
	if !ok {
		return nil, wrongType("", KindMapping, raw)
	}
	return m, nil
}

// sequenceOf returns raw as a sequence holding at least minLen elements.
func sequenceOf(raw any, minLen int) ([]any, error) {
	s, ok := asSequence(raw)
	if !ok {
		return nil, wrongType("", KindSequence, raw)
	}
	if len(s) < minLen {
		return nil, &FieldError{Err: ErrShortSequence}
	}
	return s, nil
}

// field returns the value stored under key or a missing-field error.
func field(m map[string]any, key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, missingField(key)
	}
	return v, nil
}

func intField(m map[string]any, key string) (int, error) {
	v, err := field(m, key)
	if err != nil {
		return 0, err
	}
	n, ok := intValue(v)
	if !ok {
		return 0, wrongType(key, KindInteger, v)
	}
	return n, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, err := field(m, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, KindString, v)
	}
	return s, nil
}

func sequenceField(m map[string]any, key string) ([]any, error) {
	v, err := field(m, key)
	if err != nil {
		return nil, err
	}
	s, ok := asSequence(v)
	if !ok {
		return nil, wrongType(key, KindSequence, v)
	}
	return s, nil
}

// hasKind reports whether key is present in m with the given kind.
func hasKind(m map[string]any, key string, want Kind) bool {
	v, ok := m[key]
	return ok && KindOf(v) == want
}

// intValue converts an integer-kinded value to int.
// Values that do not fit are rejected rather than truncated.
func intValue(v any) (int, bool) {
	switch x := v.(type) {
	case json.Number:
		if KindOf(x) != KindInteger {
			return 0, false
		}
		n, err := strconv.ParseInt(x.String(), 10, 0)
		if err != nil {
			return 0, false
		}
		return int(n), true
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		if x < math.MinInt || x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	case uint:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}

// indexedField renders a path element such as "tokens[3]".
func indexedField(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

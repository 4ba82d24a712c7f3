package model

import (
	"errors"
	"fmt"
	"strings"
)

// Construction errors.
// Every construction failure matches ErrMalformedRecord with errors.Is, so
// callers can treat the whole class uniformly and still inspect the cause.
var (
	// ErrMalformedRecord is the umbrella condition for a raw record that
	// cannot be turned into a typed object.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMissingField is returned when a required key is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrWrongType is returned when a value has the wrong kind, including
	// a record that is not a mapping or a label that is not a sequence.
	ErrWrongType = errors.New("wrong value type")

	// ErrShortSequence is returned when a positional sequence has fewer
	// elements than required.
	ErrShortSequence = errors.New("sequence too short")
)

// Parsing errors for enumerations read from flags and configuration.
var (
	// ErrUnknownSchema is returned by ParseSchema for unsupported names.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrUnknownShapeMode is returned by ParseShapeMode for unsupported names.
	ErrUnknownShapeMode = errors.New("unknown shape mode")
)

// FieldError describes which field of a raw record failed construction.
type FieldError struct {
	// Field is the path of the offending value inside the record,
	// e.g. "label[2]" or "tokens[3].start". Empty means the record itself.
	Field string

	// Err is ErrMissingField, ErrWrongType or ErrShortSequence.
	Err error

	// Want and Got are set for ErrWrongType.
	Want Kind
	Got  Kind
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	field := e.Field
	if field == "" {
		field = "record"
	}
	if errors.Is(e.Err, ErrWrongType) {
		return fmt.Sprintf("%s: %v: want %s, got %s", field, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: %v", field, e.Err)
}

// Unwrap returns the specific cause.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is reports every FieldError as a malformed record.
func (e *FieldError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// RecordError locates a construction failure within a dataset.
type RecordError struct {
	// Index is the zero-based position of the record in the input sequence.
	Index int
	Err   error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying construction error.
func (e *RecordError) Unwrap() error {
	return e.Err
}

func missingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

func wrongType(field string, want Kind, got any) error {
	return &FieldError{Field: field, Err: ErrWrongType, Want: want, Got: KindOf(got)}
}

// nestField prefixes the field path of a FieldError produced by a nested
// constructor. Other errors are returned unchanged.
func nestField(prefix string, err error) error {
	var fe *FieldError
	if !errors.As(err, &fe) {
		return err
	}
	nested := *fe
	switch {
	case fe.Field == "":
		nested.Field = prefix
	case strings.HasPrefix(fe.Field, "["):
		nested.Field = prefix + fe.Field
	default:
		nested.Field = prefix + "." + fe.Field
	}
	return &nested
}

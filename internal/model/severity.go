package model

import (
	"fmt"
	"strings"
)

// Severity is the weight of a validation finding.
// Only SeverityError findings make a file invalid.
type Severity int

const (
	// SeverityInfo is purely informational.
	SeverityInfo Severity = iota

	// SeverityWarning flags records that are usable but suspicious,
	// e.g. a record whose shape check failed under the legacy rule.
	SeverityWarning

	// SeverityError flags records that cannot be used at all.
	SeverityError
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so reports carry the name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so saved JSON reports
// can be read back.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "INFO":
		*s = SeverityInfo
	case "WARNING":
		*s = SeverityWarning
	case "ERROR":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Finding types.
const (
	// FindingInvalidJSON is a line that does not decode as a single JSON value.
	FindingInvalidJSON = "invalid_json"

	// FindingMalformedRecord is a record whose construction failed.
	FindingMalformedRecord = "malformed_record"

	// FindingSchemaMismatch is a record that belongs to the other schema.
	FindingSchemaMismatch = "schema_mismatch"

	// FindingShapeMismatch is a constructed record that does not match
	// its own raw form under the selected shape mode.
	FindingShapeMismatch = "shape_mismatch"

	// FindingDatasetShapeMismatch is the dataset-level shape check failing.
	FindingDatasetShapeMismatch = "dataset_shape_mismatch"

	// FindingReferenceMismatch is a target record that does not match the
	// shape of the reference dataset's first entry.
	FindingReferenceMismatch = "reference_mismatch"

	// FindingEmptyInput is a file without any records.
	FindingEmptyInput = "empty_input"

	// FindingUnknownSchema is an input whose schema could not be detected.
	FindingUnknownSchema = "unknown_schema"
)

// FindingInfo contains metadata about a finding type.
type FindingInfo struct {
	Severity Severity
	Title    string
	Hint     string
}

// findingInfoMapping is the single source of truth for finding severities.
var findingInfoMapping = map[string]FindingInfo{
	FindingInvalidJSON: {
		Severity: SeverityError,
		Title:    "Invalid JSON line",
		Hint:     "Each line must hold exactly one JSON object.",
	},
	FindingMalformedRecord: {
		Severity: SeverityError,
		Title:    "Malformed record",
		Hint:     "Add the missing field or fix its type.",
	},
	FindingSchemaMismatch: {
		Severity: SeverityError,
		Title:    "Record uses the other schema",
		Hint:     "Do not mix Doccano and Spacy records in one file.",
	},
	FindingUnknownSchema: {
		Severity: SeverityError,
		Title:    "Schema could not be detected",
		Hint:     "Pass --schema doccano or --schema spacy.",
	},
	FindingReferenceMismatch: {
		Severity: SeverityError,
		Title:    "Record does not match reference shape",
		Hint:     "Compare field names and value types with the reference file.",
	},
	FindingShapeMismatch: {
		Severity: SeverityWarning,
		Title:    "Shape check failed",
		Hint:     "Under the legacy rule, entries without tokens or spans never match; try --mode strict.",
	},
	FindingDatasetShapeMismatch: {
		Severity: SeverityWarning,
		Title:    "Dataset shape check failed",
		Hint:     "At least one record differs in shape from the constructed dataset.",
	},
	FindingEmptyInput: {
		Severity: SeverityWarning,
		Title:    "No records",
		Hint:     "The file contains no non-blank lines.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	return GetFindingInfo(findingType).Severity
}

// GetFindingInfo returns the full finding information for a finding type.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity: SeverityInfo,
		Title:    findingType,
	}
}

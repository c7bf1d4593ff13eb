package timeseries

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for validation and batch writes.
//
// The structured errors below match these with errors.Is:
//
//	if errors.Is(err, timeseries.ErrSchemaViolation) {
//	    // unexpected tag or field key
//	}
var (
	// ErrSchemaViolation indicates a record used a tag or field key the
	// schema does not allow.
	ErrSchemaViolation = errors.New("timeseries: schema violation")

	// ErrTypeMismatch indicates a field value does not have the declared type.
	ErrTypeMismatch = errors.New("timeseries: type mismatch")

	// ErrMissingMeasurement indicates a record has an empty measurement name.
	ErrMissingMeasurement = errors.New("timeseries: measurement is required")

	// ErrMissingTime indicates a record has a zero timestamp.
	ErrMissingTime = errors.New("timeseries: time is required")

	// ErrNilSchema indicates validation was attempted without a schema.
	ErrNilSchema = errors.New("timeseries: schema is nil")

	// ErrNoWriter indicates a Destination without a PointWriter.
	ErrNoWriter = errors.New("timeseries: destination has no writer")

	// ErrInvalidPrecision indicates an unknown precision name.
	ErrInvalidPrecision = errors.New("timeseries: invalid precision")

	// ErrInvalidFieldType indicates an unknown field type name in a schema.
	ErrInvalidFieldType = errors.New("timeseries: invalid field type")
)

// Violation kinds reported by SchemaViolationError.
const (
	KindTag   = "tag"
	KindField = "field"
)

// SchemaViolationError lists every key of one kind that the schema rejects.
type SchemaViolationError struct {
	Kind string   // KindTag or KindField
	Keys []string // sorted
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("timeseries: unexpected %s keys: %s", e.Kind, strings.Join(e.Keys, ", "))
}

// Is reports whether target is ErrSchemaViolation.
func (e *SchemaViolationError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// FieldMismatch describes one field whose value has the wrong type.
type FieldMismatch struct {
	Field    string
	Expected FieldType
	Actual   string // Go type of the offending value
}

// TypeMismatchError lists every field whose value disagrees with the schema.
type TypeMismatchError struct {
	Mismatches []FieldMismatch // sorted by field name
}

func (e *TypeMismatchError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		parts = append(parts, fmt.Sprintf("field %q must be %s, got %s", m.Field, m.Expected, m.Actual))
	}
	return "timeseries: type mismatch: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// Fields returns the names of the mismatched fields.
func (e *TypeMismatchError) Fields() []string {
	names := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		names = append(names, m.Field)
	}
	return names
}

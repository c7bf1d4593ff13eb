package timeseries

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldType is the declared type of a field value in a Schema.
type FieldType int

// Supported field types. The zero value is not a valid type.
const (
	String FieldType = iota + 1
	Integer
	Float
	Boolean
)

// String returns the lower-case name used in schema files.
func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	return t >= String && t <= Boolean
}

// ParseFieldType converts a type name to a FieldType.
//
// Accepted names (case-insensitive): string, str, integer, int, float,
// double, boolean, bool.
func ParseFieldType(name string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str":
		return String, nil
	case "integer", "int":
		return Integer, nil
	case "float", "double":
		return Float, nil
	case "boolean", "bool":
		return Boolean, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFieldType, name)
	}
}

// UnmarshalYAML decodes a field type from its name.
func (t *FieldType) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseFieldType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes a field type as its name.
func (t FieldType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// Matches reports whether v has the Go kind that corresponds to t.
//
// Integers must be signed (int through int64); floats are float32 or
// float64. No conversion between kinds is attempted, so an integer value
// never satisfies a Float field and vice versa.
func (t FieldType) Matches(v any) bool {
	switch v.(type) {
	case string:
		return t == String
	case int, int8, int16, int32, int64:
		return t == Integer
	case float32, float64:
		return t == Float
	case bool:
		return t == Boolean
	default:
		return false
	}
}

// typeName returns the Go type name of v for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

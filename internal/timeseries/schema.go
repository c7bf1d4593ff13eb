package timeseries

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Schema describes which tags and fields a record may carry.
//
// A Schema is read-only after construction and safe to share.
type Schema struct {
	tags   map[string]struct{}
	fields map[string]FieldType
}

// NewSchema builds a Schema from the allowed tag names and the declared
// field types. The inputs are copied.
func NewSchema(allowedTags []string, allowedFields map[string]FieldType) *Schema {
	s := &Schema{
		tags:   make(map[string]struct{}, len(allowedTags)),
		fields: make(map[string]FieldType, len(allowedFields)),
	}
	for _, tag := range allowedTags {
		s.tags[tag] = struct{}{}
	}
	for name, typ := range allowedFields {
		s.fields[name] = typ
	}
	return s
}

// AllowsTag reports whether name is a permitted tag key.
func (s *Schema) AllowsTag(name string) bool {
	_, ok := s.tags[name]
	return ok
}

// TypeOf returns the declared type of a field and whether the field is allowed.
func (s *Schema) TypeOf(name string) (FieldType, bool) {
	t, ok := s.fields[name]
	return t, ok
}

// Tags returns the allowed tag names, sorted.
func (s *Schema) Tags() []string {
	names := make([]string, 0, len(s.tags))
	for name := range s.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns a copy of the declared field types.
func (s *Schema) Fields() map[string]FieldType {
	out := make(map[string]FieldType, len(s.fields))
	for name, typ := range s.fields {
		out[name] = typ
	}
	return out
}

// schemaFile is the YAML layout of a schema file:
//
//	tags: [host, region]
//	fields:
//	  usage: float
//	  count: integer
type schemaFile struct {
	Tags   []string             `yaml:"tags"`
	Fields map[string]FieldType `yaml:"fields"`
}

// ParseSchema decodes a Schema from YAML.
func ParseSchema(data []byte) (*Schema, error) {
	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	for name, typ := range f.Fields {
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: field %q has no type", ErrInvalidFieldType, name)
		}
	}
	return NewSchema(f.Tags, f.Fields), nil
}

// LoadSchema reads and parses a YAML schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return ParseSchema(data)
}

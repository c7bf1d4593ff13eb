package timeseries

import "sort"

// Validate checks a record against a schema and builds a Point from it.
//
// Checks run in this order and the first failing category is returned:
//
//  1. measurement and time are present
//  2. every tag key is allowed (SchemaViolationError, Kind "tag")
//  3. every field key is allowed (SchemaViolationError, Kind "field")
//  4. every field value has its declared type (TypeMismatchError)
//
// Within a category all offending keys are reported together. Tag and field
// values are carried into the Point unchanged; the time is converted to the
// requested precision.
func Validate(record Record, schema *Schema, precision Precision) (*Point, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	if record.Measurement == "" {
		return nil, ErrMissingMeasurement
	}
	if record.Time.IsZero() {
		return nil, ErrMissingTime
	}

	var unexpectedTags []string
	for key := range record.Tags {
		if !schema.AllowsTag(key) {
			unexpectedTags = append(unexpectedTags, key)
		}
	}
	if len(unexpectedTags) > 0 {
		sort.Strings(unexpectedTags)
		return nil, &SchemaViolationError{Kind: KindTag, Keys: unexpectedTags}
	}

	var unexpectedFields []string
	var mismatches []FieldMismatch
	for key, value := range record.Fields {
		expected, ok := schema.TypeOf(key)
		if !ok {
			unexpectedFields = append(unexpectedFields, key)
			continue
		}
		if !expected.Matches(value) {
			mismatches = append(mismatches, FieldMismatch{
				Field:    key,
				Expected: expected,
				Actual:   typeName(value),
			})
		}
	}
	if len(unexpectedFields) > 0 {
		sort.Strings(unexpectedFields)
		return nil, &SchemaViolationError{Kind: KindField, Keys: unexpectedFields}
	}
	if len(mismatches) > 0 {
		sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].Field < mismatches[j].Field })
		return nil, &TypeMismatchError{Mismatches: mismatches}
	}

	p := &Point{
		measurement: record.Measurement,
		tags:        make(map[string]string, len(record.Tags)),
		fields:      make(map[string]any, len(record.Fields)),
		timestamp:   precision.Timestamp(record.Time),
		precision:   precision,
	}
	for k, v := range record.Tags {
		p.tags[k] = v
	}
	for k, v := range record.Fields {
		p.fields[k] = v
	}
	return p, nil
}

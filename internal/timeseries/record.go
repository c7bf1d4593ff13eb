package timeseries

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is a candidate time-series point as supplied by a caller.
type Record struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]any
	Time        time.Time
}

// Point is a validated, immutable time-series point.
//
// Points are only produced by Validate; the accessors return copies so a
// Point cannot be altered after validation.
type Point struct {
	measurement string
	tags        map[string]string
	fields      map[string]any
	timestamp   int64
	precision   Precision
}

// Measurement returns the series name.
func (p *Point) Measurement() string { return p.measurement }

// Tags returns a copy of the tag set.
func (p *Point) Tags() map[string]string {
	out := make(map[string]string, len(p.tags))
	for k, v := range p.tags {
		out[k] = v
	}
	return out
}

// Fields returns a copy of the field set.
func (p *Point) Fields() map[string]any {
	out := make(map[string]any, len(p.fields))
	for k, v := range p.fields {
		out[k] = v
	}
	return out
}

// Timestamp returns the time as a count of Precision units since the epoch.
func (p *Point) Timestamp() int64 { return p.timestamp }

// Precision returns the unit of Timestamp.
func (p *Point) Precision() Precision { return p.precision }

// Time returns the timestamp as a UTC time, truncated to the precision.
func (p *Point) Time() time.Time { return p.precision.Time(p.timestamp) }

// recordDoc is the on-disk and on-wire layout of a record. Time accepts an
// RFC3339 string, a YAML timestamp, or unix seconds.
type recordDoc struct {
	Measurement string            `yaml:"measurement"`
	Tags        map[string]string `yaml:"tags"`
	Fields      map[string]any    `yaml:"fields"`
	Time        any               `yaml:"time"`
}

// ParseRecord decodes a single record from YAML or JSON.
//
// JSON is accepted because it is valid YAML; integer literals decode as int
// and decimal literals as float64, so they line up with Integer and Float
// schema types without further conversion.
func ParseRecord(data []byte) (Record, error) {
	var doc recordDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("parsing record: %w", err)
	}
	return doc.record()
}

// ParseRecords decodes a YAML or JSON sequence of records.
func ParseRecords(data []byte) ([]Record, error) {
	var docs []recordDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	records := make([]Record, 0, len(docs))
	for i, doc := range docs {
		r, err := doc.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// recordJSON is the JSON layout written by MarshalRecord.
type recordJSON struct {
	Measurement string            `json:"measurement"`
	Tags        map[string]string `json:"tags,omitempty"`
	Fields      map[string]any    `json:"fields"`
	Time        string            `json:"time"`
}

// MarshalRecord encodes r as a JSON message that ParseRecord decodes back
// to the same field kinds. Float values always carry a decimal point or
// exponent, so 1.0 stays a float instead of decoding as int.
func MarshalRecord(r Record) ([]byte, error) {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		switch f := v.(type) {
		case float64:
			fields[k] = jsonFloat(f)
		case float32:
			fields[k] = jsonFloat(f)
		default:
			fields[k] = v
		}
	}
	return json.Marshal(recordJSON{
		Measurement: r.Measurement,
		Tags:        r.Tags,
		Fields:      fields,
		Time:        r.Time.UTC().Format(time.RFC3339Nano),
	})
}

// jsonFloat is a float64 that never encodes as an integer literal.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("unsupported float value %v", v)
	}
	b := strconv.AppendFloat(nil, v, 'g', -1, 64)
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, ".0"...)
	}
	return b, nil
}

func (d recordDoc) record() (Record, error) {
	t, err := parseTime(d.Time)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Measurement: d.Measurement,
		Tags:        d.Tags,
		Fields:      d.Fields,
		Time:        t,
	}, nil
}

// parseTime interprets a decoded time value. A missing value yields the
// zero time, which Validate rejects.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t.UTC(), nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing time %q: %w", t, err)
		}
		return parsed.UTC(), nil
	case int:
		return time.Unix(int64(t), 0).UTC(), nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case uint64:
		if t > math.MaxInt64 {
			return time.Time{}, fmt.Errorf("time %d out of range", t)
		}
		return time.Unix(int64(t), 0).UTC(), nil
	case float64:
		sec, frac := math.Modf(t)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time value of type %T", v)
	}
}

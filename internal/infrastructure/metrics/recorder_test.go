package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/nerrad567/gucfop/internal/timeseries"
)

func TestRecorder_ObserveChunk(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveChunk(2000, 10*time.Millisecond, nil)
	r.ObserveChunk(500, 5*time.Millisecond, nil)
	r.ObserveChunk(2000, time.Second, errors.New("store down"))

	assert.Equal(t, 2500.0, testutil.ToFloat64(r.pointsWritten))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.chunksWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.writeFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(r.chunkDuration))
}

func TestRecorder_ObserveValidationFailure(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveValidationFailure(fmt.Errorf("record 3: %w", &timeseries.SchemaViolationError{Kind: timeseries.KindTag, Keys: []string{"x"}}))
	r.ObserveValidationFailure(fmt.Errorf("record 1: %w", timeseries.ErrMissingTime))
	r.ObserveValidationFailure(errors.New("unexpected"))

	tests := []struct {
		reason string
		want   float64
	}{
		{ReasonSchemaViolation, 1},
		{ReasonMissingTime, 1},
		{ReasonOther, 1},
		{ReasonTypeMismatch, 0},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			assert.Equal(t, tt.want, testutil.ToFloat64(r.validationFailures.WithLabelValues(tt.reason)))
		})
	}
}

func TestRecorder_ObserveMessage(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveMessage(true)
	r.ObserveMessage(true)
	r.ObserveMessage(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ingestMessages.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ingestMessages.WithLabelValues("rejected")))
}

func TestRecorder_WithWriter(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	schema := timeseries.NewSchema(nil, map[string]timeseries.FieldType{"v": timeseries.Integer})

	records := []timeseries.Record{
		{Measurement: "m", Fields: map[string]any{"v": 1}, Time: time.Unix(1, 0)},
		{Measurement: "m", Fields: map[string]any{"v": "one"}, Time: time.Unix(2, 0)},
	}

	dest := timeseries.Destination{Bucket: "b", Writer: nopWriter{}}
	err := timeseries.WriteBatch(t.Context(), dest, records, schema, timeseries.WithObserver(r))

	assert.ErrorIs(t, err, timeseries.ErrTypeMismatch)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.validationFailures.WithLabelValues(ReasonTypeMismatch)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.chunksWritten))
}

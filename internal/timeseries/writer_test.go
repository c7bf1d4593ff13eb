package timeseries_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gucfop/internal/timeseries"
)

// recordingWriter captures every chunk handed to it.
type recordingWriter struct {
	mu        sync.Mutex
	chunks    [][]*timeseries.Point
	buckets   []string
	precision []timeseries.Precision
	failOn    int // 1-based chunk number to fail on; 0 never fails
}

var errStoreDown = errors.New("store unavailable")

func (w *recordingWriter) WritePoints(_ context.Context, bucket string, p timeseries.Precision, points []*timeseries.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failOn > 0 && len(w.chunks)+1 == w.failOn {
		w.failOn = 0
		return errStoreDown
	}
	w.chunks = append(w.chunks, points)
	w.buckets = append(w.buckets, bucket)
	w.precision = append(w.precision, p)
	return nil
}

func (w *recordingWriter) sizes() []int {
	out := make([]int, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, len(c))
	}
	return out
}

// countingObserver tallies observer callbacks.
type countingObserver struct {
	validationFailures int
	chunks             int
	chunkErrors        int
	points             int
}

func (o *countingObserver) ObserveValidationFailure(error) { o.validationFailures++ }

func (o *countingObserver) ObserveChunk(points int, _ time.Duration, err error) {
	o.chunks++
	if err != nil {
		o.chunkErrors++
		return
	}
	o.points += points
}

func makeRecords(n int) []timeseries.Record {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := make([]timeseries.Record, n)
	for i := range records {
		records[i] = timeseries.Record{
			Measurement: "cpu",
			Tags:        map[string]string{"host": fmt.Sprintf("host-%d", i%3)},
			Fields:      map[string]any{"count": i},
			Time:        base.Add(time.Duration(i) * time.Second),
		}
	}
	return records
}

func TestWriteBatch_ChunksInOrder(t *testing.T) {
	w := &recordingWriter{}
	records := makeRecords(4500)

	err := timeseries.WriteBatch(context.Background(),
		timeseries.Destination{Bucket: "metrics", Writer: w},
		records, testSchema(),
		timeseries.WithBatchSize(2000),
	)
	require.NoError(t, err)

	assert.Equal(t, []int{2000, 2000, 500}, w.sizes())
	assert.Equal(t, []string{"metrics", "metrics", "metrics"}, w.buckets)

	// Flattened chunks reproduce input order.
	i := 0
	for _, chunk := range w.chunks {
		for _, p := range chunk {
			assert.Equal(t, records[i].Time.Unix(), p.Timestamp())
			i++
		}
	}
	assert.Equal(t, len(records), i)
}

func TestWriteBatch_DefaultOptions(t *testing.T) {
	w := &recordingWriter{}

	err := timeseries.WriteBatch(context.Background(),
		timeseries.Destination{Bucket: "metrics", Writer: w},
		makeRecords(2001), testSchema(),
	)
	require.NoError(t, err)

	assert.Equal(t, []int{2000, 1}, w.sizes())
	assert.Equal(t, []timeseries.Precision{timeseries.Seconds, timeseries.Seconds}, w.precision)
}

func TestWriteBatch_InvalidRecordWritesNothing(t *testing.T) {
	w := &recordingWriter{}
	obs := &countingObserver{}
	records := makeRecords(10)
	records[2].Tags["unknown"] = "x"

	err := timeseries.WriteBatch(context.Background(),
		timeseries.Destination{Bucket: "metrics", Writer: w},
		records, testSchema(),
		timeseries.WithBatchSize(2),
		timeseries.WithObserver(obs),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, timeseries.ErrSchemaViolation)
	assert.Contains(t, err.Error(), "record 2")
	assert.Empty(t, w.chunks)
	assert.Equal(t, 1, obs.validationFailures)
	assert.Equal(t, 0, obs.chunks)
}

func TestWriteBatch_StopsOnWriteFailure(t *testing.T) {
	w := &recordingWriter{failOn: 2}
	obs := &countingObserver{}

	err := timeseries.WriteBatch(context.Background(),
		timeseries.Destination{Bucket: "metrics", Writer: w},
		makeRecords(10), testSchema(),
		timeseries.WithBatchSize(3),
		timeseries.WithObserver(obs),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Contains(t, err.Error(), "chunk 2 of 4")

	// Only the first chunk landed; nothing after the failure was attempted.
	assert.Equal(t, []int{3}, w.sizes())
	assert.Equal(t, 2, obs.chunks)
	assert.Equal(t, 1, obs.chunkErrors)
	assert.Equal(t, 3, obs.points)
}

func TestWriteBatch_Precision(t *testing.T) {
	w := &recordingWriter{}
	records := makeRecords(1)

	err := timeseries.WriteBatch(context.Background(),
		timeseries.Destination{Bucket: "metrics", Writer: w},
		records, testSchema(),
		timeseries.WithPrecision(timeseries.Nanoseconds),
	)
	require.NoError(t, err)
	require.Len(t, w.chunks, 1)
	assert.Equal(t, timeseries.Nanoseconds, w.precision[0])
	assert.Equal(t, records[0].Time.UnixNano(), w.chunks[0][0].Timestamp())
}

func TestWriteBatch_EmptyInput(t *testing.T) {
	w := &recordingWriter{}

	err := timeseries.WriteBatch(context.Background(),
		timeseries.Destination{Bucket: "metrics", Writer: w},
		nil, testSchema(),
	)
	require.NoError(t, err)
	assert.Empty(t, w.chunks)
}

func TestWriteBatch_NoWriter(t *testing.T) {
	err := timeseries.WriteBatch(context.Background(),
		timeseries.Destination{Bucket: "metrics"},
		makeRecords(1), testSchema(),
	)
	assert.ErrorIs(t, err, timeseries.ErrNoWriter)
}

func TestNewWriter_Options(t *testing.T) {
	w := timeseries.NewWriter(timeseries.Destination{}, timeseries.WithBatchSize(0))
	assert.Equal(t, timeseries.DefaultBatchSize, w.BatchSize())
	assert.Equal(t, timeseries.Seconds, w.Precision())

	w = timeseries.NewWriter(timeseries.Destination{},
		timeseries.WithBatchSize(10),
		timeseries.WithPrecision(timeseries.Nanoseconds),
	)
	assert.Equal(t, 10, w.BatchSize())
	assert.Equal(t, timeseries.Nanoseconds, w.Precision())
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		size  int
		sizes []int
	}{
		{name: "empty", n: 0, size: 3, sizes: []int{}},
		{name: "exact multiple", n: 6, size: 3, sizes: []int{3, 3}},
		{name: "remainder", n: 7, size: 3, sizes: []int{3, 3, 1}},
		{name: "smaller than size", n: 2, size: 5, sizes: []int{2}},
		{name: "size zero uses default", n: 2001, size: 0, sizes: []int{2000, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.n)
			for i := range items {
				items[i] = i
			}

			chunks := timeseries.Chunk(items, tt.size)

			got := make([]int, 0, len(chunks))
			var flat []int
			for _, c := range chunks {
				got = append(got, len(c))
				flat = append(flat, c...)
			}
			assert.Equal(t, tt.sizes, got)
			if tt.n > 0 {
				assert.Equal(t, items, flat)
			}
		})
	}
}

package timeseries

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultBatchSize is the maximum number of points per write call when no
// batch size is configured.
const DefaultBatchSize = 2000

// PointWriter submits one chunk of points to a time-series store.
//
// Implementations must write the chunk in a single call and block until the
// store accepts or rejects it.
type PointWriter interface {
	WritePoints(ctx context.Context, bucket string, precision Precision, points []*Point) error
}

// Destination names where a batch goes: a bucket on a store connection.
type Destination struct {
	Bucket string
	Writer PointWriter
}

// Observer receives batch write events. It is used for metrics.
type Observer interface {
	ObserveValidationFailure(err error)
	ObserveChunk(points int, elapsed time.Duration, err error)
}

// Writer validates records and writes them to a Destination in chunks.
type Writer struct {
	dest      Destination
	batchSize int
	precision Precision
	logger    *slog.Logger
	observer  Observer
}

// Option configures a Writer.
type Option func(*Writer)

// WithBatchSize sets the maximum points per write call. Values below 1
// select DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// WithPrecision sets the timestamp precision of written points.
func WithPrecision(p Precision) Option {
	return func(w *Writer) {
		w.precision = p
	}
}

// WithLogger sets the logger for batch progress and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithObserver attaches an Observer, typically a metrics recorder.
func WithObserver(o Observer) Option {
	return func(w *Writer) {
		w.observer = o
	}
}

// NewWriter creates a Writer for dest.
func NewWriter(dest Destination, opts ...Option) *Writer {
	w := &Writer{
		dest:      dest,
		batchSize: DefaultBatchSize,
		precision: Seconds,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BatchSize returns the configured maximum points per write call.
func (w *Writer) BatchSize() int { return w.batchSize }

// Precision returns the configured timestamp precision.
func (w *Writer) Precision() Precision { return w.precision }

// Write validates every record, then writes the resulting points in chunks.
//
// If any record fails validation nothing is written and the error names the
// record's index. A failed chunk write stops the remaining chunks; earlier
// chunks are not rolled back.
func (w *Writer) Write(ctx context.Context, records []Record, schema *Schema) error {
	if w.dest.Writer == nil {
		return ErrNoWriter
	}

	points := make([]*Point, 0, len(records))
	for i, record := range records {
		p, err := Validate(record, schema, w.precision)
		if err != nil {
			if w.observer != nil {
				w.observer.ObserveValidationFailure(err)
			}
			return fmt.Errorf("record %d: %w", i, err)
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil
	}

	chunks := Chunk(points, w.batchSize)
	log := w.logger.With(
		"batch_id", uuid.NewString(),
		"bucket", w.dest.Bucket,
		"precision", w.precision.String(),
	)

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("writing chunk %d of %d: %w", i+1, len(chunks), err)
		}
		start := time.Now()
		err := w.dest.Writer.WritePoints(ctx, w.dest.Bucket, w.precision, chunk)
		elapsed := time.Since(start)
		if w.observer != nil {
			w.observer.ObserveChunk(len(chunk), elapsed, err)
		}
		if err != nil {
			log.Error("chunk write failed",
				"chunk", i+1,
				"chunks", len(chunks),
				"points", len(chunk),
				"error", err,
			)
			return fmt.Errorf("writing chunk %d of %d: %w", i+1, len(chunks), err)
		}
		log.Debug("chunk written", "chunk", i+1, "points", len(chunk), "elapsed", elapsed)
	}

	log.Info("batch written", "points", len(points), "chunks", len(chunks))
	return nil
}

// WriteBatch validates records against schema and writes them to dest.
// It is shorthand for NewWriter(dest, opts...).Write(ctx, records, schema).
func WriteBatch(ctx context.Context, dest Destination, records []Record, schema *Schema, opts ...Option) error {
	return NewWriter(dest, opts...).Write(ctx, records, schema)
}

// Chunk splits items into contiguous slices of at most size elements,
// preserving order. A size below 1 selects DefaultBatchSize.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		size = DefaultBatchSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for c := range slices.Chunk(items, size) {
		chunks = append(chunks, c)
	}
	return chunks
}

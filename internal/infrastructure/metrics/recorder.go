package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nerrad567/gucfop/internal/timeseries"
)

// Validation failure reasons used as label values.
const (
	ReasonSchemaViolation    = "schema_violation"
	ReasonTypeMismatch       = "type_mismatch"
	ReasonMissingMeasurement = "missing_measurement"
	ReasonMissingTime        = "missing_time"
	ReasonOther              = "other"
)

// Recorder records writer and ingest events as Prometheus metrics.
type Recorder struct {
	pointsWritten      prometheus.Counter
	chunksWritten      prometheus.Counter
	validationFailures *prometheus.CounterVec
	writeFailures      prometheus.Counter
	chunkDuration      prometheus.Histogram
	ingestMessages     *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
// It panics if the collectors are already registered with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		pointsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "gucfop_points_written_total",
			Help: "Total number of points accepted by the time-series store",
		}),
		chunksWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "gucfop_chunks_written_total",
			Help: "Total number of chunks accepted by the time-series store",
		}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gucfop_validation_failures_total",
			Help: "Total number of batches aborted by record validation",
		}, []string{"reason"}),
		writeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gucfop_write_failures_total",
			Help: "Total number of chunk writes rejected by the store",
		}),
		chunkDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gucfop_chunk_write_seconds",
			Help:    "Duration of chunk write calls in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		ingestMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gucfop_ingest_messages_total",
			Help: "Total number of ingest messages by outcome",
		}, []string{"result"}),
	}
}

// ObserveValidationFailure counts an aborted batch by failure reason.
func (r *Recorder) ObserveValidationFailure(err error) {
	r.validationFailures.WithLabelValues(reason(err)).Inc()
}

// ObserveChunk records one chunk write attempt.
func (r *Recorder) ObserveChunk(points int, elapsed time.Duration, err error) {
	r.chunkDuration.Observe(elapsed.Seconds())
	if err != nil {
		r.writeFailures.Inc()
		return
	}
	r.chunksWritten.Inc()
	r.pointsWritten.Add(float64(points))
}

// ObserveMessage counts an ingest message as accepted or rejected.
func (r *Recorder) ObserveMessage(accepted bool) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	r.ingestMessages.WithLabelValues(result).Inc()
}

func reason(err error) string {
	switch {
	case errors.Is(err, timeseries.ErrSchemaViolation):
		return ReasonSchemaViolation
	case errors.Is(err, timeseries.ErrTypeMismatch):
		return ReasonTypeMismatch
	case errors.Is(err, timeseries.ErrMissingMeasurement):
		return ReasonMissingMeasurement
	case errors.Is(err, timeseries.ErrMissingTime):
		return ReasonMissingTime
	default:
		return ReasonOther
	}
}

var _ timeseries.Observer = (*Recorder)(nil)

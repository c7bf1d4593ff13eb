package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gucfop/internal/infrastructure/logging"
	"github.com/nerrad567/gucfop/internal/infrastructure/mqtt"
	"github.com/nerrad567/gucfop/internal/timeseries"
)

// Defaults for Config fields left at zero.
const (
	DefaultFlushInterval = 10 * time.Second

	// shutdownFlushTimeout bounds the final flush after cancellation.
	shutdownFlushTimeout = 30 * time.Second
)

// ErrNoTopic indicates a Pump configured without a topic.
var ErrNoTopic = errors.New("ingest: topic is required")

// Source delivers messages for a topic. *mqtt.Client implements it.
type Source interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// MessageObserver counts messages by outcome. *metrics.Recorder implements it.
type MessageObserver interface {
	ObserveMessage(accepted bool)
}

// Config holds pump settings.
type Config struct {
	Topic         string
	QoS           byte // used as given; 0 is a valid level
	FlushInterval time.Duration
}

// Pump moves records from a Source to a timeseries.Writer.
type Pump struct {
	source   Source
	writer   *timeseries.Writer
	schema   *timeseries.Schema
	cfg      Config
	logger   *logging.Logger
	observer MessageObserver

	records chan timeseries.Record
}

// Option configures a Pump.
type Option func(*Pump)

// WithLogger sets the pump's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(p *Pump) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithObserver attaches a message observer.
func WithObserver(o MessageObserver) Option {
	return func(p *Pump) {
		p.observer = o
	}
}

// New creates a Pump. The writer's batch size and precision govern
// flushing and validation.
func New(source Source, writer *timeseries.Writer, schema *timeseries.Schema, cfg Config, opts ...Option) (*Pump, error) {
	if cfg.Topic == "" {
		return nil, ErrNoTopic
	}
	if schema == nil {
		return nil, timeseries.ErrNilSchema
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	p := &Pump{
		source:  source,
		writer:  writer,
		schema:  schema,
		cfg:     cfg,
		logger:  logging.Discard(),
		records: make(chan timeseries.Record, writer.BatchSize()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run subscribes to the topic and pumps records until ctx is cancelled,
// then unsubscribes and flushes what is buffered.
//
// It returns an error only if the subscription cannot be established.
func (p *Pump) Run(ctx context.Context) error {
	if err := p.source.Subscribe(p.cfg.Topic, p.cfg.QoS, p.handler(ctx)); err != nil {
		return fmt.Errorf("subscribing to %s: %w", p.cfg.Topic, err)
	}
	p.logger.Info("ingest started",
		"topic", p.cfg.Topic,
		"batch_size", p.writer.BatchSize(),
		"flush_interval", p.cfg.FlushInterval,
	)

	ticker := time.NewTicker(p.cfg.FlushInterval)
	defer ticker.Stop()

	buf := make([]timeseries.Record, 0, p.writer.BatchSize())
	for {
		select {
		case r := <-p.records:
			buf = append(buf, r)
			if len(buf) >= p.writer.BatchSize() {
				buf = p.flush(ctx, buf, "batch_full")
			}
		case <-ticker.C:
			if len(buf) > 0 {
				buf = p.flush(ctx, buf, "interval")
			}
		case <-ctx.Done():
			return p.shutdown(ctx, buf)
		}
	}
}

// shutdown unsubscribes, drains records already accepted, and flushes.
func (p *Pump) shutdown(ctx context.Context, buf []timeseries.Record) error {
	if err := p.source.Unsubscribe(p.cfg.Topic); err != nil {
		p.logger.Warn("unsubscribe failed", "topic", p.cfg.Topic, "error", err)
	}

	for drained := false; !drained; {
		select {
		case r := <-p.records:
			buf = append(buf, r)
		default:
			drained = true
		}
	}

	if len(buf) > 0 {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
		defer cancel()
		p.flush(flushCtx, buf, "shutdown")
	}

	p.logger.Info("ingest stopped", "topic", p.cfg.Topic)
	return nil
}

// flush writes buf and returns it emptied. Failures drop the records.
func (p *Pump) flush(ctx context.Context, buf []timeseries.Record, trigger string) []timeseries.Record {
	if err := p.writer.Write(ctx, buf, p.schema); err != nil {
		p.logger.Error("flush failed, dropping records",
			"records", len(buf),
			"trigger", trigger,
			"error", err,
		)
	} else {
		p.logger.Debug("flushed", "records", len(buf), "trigger", trigger)
	}
	return buf[:0]
}

// handler decodes and validates one message, then queues the record.
func (p *Pump) handler(ctx context.Context) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		record, err := p.decode(topic, payload)
		if err != nil {
			p.observe(false)
			return err
		}

		select {
		case p.records <- record:
			p.observe(true)
			return nil
		case <-ctx.Done():
			p.observe(false)
			return fmt.Errorf("dropping record from %s: %w", topic, ctx.Err())
		}
	}
}

// decode parses a payload into a validated record. A record without a
// measurement takes it from a gucfop/points/{measurement} topic.
func (p *Pump) decode(topic string, payload []byte) (timeseries.Record, error) {
	record, err := timeseries.ParseRecord(payload)
	if err != nil {
		return timeseries.Record{}, fmt.Errorf("decoding message on %s: %w", topic, err)
	}
	if record.Measurement == "" {
		if m, ok := mqtt.MeasurementFromTopic(topic); ok {
			record.Measurement = m
		}
	}
	if _, err := timeseries.Validate(record, p.schema, p.writer.Precision()); err != nil {
		return timeseries.Record{}, fmt.Errorf("invalid record on %s: %w", topic, err)
	}
	return record, nil
}

func (p *Pump) observe(accepted bool) {
	if p.observer != nil {
		p.observer.ObserveMessage(accepted)
	}
}

package influxdb

import (
	"context"
	"fmt"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gucfop/internal/timeseries"
)

// WritePoints writes one chunk of validated points in a single blocking
// request. An empty bucket name selects the configured bucket.
//
// The precision governs how timestamps are encoded on the wire. It is
// applied per call, so chunks with different precisions may share a client.
//
// Client implements timeseries.PointWriter.
func (c *Client) WritePoints(ctx context.Context, bucket string, precision timeseries.Precision, points []*timeseries.Point) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	if len(points) == 0 {
		return nil
	}
	if bucket == "" {
		bucket = c.cfg.Bucket
	}

	opts := write.DefaultOptions().SetPrecision(precision.Duration())
	writeAPI := api.NewWriteAPIBlocking(c.cfg.Org, bucket, c.client.HTTPService(), opts)

	batch := make([]*write.Point, 0, len(points))
	for _, p := range points {
		batch = append(batch, toWritePoint(p))
	}

	if err := writeAPI.WritePoint(ctx, batch...); err != nil {
		return fmt.Errorf("%w: bucket %q: %w", ErrWriteFailed, bucket, err)
	}
	return nil
}

// toWritePoint converts a validated point into the client's point type.
// The timestamp is already truncated to the point's precision.
func toWritePoint(p *timeseries.Point) *write.Point {
	return write.NewPoint(p.Measurement(), p.Tags(), p.Fields(), p.Time())
}

var _ timeseries.PointWriter = (*Client)(nil)

// Package timeseries validates time-series records against a schema and
// writes them to a store in fixed-size batches.
//
// # Pipeline
//
// A batch write runs in two strictly separated phases:
//
//  1. Every Record is validated against the Schema and turned into an
//     immutable Point. The first invalid record aborts the whole batch.
//  2. The Points are split into contiguous chunks of at most BatchSize and
//     each chunk is handed to the PointWriter, in order, one call per chunk.
//
// Nothing reaches the store unless the whole input validated. A failing chunk
// write stops the remaining chunks; chunks already written stay written.
//
// # Usage
//
//	schema := timeseries.NewSchema(
//	    []string{"host"},
//	    map[string]timeseries.FieldType{"usage": timeseries.Float},
//	)
//
//	err := timeseries.WriteBatch(ctx,
//	    timeseries.Destination{Bucket: "metrics", Writer: influxClient},
//	    records, schema,
//	    timeseries.WithBatchSize(500),
//	)
//
// # Query Results
//
// NormalizeQueryResult turns a tabular query result into a compact table:
// store bookkeeping columns are dropped and the _time column becomes a
// leading unix_epoch_s integer column.
//
// # Thread Safety
//
// Validate, Chunk and NormalizeQueryResult are pure. A Writer holds no
// mutable state but performs its writes sequentially; callers running
// concurrent writers must coordinate access to the destination themselves.
package timeseries

// Package influxdb provides InfluxDB connectivity for gucfop.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, bucket administration, blocking point writes, and Flux
// queries returned as timeseries.Table values.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "gucfop",
//	    Bucket:  "points",
//	}
//
//	client, err := influxdb.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	dest := timeseries.Destination{Bucket: "points", Writer: client}
//	err = timeseries.WriteBatch(ctx, dest, records, schema)
//
// # Writes
//
// WritePoints issues one synchronous request per call and never retries.
// The batch writer in package timeseries decides chunk boundaries.
//
// # Bucket Administration
//
// CreateBucket treats an existing bucket as success with created=false.
// DeleteBucket returns ErrBucketNotFound for a missing bucket. Server
// errors are logged through the optional Logger and wrapped in ErrStore.
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package influxdb

package influxdb

import "errors"

// Sentinel errors for InfluxDB operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, influxdb.ErrBucketNotFound) {
//	    // Nothing to delete
//	}
var (
	// ErrNotConnected indicates the client is not connected to InfluxDB.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrWriteFailed indicates the server rejected or did not receive a write.
	// Writes are never retried.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrQueryFailed indicates a Flux query could not be executed or decoded.
	ErrQueryFailed = errors.New("influxdb: query failed")

	// ErrStore wraps errors returned by the server during bucket administration.
	ErrStore = errors.New("influxdb: store error")

	// ErrBucketNotFound indicates the named bucket does not exist.
	ErrBucketNotFound = errors.New("influxdb: bucket not found")

	// ErrDisabled indicates InfluxDB integration is disabled in config.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)

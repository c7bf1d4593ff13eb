// Package ingest streams point records from an MQTT topic into a
// time-series store.
//
// A Pump subscribes to a topic where every message is one JSON record:
//
//	{"measurement":"cpu","tags":{"host":"a"},"fields":{"usage":0.5},"time":"2024-01-01T00:00:00Z"}
//
// Each record is validated on arrival; invalid messages are logged and
// dropped without affecting the rest of the stream. Valid records are
// buffered and handed to a timeseries.Writer when the buffer reaches the
// writer's batch size, when the flush interval elapses, and on shutdown.
// A failed flush is logged and its records are dropped.
package ingest

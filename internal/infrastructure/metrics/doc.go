// Package metrics exposes batch writer and ingest activity to Prometheus.
//
// Recorder implements timeseries.Observer and counts ingest messages.
// Server serves /metrics and /healthz on a chi router, following the same
// lifecycle as the other infrastructure components:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewRecorder(reg)
//	srv := metrics.NewServer(cfg.Metrics.Addr, reg, logger, checks)
//	srv.Start(ctx)
//	defer srv.Close()
package metrics

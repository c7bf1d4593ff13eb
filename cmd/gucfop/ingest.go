package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nerrad567/gucfop/internal/infrastructure/metrics"
	"github.com/nerrad567/gucfop/internal/infrastructure/mqtt"
	"github.com/nerrad567/gucfop/internal/ingest"
	"github.com/nerrad567/gucfop/internal/timeseries"
)

func newIngestCommand(a *app) *cobra.Command {
	var (
		topic       string
		schemaPath  string
		bucket      string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Stream JSON records from MQTT into InfluxDB",
		Long: `Subscribe to an MQTT topic and write every valid JSON record to
InfluxDB. Records are flushed when the writer batch size is reached, when
the ingest flush interval elapses, and on shutdown (SIGINT/SIGTERM).

Invalid messages are logged and dropped. With metrics enabled in config or
--metrics-addr set, Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := a.config(ctx)
			if err != nil {
				return err
			}

			if topic == "" {
				topic = cfg.Ingest.Topic
			}
			if topic == "" {
				topic = mqtt.Topics{}.AllPoints()
			}
			if schemaPath == "" {
				schemaPath = cfg.Ingest.SchemaFile
			}
			if schemaPath == "" {
				return fmt.Errorf("a schema is required (--schema or ingest.schema_file)")
			}
			schema, err := timeseries.LoadSchema(schemaPath)
			if err != nil {
				return err
			}
			prec, err := timeseries.ParsePrecision(cfg.Writer.Precision)
			if err != nil {
				return err
			}

			influxClient, err := a.influx(ctx)
			if err != nil {
				return err
			}
			defer a.closeInflux(influxClient)

			mqttClient, err := mqtt.Connect(cfg.MQTT)
			if err != nil {
				return fmt.Errorf("connecting to MQTT: %w", err)
			}
			defer func() {
				a.log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					a.log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			mqttClient.SetLogger(a.log)
			mqttClient.SetOnDisconnect(func(err error) {
				a.log.Warn("MQTT connection lost", "error", err)
			})
			a.log.Info("MQTT connected",
				"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
				"client_id", cfg.MQTT.Broker.ClientID,
			)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			recorder := metrics.NewRecorder(reg)

			if metricsAddr == "" && cfg.Metrics.Enabled {
				metricsAddr = cfg.Metrics.Addr
			}
			if metricsAddr != "" {
				srv := metrics.NewServer(metricsAddr, reg, a.log, map[string]metrics.HealthChecker{
					"influxdb": influxClient,
					"mqtt":     mqttClient,
				})
				if err := srv.Start(ctx); err != nil {
					return err
				}
				defer func() {
					if closeErr := srv.Close(); closeErr != nil {
						a.log.Error("error closing metrics server", "error", closeErr)
					}
				}()
			}

			if bucket == "" {
				bucket = influxClient.DefaultBucket()
			}
			writer := timeseries.NewWriter(
				timeseries.Destination{Bucket: bucket, Writer: influxClient},
				timeseries.WithBatchSize(cfg.Writer.BatchSize),
				timeseries.WithPrecision(prec),
				timeseries.WithLogger(a.log.Logger),
				timeseries.WithObserver(recorder),
			)

			pump, err := ingest.New(mqttClient, writer, schema, ingest.Config{
				Topic:         topic,
				QoS:           mqttClient.QoS(),
				FlushInterval: cfg.GetFlushInterval(),
			}, ingest.WithLogger(a.log), ingest.WithObserver(recorder))
			if err != nil {
				return err
			}

			return pump.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "MQTT topic (default ingest.topic, then gucfop/points/#)")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (default ingest.schema_file)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "destination bucket (default from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gucfop/internal/infrastructure/mqtt"
	"github.com/nerrad567/gucfop/internal/timeseries"
)

func newPointsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Validate and write time-series records",
	}
	cmd.AddCommand(newPointsWriteCommand(a), newPointsPublishCommand(a))
	return cmd
}

func newPointsWriteCommand(a *app) *cobra.Command {
	var (
		schemaPath  string
		recordsPath string
		bucket      string
		batchSize   int
		precision   string
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Validate a records file against a schema and write it in chunks",
		Long: `Validate every record in a YAML or JSON records file against a schema,
then write the points to InfluxDB in chunks of at most --batch-size.

If any record is invalid nothing is written.`,
		Example: `  gucfop points write --schema cpu.schema.yaml --records cpu.yaml
  gucfop points write --schema s.yaml --records r.json --bucket raw --precision ns`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := a.config(ctx)
			if err != nil {
				return err
			}

			schema, err := timeseries.LoadSchema(schemaPath)
			if err != nil {
				return err
			}
			records, err := readRecords(recordsPath)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("precision") {
				precision = cfg.Writer.Precision
			}
			prec, err := timeseries.ParsePrecision(precision)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("batch-size") {
				batchSize = cfg.Writer.BatchSize
			}

			client, err := a.influx(ctx)
			if err != nil {
				return err
			}
			defer a.closeInflux(client)

			if bucket == "" {
				bucket = client.DefaultBucket()
			}
			dest := timeseries.Destination{Bucket: bucket, Writer: client}
			err = timeseries.WriteBatch(ctx, dest, records, schema,
				timeseries.WithBatchSize(batchSize),
				timeseries.WithPrecision(prec),
				timeseries.WithLogger(a.log.Logger),
			)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "wrote %d points to %s\n", len(records), bucket)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (YAML)")
	cmd.Flags().StringVar(&recordsPath, "records", "", "records file (YAML or JSON list)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "destination bucket (default from config)")
	cmd.Flags().IntVar(&batchSize, "batch-size", timeseries.DefaultBatchSize, "maximum points per write")
	cmd.Flags().StringVar(&precision, "precision", "s", "timestamp precision: s or ns")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("records")
	return cmd
}

func newPointsPublishCommand(a *app) *cobra.Command {
	var recordsPath string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish records to MQTT for a running ingest",
		Long: `Publish each record in a records file as one JSON message on
gucfop/points/{measurement}. Records are not validated here; the ingest
validates them on arrival.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config(cmd.Context())
			if err != nil {
				return err
			}
			records, err := readRecords(recordsPath)
			if err != nil {
				return err
			}

			client, err := mqtt.Connect(cfg.MQTT)
			if err != nil {
				return fmt.Errorf("connecting to MQTT: %w", err)
			}
			defer func() {
				if closeErr := client.Close(); closeErr != nil {
					a.log.Error("error closing MQTT", "error", closeErr)
				}
			}()

			for i, r := range records {
				payload, err := timeseries.MarshalRecord(r)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				if err := client.Publish(mqtt.Topics{}.Points(r.Measurement), payload, client.QoS(), false); err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
			}

			fmt.Fprintf(a.stdout, "published %d records\n", len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "records file (YAML or JSON list)")
	_ = cmd.MarkFlagRequired("records")
	return cmd
}

func readRecords(path string) ([]timeseries.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return timeseries.ParseRecords(data)
}

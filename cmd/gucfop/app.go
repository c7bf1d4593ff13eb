package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gucfop/internal/infrastructure/config"
	"github.com/nerrad567/gucfop/internal/infrastructure/influxdb"
	"github.com/nerrad567/gucfop/internal/infrastructure/logging"
	"github.com/nerrad567/gucfop/internal/infrastructure/secrets"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// app holds state shared by all commands: the resolved configuration and
// the logger built from it.
type app struct {
	configPath string
	stdout     io.Writer

	cfg *config.Config
	log *logging.Logger
}

func newApp(stdout io.Writer) *app {
	return &app{
		configPath: getConfigPath(),
		stdout:     stdout,
		log:        logging.Discard(),
	}
}

// getConfigPath returns the config path from GUCFOP_CONFIG or the default.
func getConfigPath() string {
	if path := os.Getenv("GUCFOP_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "gucfop",
		Short:         "Time-series batch writer and data store toolkit",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", a.configPath, "config file path (env GUCFOP_CONFIG)")

	root.AddCommand(
		newSecretCommand(a),
		newBucketCommand(a),
		newPointsCommand(a),
		newQueryCommand(a),
		newMongoCommand(a),
		newPadCommand(a),
		newIngestCommand(a),
	)
	return root
}

// config loads the configuration once. A missing file falls back to
// defaults; secrets referenced by name are resolved through AWS.
func (a *app) config(ctx context.Context) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	a.log = logging.New(cfg.Logging, version)

	if cfg.InfluxDB.Token == "" && cfg.InfluxDB.TokenSecret != "" {
		sm, err := a.secretsClient(ctx, cfg, "")
		if err != nil {
			return nil, err
		}
		if err := cfg.ResolveSecrets(ctx, sm); err != nil {
			return nil, err
		}
		a.log.Debug("influxdb token resolved from secret", "secret", cfg.InfluxDB.TokenSecret)
	}

	a.cfg = cfg
	return cfg, nil
}

// secretsClient builds a Secrets Manager client from the AWS section.
// A non-empty region overrides the configured one.
func (a *app) secretsClient(ctx context.Context, cfg *config.Config, region string) (*secrets.Client, error) {
	if region == "" {
		region = cfg.AWS.Region
	}
	return secrets.New(ctx, secrets.Config{
		Region:          region,
		Endpoint:        cfg.AWS.Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	})
}

// influx connects to InfluxDB. The caller closes the client.
func (a *app) influx(ctx context.Context) (*influxdb.Client, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return nil, err
	}

	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	client.SetLogger(a.log)
	a.log.Debug("InfluxDB connected", "url", cfg.InfluxDB.URL, "org", cfg.InfluxDB.Org)
	return client, nil
}

// closeInflux closes client and logs any error.
func (a *app) closeInflux(client *influxdb.Client) {
	if err := client.Close(); err != nil {
		a.log.Error("error closing InfluxDB", "error", err)
	}
}

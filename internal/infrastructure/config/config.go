package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for gucfop.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	MongoDB  MongoDBConfig  `yaml:"mongodb"`
	AWS      AWSConfig      `yaml:"aws"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Writer   WriterConfig   `yaml:"writer"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	// TokenSecret names an AWS Secrets Manager secret holding the token.
	// It is only consulted when Token is empty.
	TokenSecret string `yaml:"token_secret"`
	Org         string `yaml:"org"`
	Bucket      string `yaml:"bucket"`
	// Timeout is the HTTP request timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// MongoDBConfig contains MongoDB connection settings.
type MongoDBConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	// ServerSelectionTimeout is in milliseconds.
	ServerSelectionTimeout int  `yaml:"server_selection_timeout"`
	Verbose                bool `yaml:"verbose"`
}

// AWSConfig contains AWS settings used for Secrets Manager access.
type AWSConfig struct {
	Region string `yaml:"region"`
	// Endpoint overrides the service endpoint (LocalStack, testing).
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// WriterConfig contains batch writer settings.
type WriterConfig struct {
	BatchSize int    `yaml:"batch_size"`
	Precision string `yaml:"precision"` // "s" or "ns"
}

// IngestConfig contains settings for streaming records from MQTT.
type IngestConfig struct {
	Topic string `yaml:"topic"`
	// FlushInterval is in seconds.
	FlushInterval int `yaml:"flush_interval"`
	// SchemaFile is the YAML schema incoming records are validated against.
	SchemaFile string `yaml:"schema_file"`
}

// MetricsConfig contains Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecretGetter fetches a secret value by name.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GUCFOP_SECTION_KEY
// For example: GUCFOP_INFLUXDB_TOKEN, GUCFOP_MONGODB_URI
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load, except that a missing file yields the
// defaults with environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		applyEnvOverrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validating config: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		InfluxDB: InfluxDBConfig{
			URL:     "http://localhost:8086",
			Timeout: 20,
		},
		MongoDB: MongoDBConfig{
			ServerSelectionTimeout: 5000,
		},
		AWS: AWSConfig{
			Region: "us-west-2",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "gucfop",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Writer: WriterConfig{
			BatchSize: 2000,
			Precision: "s",
		},
		Ingest: IngestConfig{
			FlushInterval: 10,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// InfluxDB
	if v := os.Getenv("GUCFOP_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("GUCFOP_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("GUCFOP_INFLUXDB_ORG"); v != "" {
		cfg.InfluxDB.Org = v
	}
	if v := os.Getenv("GUCFOP_INFLUXDB_BUCKET"); v != "" {
		cfg.InfluxDB.Bucket = v
	}

	// MongoDB
	if v := os.Getenv("GUCFOP_MONGODB_URI"); v != "" {
		cfg.MongoDB.URI = v
	}

	// AWS
	if v := os.Getenv("GUCFOP_AWS_REGION"); v != "" {
		cfg.AWS.Region = v
	}
	if v := os.Getenv("GUCFOP_AWS_ENDPOINT"); v != "" {
		cfg.AWS.Endpoint = v
	}

	// MQTT
	if v := os.Getenv("GUCFOP_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GUCFOP_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("GUCFOP_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GUCFOP_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Logging
	if v := os.Getenv("GUCFOP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// validPrecisions lists the precision names the batch writer understands.
var validPrecisions = map[string]bool{
	"":            true,
	"s":           true,
	"seconds":     true,
	"ns":          true,
	"nanoseconds": true,
}

// Validate checks the configuration for errors.
// All problems are collected and reported together.
func (c *Config) Validate() error {
	var errs []string

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required")
		}
		if c.InfluxDB.Org == "" {
			errs = append(errs, "influxdb.org is required")
		}
		if c.InfluxDB.Token == "" && c.InfluxDB.TokenSecret == "" {
			errs = append(errs, "influxdb.token or influxdb.token_secret is required (or set GUCFOP_INFLUXDB_TOKEN)")
		}
	}
	if c.InfluxDB.Timeout < 0 {
		errs = append(errs, "influxdb.timeout must not be negative")
	}

	if c.MongoDB.URI != "" {
		if c.MongoDB.Database == "" {
			errs = append(errs, "mongodb.database is required when mongodb.uri is set")
		}
		if c.MongoDB.Collection == "" {
			errs = append(errs, "mongodb.collection is required when mongodb.uri is set")
		}
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Writer.BatchSize < 0 {
		errs = append(errs, "writer.batch_size must not be negative")
	}
	if !validPrecisions[strings.ToLower(c.Writer.Precision)] {
		errs = append(errs, "writer.precision must be s or ns")
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, "metrics.addr is required when metrics are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ResolveSecrets fills values that are configured by secret name.
//
// Currently this is the InfluxDB token: when influxdb.token is empty and
// influxdb.token_secret is set, the token is fetched through getter.
func (c *Config) ResolveSecrets(ctx context.Context, getter SecretGetter) error {
	if c.InfluxDB.Token != "" || c.InfluxDB.TokenSecret == "" {
		return nil
	}
	token, err := getter.GetSecret(ctx, c.InfluxDB.TokenSecret)
	if err != nil {
		return fmt.Errorf("resolving influxdb.token_secret: %w", err)
	}
	c.InfluxDB.Token = strings.TrimSpace(token)
	return nil
}

// GetInfluxDBTimeout returns the InfluxDB request timeout as a Duration.
func (c *Config) GetInfluxDBTimeout() time.Duration {
	return time.Duration(c.InfluxDB.Timeout) * time.Second
}

// GetServerSelectionTimeout returns the MongoDB server selection timeout.
func (c *Config) GetServerSelectionTimeout() time.Duration {
	return time.Duration(c.MongoDB.ServerSelectionTimeout) * time.Millisecond
}

// GetFlushInterval returns the ingest flush interval as a Duration.
func (c *Config) GetFlushInterval() time.Duration {
	return time.Duration(c.Ingest.FlushInterval) * time.Second
}

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
influxdb:
  enabled: true
  url: "http://influx:8086"
  token: "dev-token"
  org: "gucfop"
  bucket: "metrics"
mongodb:
  uri: "mongodb://localhost:27017"
  database: "test_database"
  collection: "test_collection"
writer:
  batch_size: 500
  precision: ns
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InfluxDB.URL != "http://influx:8086" {
		t.Errorf("InfluxDB.URL = %q, want %q", cfg.InfluxDB.URL, "http://influx:8086")
	}
	if cfg.MongoDB.Collection != "test_collection" {
		t.Errorf("MongoDB.Collection = %q, want %q", cfg.MongoDB.Collection, "test_collection")
	}
	if cfg.Writer.BatchSize != 500 {
		t.Errorf("Writer.BatchSize = %d, want 500", cfg.Writer.BatchSize)
	}

	// Unset sections keep their defaults.
	if cfg.AWS.Region != "us-west-2" {
		t.Errorf("AWS.Region = %q, want default us-west-2", cfg.AWS.Region)
	}
	if cfg.GetServerSelectionTimeout() != 5*time.Second {
		t.Errorf("GetServerSelectionTimeout() = %v, want 5s", cfg.GetServerSelectionTimeout())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("GUCFOP_AWS_REGION", "eu-central-1")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Writer.BatchSize != 2000 {
		t.Errorf("Writer.BatchSize = %d, want default 2000", cfg.Writer.BatchSize)
	}
	if cfg.AWS.Region != "eu-central-1" {
		t.Errorf("AWS.Region = %q, want env override", cfg.AWS.Region)
	}

	cfg, err = LoadOrDefault(writeConfig(t, "writer:\n  batch_size: 10\n"))
	if err != nil {
		t.Fatalf("LoadOrDefault() with file error = %v", err)
	}
	if cfg.Writer.BatchSize != 10 {
		t.Errorf("Writer.BatchSize = %d, want 10 from file", cfg.Writer.BatchSize)
	}

	if _, err := LoadOrDefault(writeConfig(t, "invalid: [yaml")); err == nil {
		t.Error("LoadOrDefault() expected error for invalid YAML in existing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
influxdb:
  enabled: true
  org: ""
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "influxdb.org") {
		t.Errorf("error %q should mention influxdb.org", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GUCFOP_INFLUXDB_TOKEN", "env-token")
	t.Setenv("GUCFOP_MONGODB_URI", "mongodb://env:27017")
	t.Setenv("GUCFOP_MQTT_PORT", "8883")
	t.Setenv("GUCFOP_LOG_LEVEL", "debug")

	content := `
influxdb:
  enabled: true
  org: "gucfop"
  token: "file-token"
mongodb:
  database: "db"
  collection: "coll"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InfluxDB.Token != "env-token" {
		t.Errorf("InfluxDB.Token = %q, want env-token", cfg.InfluxDB.Token)
	}
	if cfg.MongoDB.URI != "mongodb://env:27017" {
		t.Errorf("MongoDB.URI = %q, want env override", cfg.MongoDB.URI)
	}
	if cfg.MQTT.Broker.Port != 8883 {
		t.Errorf("MQTT.Broker.Port = %d, want 8883", cfg.MQTT.Broker.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name: "influxdb enabled with token",
			modify: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Org = "org"
				c.InfluxDB.Token = "token"
			},
		},
		{
			name: "influxdb token by secret name",
			modify: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Org = "org"
				c.InfluxDB.TokenSecret = "influx/token"
			},
		},
		{
			name: "influxdb without token",
			modify: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Org = "org"
			},
			wantErr: "influxdb.token",
		},
		{
			name: "influxdb without url",
			modify: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = ""
				c.InfluxDB.Org = "org"
				c.InfluxDB.Token = "token"
			},
			wantErr: "influxdb.url",
		},
		{
			name: "mongodb uri without database",
			modify: func(c *Config) {
				c.MongoDB.URI = "mongodb://localhost"
				c.MongoDB.Collection = "c"
			},
			wantErr: "mongodb.database",
		},
		{
			name:    "invalid qos",
			modify:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "negative batch size",
			modify:  func(c *Config) { c.Writer.BatchSize = -1 },
			wantErr: "writer.batch_size",
		},
		{
			name:    "unknown precision",
			modify:  func(c *Config) { c.Writer.Precision = "ms" },
			wantErr: "writer.precision",
		},
		{
			name: "metrics without addr",
			modify: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.Addr = ""
			},
			wantErr: "metrics.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.MQTT.QoS = 5
	cfg.Writer.BatchSize = -10

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"mqtt.qos", "writer.batch_size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %q, missing %q", err, want)
		}
	}
}

// stubSecrets returns a fixed value or error for any secret name.
type stubSecrets struct {
	value string
	err   error
	calls []string
}

func (s *stubSecrets) GetSecret(_ context.Context, name string) (string, error) {
	s.calls = append(s.calls, name)
	return s.value, s.err
}

func TestResolveSecrets(t *testing.T) {
	cfg := Default()
	cfg.InfluxDB.TokenSecret = "influx/token"
	stub := &stubSecrets{value: "secret-token\n"}

	if err := cfg.ResolveSecrets(context.Background(), stub); err != nil {
		t.Fatalf("ResolveSecrets() error = %v", err)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want secret-token", cfg.InfluxDB.Token)
	}
	if len(stub.calls) != 1 || stub.calls[0] != "influx/token" {
		t.Errorf("GetSecret calls = %v, want [influx/token]", stub.calls)
	}
}

func TestResolveSecrets_TokenAlreadySet(t *testing.T) {
	cfg := Default()
	cfg.InfluxDB.Token = "explicit"
	cfg.InfluxDB.TokenSecret = "influx/token"
	stub := &stubSecrets{value: "from-secret"}

	if err := cfg.ResolveSecrets(context.Background(), stub); err != nil {
		t.Fatalf("ResolveSecrets() error = %v", err)
	}
	if cfg.InfluxDB.Token != "explicit" {
		t.Errorf("InfluxDB.Token = %q, want explicit", cfg.InfluxDB.Token)
	}
	if len(stub.calls) != 0 {
		t.Errorf("GetSecret should not be called, got %v", stub.calls)
	}
}

func TestResolveSecrets_Error(t *testing.T) {
	cfg := Default()
	cfg.InfluxDB.TokenSecret = "influx/token"
	wantErr := errors.New("access denied")

	err := cfg.ResolveSecrets(context.Background(), &stubSecrets{err: wantErr})
	if !errors.Is(err, wantErr) {
		t.Errorf("ResolveSecrets() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestGetDurations(t *testing.T) {
	cfg := Default()
	cfg.InfluxDB.Timeout = 3
	cfg.Ingest.FlushInterval = 7

	if got := cfg.GetInfluxDBTimeout(); got != 3*time.Second {
		t.Errorf("GetInfluxDBTimeout() = %v, want 3s", got)
	}
	if got := cfg.GetFlushInterval(); got != 7*time.Second {
		t.Errorf("GetFlushInterval() = %v, want 7s", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
site:
  id: "test-studio"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  port: 9000
motion:
  tick_rate_hz: 30
  poll_interval_ms: 50
sink:
  format: console
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-studio" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-studio")
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Motion.TickRateHz != 30 {
		t.Errorf("Motion.TickRateHz = %d, want 30", cfg.Motion.TickRateHz)
	}
	// Unset keys keep their defaults.
	if cfg.Motion.GracePeriodMS != 200 {
		t.Errorf("Motion.GracePeriodMS = %d, want default 200", cfg.Motion.GracePeriodMS)
	}
	if cfg.Sink.Format != "console" {
		t.Errorf("Sink.Format = %q, want console", cfg.Sink.Format)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want loopback default", cfg.API.Host)
	}
	if !cfg.Motion.FirstEnvironmentAsTransition {
		t.Error("FirstEnvironmentAsTransition should default to true")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRAYMOTION_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("GRAYMOTION_API_PORT", "9123")
	t.Setenv("GRAYMOTION_MOTION_TICK_RATE_HZ", "120")
	t.Setenv("GRAYMOTION_MQTT_HOST", "broker.local")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Database.Path = %q, want /tmp/env.db", cfg.Database.Path)
	}
	if cfg.API.Port != 9123 {
		t.Errorf("API.Port = %d, want 9123", cfg.API.Port)
	}
	if cfg.Motion.TickRateHz != 120 {
		t.Errorf("Motion.TickRateHz = %d, want 120", cfg.Motion.TickRateHz)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT = %+v, want enabled with broker.local", cfg.MQTT)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing site ID",
			mutate:  func(c *Config) { c.Site.ID = "" },
			wantErr: "site.id",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
		{
			name:    "influx enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: "influxdb.url",
		},
		{
			name:    "zero tick rate",
			mutate:  func(c *Config) { c.Motion.TickRateHz = 0 },
			wantErr: "tick_rate_hz",
		},
		{
			name:    "poll interval looser than 100ms",
			mutate:  func(c *Config) { c.Motion.PollIntervalMS = 250 },
			wantErr: "poll_interval_ms",
		},
		{
			name:    "unknown sink format",
			mutate:  func(c *Config) { c.Sink.Format = "xml" },
			wantErr: "sink.format",
		},
		{
			name:    "zero fade steps",
			mutate:  func(c *Config) { c.Motion.FlickerFadeSteps = 0 },
			wantErr: "flicker_fade_steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Site.ID = ""
	cfg.API.Port = 70000

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want error")
	}
	for _, want := range []string{"site.id", "api.port"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestMotionConfig_Durations(t *testing.T) {
	m := Default().Motion

	if got := m.TickInterval(); got != time.Second/60 {
		t.Errorf("TickInterval() = %v, want %v", got, time.Second/60)
	}
	if got := m.GracePeriod(); got != 200*time.Millisecond {
		t.Errorf("GracePeriod() = %v, want 200ms", got)
	}
	if got := m.PollInterval(); got != 100*time.Millisecond {
		t.Errorf("PollInterval() = %v, want 100ms", got)
	}
	if got := m.DefaultTransition(); got != 4*time.Second {
		t.Errorf("DefaultTransition() = %v, want 4s", got)
	}
}

func TestConfig_Timeouts(t *testing.T) {
	cfg := Default()
	if cfg.GetReadTimeout() != 30*time.Second {
		t.Errorf("GetReadTimeout() = %v", cfg.GetReadTimeout())
	}
	if cfg.GetWriteTimeout() != 30*time.Second {
		t.Errorf("GetWriteTimeout() = %v", cfg.GetWriteTimeout())
	}
	if cfg.GetIdleTimeout() != 60*time.Second {
		t.Errorf("GetIdleTimeout() = %v", cfg.GetIdleTimeout())
	}
}

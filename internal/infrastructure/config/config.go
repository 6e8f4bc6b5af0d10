package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Gray Motion.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Motion    MotionConfig    `yaml:"motion"`
	Sink      SinkConfig      `yaml:"sink"`
}

// SiteConfig identifies this studio instance.
type SiteConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
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
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MotionConfig tunes the animation workers.
type MotionConfig struct {
	// TickRateHz is the sample rate of keyframe playback, sweeps and transitions.
	TickRateHz int `yaml:"tick_rate_hz"`

	// GracePeriodMS bounds how long a new task waits for its predecessor to stop.
	GracePeriodMS int `yaml:"grace_period_ms"`

	// PollIntervalMS is the fallback interval at which the sequence
	// orchestrator re-checks a delegate's active flag.
	PollIntervalMS int `yaml:"poll_interval_ms"`

	// DefaultTransitionMS is used when a script's first environment step is
	// played as a transition.
	DefaultTransitionMS int `yaml:"default_transition_ms"`

	// FirstEnvironmentAsTransition fades into the first environment step of a
	// script instead of snapping to it.
	FirstEnvironmentAsTransition bool `yaml:"first_environment_as_transition"`

	FlickerFadeSteps int    `yaml:"flicker_fade_steps"`
	FlickerProperty  string `yaml:"flicker_property"`
	SweepXProperty   string `yaml:"sweep_x_property"`
	SweepYProperty   string `yaml:"sweep_y_property"`

	// HistoryLimit caps the undo stack. 0 means unlimited.
	HistoryLimit int `yaml:"history_limit"`
}

// SinkConfig selects how snapshots leave the process.
type SinkConfig struct {
	// Format is "json" (one batched snapshot document) or "console"
	// (one batched line of console commands).
	Format      string `yaml:"format"`
	TopicPrefix string `yaml:"topic_prefix"`
	Retained    bool   `yaml:"retained"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GRAYMOTION_SECTION_KEY
// For example: GRAYMOTION_DATABASE_PATH, GRAYMOTION_API_PORT
//
// An empty path skips the file and returns defaults with overrides applied.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "studio-001",
			Name: "Gray Motion",
		},
		Database: DatabaseConfig{
			Path:        "./data/graymotion.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "graymotion",
			},
			QoS: 0,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			Bucket:        "motion",
			BatchSize:     500,
			FlushInterval: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Motion: MotionConfig{
			TickRateHz:                   60,
			GracePeriodMS:                200,
			PollIntervalMS:               100,
			DefaultTransitionMS:          4000,
			FirstEnvironmentAsTransition: true,
			FlickerFadeSteps:             20,
			FlickerProperty:              "sun_strength",
			SweepXProperty:               "sun_direction_x",
			SweepYProperty:               "sun_direction_y",
			HistoryLimit:                 100,
		},
		Sink: SinkConfig{
			Format:      "json",
			TopicPrefix: "graymotion",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GRAYMOTION_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("GRAYMOTION_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("GRAYMOTION_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
		cfg.MQTT.Enabled = true
	}
	if v := os.Getenv("GRAYMOTION_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GRAYMOTION_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("GRAYMOTION_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("GRAYMOTION_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// InfluxDB
	if v := os.Getenv("GRAYMOTION_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Motion
	if v := os.Getenv("GRAYMOTION_MOTION_TICK_RATE_HZ"); v != "" {
		if hz, err := strconv.Atoi(v); err == nil {
			cfg.Motion.TickRateHz = hz
		}
	}

	// Logging
	if v := os.Getenv("GRAYMOTION_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	// Motion validation. A tick rate above 1 kHz is below timer resolution
	// on most platforms and only burns CPU.
	if c.Motion.TickRateHz < 1 || c.Motion.TickRateHz > 1000 {
		errs = append(errs, "motion.tick_rate_hz must be between 1 and 1000")
	}
	if c.Motion.GracePeriodMS < 0 {
		errs = append(errs, "motion.grace_period_ms must not be negative")
	}
	if c.Motion.PollIntervalMS < 1 || c.Motion.PollIntervalMS > 100 {
		errs = append(errs, "motion.poll_interval_ms must be between 1 and 100")
	}
	if c.Motion.DefaultTransitionMS < 0 {
		errs = append(errs, "motion.default_transition_ms must not be negative")
	}
	if c.Motion.FlickerFadeSteps < 1 {
		errs = append(errs, "motion.flicker_fade_steps must be at least 1")
	}
	if c.Motion.FlickerProperty == "" {
		errs = append(errs, "motion.flicker_property is required")
	}
	if c.Motion.SweepXProperty == "" || c.Motion.SweepYProperty == "" {
		errs = append(errs, "motion.sweep_x_property and motion.sweep_y_property are required")
	}
	if c.Motion.HistoryLimit < 0 {
		errs = append(errs, "motion.history_limit must not be negative")
	}

	switch strings.ToLower(c.Sink.Format) {
	case "json", "console":
	default:
		errs = append(errs, "sink.format must be json or console")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// TickInterval returns the period between two samples.
func (m MotionConfig) TickInterval() time.Duration {
	if m.TickRateHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(m.TickRateHz)
}

// GracePeriod returns the supersede grace wait as a Duration.
func (m MotionConfig) GracePeriod() time.Duration {
	return time.Duration(m.GracePeriodMS) * time.Millisecond
}

// PollInterval returns the orchestrator fallback poll interval.
func (m MotionConfig) PollInterval() time.Duration {
	return time.Duration(m.PollIntervalMS) * time.Millisecond
}

// DefaultTransition returns the implicit first-environment transition length.
func (m MotionConfig) DefaultTransition() time.Duration {
	return time.Duration(m.DefaultTransitionMS) * time.Millisecond
}

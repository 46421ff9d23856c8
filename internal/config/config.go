// Package config loads the service configuration from YAML with
// environment variable expansion and defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tejusbharadwaj/histseries/internal/catalog"
	"github.com/tejusbharadwaj/histseries/internal/query"
	"github.com/tejusbharadwaj/histseries/internal/timestamp"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. HISTSERIES_SERVER_PORT.
const EnvPrefix = "HISTSERIES"

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Historian HistorianConfig `mapstructure:"historian"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Watches   []WatchConfig   `mapstructure:"watches"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Host        string `mapstructure:"host"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type DatabaseConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	Name              string `mapstructure:"name"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	SSLMode           string `mapstructure:"ssl_mode"`
	MaxConnections    int    `mapstructure:"max_connections"`
	ConnectionTimeout int    `mapstructure:"connection_timeout"`
}

// ConnString returns the lib/pq connection string.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.ConnectionTimeout,
	)
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HistorianConfig tunes the series layer.
type HistorianConfig struct {
	// Timezone is the IANA zone result timestamps are expressed in.
	Timezone         string `mapstructure:"timezone"`
	CatalogCacheSize int    `mapstructure:"catalog_cache_size"`
	// WriteBuffer is the number of values buffered before a flush; 0
	// disables buffering.
	WriteBuffer   int    `mapstructure:"write_buffer"`
	FlushSchedule string `mapstructure:"flush_schedule"`
	// MaxIntervals caps the intervals or interpolation points of one
	// request.
	MaxIntervals int `mapstructure:"max_intervals"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// IngestConfig describes the upstream API polled into a point.
type IngestConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	Tag        string        `mapstructure:"tag"`
	Schedule   string        `mapstructure:"schedule"`
	Window     time.Duration `mapstructure:"window"`
	Bootstrap  time.Duration `mapstructure:"bootstrap"`
	UpdateMode string        `mapstructure:"update_mode"`
	BufferMode string        `mapstructure:"buffer_mode"`
}

type WatchConfig struct {
	Name       string `mapstructure:"name"`
	Expression string `mapstructure:"expression"`
	Schedule   string `mapstructure:"schedule"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// First unmarshal into a map to handle type conversions
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raw config: %w", err)
	}

	// Convert the map to YAML again
	data, err = yaml.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw config: %w", err)
	}

	// Expand environment variables
	expandedData := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadConfig(bytes.NewReader([]byte(expandedData))); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.metrics_port", 9090)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.connection_timeout", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("historian.timezone", "UTC")
	v.SetDefault("historian.catalog_cache_size", 1000)
	v.SetDefault("historian.write_buffer", 0)
	v.SetDefault("historian.flush_schedule", "@every 30s")
	v.SetDefault("historian.max_intervals", 150000)

	v.SetDefault("rate_limit.requests_per_second", 5.0)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("ingest.enabled", false)
	v.SetDefault("ingest.schedule", "*/5 * * * *")
	v.SetDefault("ingest.window", "5m")
	v.SetDefault("ingest.bootstrap", "0s")
	v.SetDefault("ingest.update_mode", "replace")
	v.SetDefault("ingest.buffer_mode", "buffer_if_possible")
}

// Validate rejects settings that would only fail once the service runs.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		fail("server.port %d out of range", c.Server.Port)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		fail("logging.level: %v", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		fail("logging.format %q must be json or text", c.Logging.Format)
	}
	if _, err := timestamp.NewCodec(c.Historian.Timezone); err != nil {
		fail("historian.timezone: %v", err)
	}
	if c.Historian.CatalogCacheSize <= 0 {
		fail("historian.catalog_cache_size must be positive")
	}
	if c.Historian.MaxIntervals <= 0 {
		fail("historian.max_intervals must be positive")
	}
	if c.Historian.WriteBuffer < 0 {
		fail("historian.write_buffer must not be negative")
	}
	if c.Historian.WriteBuffer > 0 {
		if _, err := cron.ParseStandard(c.Historian.FlushSchedule); err != nil {
			fail("historian.flush_schedule: %v", err)
		}
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		fail("rate_limit requires positive requests_per_second and burst")
	}

	if c.Ingest.Enabled {
		if c.Ingest.URL == "" || c.Ingest.Tag == "" {
			fail("ingest requires url and tag")
		}
		if _, err := cron.ParseStandard(c.Ingest.Schedule); err != nil {
			fail("ingest.schedule: %v", err)
		}
		if c.Ingest.Window <= 0 {
			fail("ingest.window must be positive")
		}
		if _, err := query.ParseUpdateMode(c.Ingest.UpdateMode); err != nil {
			fail("ingest.update_mode: %v", err)
		}
		if _, err := query.ParseBufferMode(c.Ingest.BufferMode); err != nil {
			fail("ingest.buffer_mode: %v", err)
		}
	}

	seen := map[string]bool{}
	for i, w := range c.Watches {
		if w.Name == "" {
			fail("watches[%d] has no name", i)
		} else if seen[w.Name] {
			fail("watch %q is defined twice", w.Name)
		}
		seen[w.Name] = true
		if _, err := catalog.Parse(w.Expression); err != nil {
			fail("watch %q: %v", w.Name, err)
		}
		if _, err := cron.ParseStandard(w.Schedule); err != nil {
			fail("watch %q schedule: %v", w.Name, err)
		}
	}

	return errors.Join(errs...)
}

// NewLogger builds the logger described by the logging section.
func (l LoggingConfig) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetLevel(level)
	if l.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}

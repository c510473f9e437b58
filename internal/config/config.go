// Package config loads the immutable process configuration. Everything is read
// once at startup and passed down explicitly; nothing reads viper afterwards.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Engine modes. Local runs an embedded SQLite query engine; athena talks to
// AWS Athena over structured S3 data.
const (
	ModeLocal  = "local"
	ModeAthena = "athena"
)

// Engine configures the query engine and the job-polling loop.
type Engine struct {
	Mode         string        `mapstructure:"mode"`
	Region       string        `mapstructure:"region"`
	Database     string        `mapstructure:"database"`
	Workgroup    string        `mapstructure:"workgroup"`
	OutputS3     string        `mapstructure:"output_s3"`
	Table        string        `mapstructure:"table"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// Storage configures the local readings database and the raw S3 landing zone.
type Storage struct {
	DBPath    string `mapstructure:"db_path"`
	RawBucket string `mapstructure:"raw_bucket"`
	RawPrefix string `mapstructure:"raw_prefix"`
}

// Analytics holds shaping knobs for the dashboard endpoints.
type Analytics struct {
	LatestLimit       int     `mapstructure:"latest_limit"`
	TempBucketWidthC  float64 `mapstructure:"temp_bucket_width_c"`
	AlertThresholdPpm float64 `mapstructure:"alert_threshold_ppm"`
}

// Simulator configures the background telemetry generator.
type Simulator struct {
	Enabled    bool          `mapstructure:"enabled"`
	Tick       time.Duration `mapstructure:"tick"`
	Tents      []string      `mapstructure:"tents"`
	DangerTent string        `mapstructure:"danger_tent"`
}

// Config is the root configuration object.
type Config struct {
	Port      string    `mapstructure:"port"`
	LogLevel  string    `mapstructure:"log_level"`
	Engine    Engine    `mapstructure:"engine"`
	Storage   Storage   `mapstructure:"storage"`
	Analytics Analytics `mapstructure:"analytics"`
	Simulator Simulator `mapstructure:"simulator"`
}

// Load reads configs/config.yml under the given directory, applies defaults
// and environment overrides, and validates the result. Any key can be
// overridden with a CO_MONITORING_-prefixed variable, dots replaced by
// underscores (engine.mode -> CO_MONITORING_ENGINE_MODE).
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	setDefaults(v)
	v.SetEnvPrefix("co_monitoring")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("engine.mode", ModeLocal)
	v.SetDefault("engine.table", "readings")
	v.SetDefault("engine.poll_interval", time.Second)
	v.SetDefault("engine.query_timeout", 30*time.Second)
	v.SetDefault("engine.max_attempts", 3)
	v.SetDefault("engine.retry_backoff", 200*time.Millisecond)
	v.SetDefault("storage.db_path", "readings.db")
	v.SetDefault("storage.raw_prefix", "raw")
	v.SetDefault("analytics.latest_limit", 20)
	v.SetDefault("analytics.temp_bucket_width_c", 2.0)
	v.SetDefault("analytics.alert_threshold_ppm", 120.0)
	v.SetDefault("simulator.enabled", false)
	v.SetDefault("simulator.tick", 5*time.Second)
}

func (c *Config) validate() error {
	switch c.Engine.Mode {
	case ModeLocal:
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path required in local mode")
		}
	case ModeAthena:
		if c.Engine.Database == "" || c.Engine.OutputS3 == "" || c.Engine.Region == "" {
			return fmt.Errorf("engine.database, engine.output_s3 and engine.region required in athena mode")
		}
	default:
		return fmt.Errorf("unknown engine.mode %q", c.Engine.Mode)
	}
	if c.Engine.PollInterval <= 0 {
		return fmt.Errorf("engine.poll_interval must be positive")
	}
	if c.Engine.QueryTimeout < c.Engine.PollInterval {
		return fmt.Errorf("engine.query_timeout must be >= engine.poll_interval")
	}
	if c.Engine.MaxAttempts < 1 {
		return fmt.Errorf("engine.max_attempts must be >= 1")
	}
	if c.Analytics.LatestLimit < 1 {
		return fmt.Errorf("analytics.latest_limit must be >= 1")
	}
	if c.Analytics.TempBucketWidthC <= 0 {
		return fmt.Errorf("analytics.temp_bucket_width_c must be positive")
	}
	return nil
}

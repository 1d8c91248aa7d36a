// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Scrape        ScrapeConfig        `yaml:"scrape"`
	Cycle         CycleConfig         `yaml:"cycle"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Events        EventsConfig        `yaml:"events"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// TriggerToken, when set, must be presented as a bearer token to run a
	// cycle over HTTP.
	TriggerToken string `yaml:"trigger_token"`
}

// DatabaseConfig selects and configures the product store.
type DatabaseConfig struct {
	Driver   string      `yaml:"driver"` // postgres, mongo
	Host     string      `yaml:"host"`
	Port     int         `yaml:"port"`
	Name     string      `yaml:"name"`
	User     string      `yaml:"user"`
	Password string      `yaml:"password"`
	SSLMode  string      `yaml:"sslmode"`
	PoolSize int         `yaml:"pool_size"`
	Mongo    MongoConfig `yaml:"mongo"`
}

// MongoConfig defines MongoDB connection settings.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// RedisConfig defines the Redis instance used for the cycle lock.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

// ScrapeConfig defines product page fetching settings.
type ScrapeConfig struct {
	UserAgent    string          `yaml:"user_agent"`
	Timeout      time.Duration   `yaml:"timeout"`
	AllowedHosts []string        `yaml:"allowed_hosts"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
	Selectors    SelectorConfig  `yaml:"selectors"`
}

// RateLimitConfig defines per-host request pacing.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// SelectorConfig overrides the CSS selectors used to read product pages.
// Empty fields keep the built-in defaults.
type SelectorConfig struct {
	Title        string `yaml:"title"`
	Price        string `yaml:"price"`
	Currency     string `yaml:"currency"`
	Availability string `yaml:"availability"`
	Image        string `yaml:"image"`
}

// CycleConfig defines update cycle behavior.
type CycleConfig struct {
	ScheduleEnabled bool          `yaml:"schedule_enabled"`
	Interval        time.Duration `yaml:"interval"`
	Timeout         time.Duration `yaml:"timeout"`
	Concurrency     int           `yaml:"concurrency"`
}

// ScoringConfig defines deal score weights.
type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`
}

// ScoringWeights defines the relative weight of each scoring factor.
type ScoringWeights struct {
	Price    float64 `yaml:"price"`
	Discount float64 `yaml:"discount"`
	Rating   float64 `yaml:"rating"`
	Stock    float64 `yaml:"stock"`
	Quality  float64 `yaml:"quality"`
}

// NotificationsConfig defines notification transports.
type NotificationsConfig struct {
	SMTP SMTPConfig `yaml:"smtp"`
}

// SMTPConfig defines outgoing mail settings.
type SMTPConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	From     string        `yaml:"from"`
	Timeout  time.Duration `yaml:"timeout"`
}

// EventsConfig defines the cycle event stream.
type EventsConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

// KafkaConfig defines the Kafka producer.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// TelemetryConfig defines OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string        `yaml:"level"`  // debug, info, warn, error
	Format string        `yaml:"format"` // text, json
	File   LogFileConfig `yaml:"file"`
}

// LogFileConfig defines rotating file output. An empty path disables it.
type LogFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyRedisDefaults(&cfg.Redis)
	applyScrapeDefaults(&cfg.Scrape)
	applyCycleDefaults(&cfg.Cycle)
	applyScoringDefaults(&cfg.Scoring)
	applySMTPDefaults(&cfg.Notifications.SMTP)
	applyEventsDefaults(&cfg.Events)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 90 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = DriverPostgres
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
	if d.Mongo.Database == "" {
		d.Mongo.Database = "trackmyprices"
	}
}

func applyRedisDefaults(r *RedisConfig) {
	if r.Addr == "" {
		r.Addr = "localhost:6379"
	}
	if r.LockTTL == 0 {
		r.LockTTL = 5 * time.Minute
	}
}

func applyScrapeDefaults(s *ScrapeConfig) {
	if s.UserAgent == "" {
		s.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}
	if s.Timeout == 0 {
		s.Timeout = 20 * time.Second
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 1.0
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 2
	}
}

func applyCycleDefaults(c *CycleConfig) {
	if c.Interval == 0 {
		c.Interval = 6 * time.Hour
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.Concurrency == 0 {
		c.Concurrency = 8
	}
}

func applyScoringDefaults(s *ScoringConfig) {
	if s.Weights == (ScoringWeights{}) {
		s.Weights = ScoringWeights{
			Price:    0.45,
			Discount: 0.20,
			Rating:   0.15,
			Stock:    0.10,
			Quality:  0.10,
		}
	}
}

func applySMTPDefaults(s *SMTPConfig) {
	if s.Port == 0 {
		s.Port = 587
	}
	if s.Timeout == 0 {
		s.Timeout = 15 * time.Second
	}
}

func applyEventsDefaults(e *EventsConfig) {
	if e.Kafka.Topic == "" {
		e.Kafka.Topic = "trackmyprices.product-updates"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "trackmyprices"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
	if l.File.MaxSizeMB == 0 {
		l.File.MaxSizeMB = 100
	}
	if l.File.MaxBackups == 0 {
		l.File.MaxBackups = 3
	}
	if l.File.MaxAgeDays == 0 {
		l.File.MaxAgeDays = 28
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required"))
		}
	case DriverMongo:
		if cfg.Database.Mongo.URI == "" {
			errs = append(
				errs,
				fmt.Errorf("database.mongo.uri is required when driver is mongo"),
			)
		}
	default:
		errs = append(
			errs,
			fmt.Errorf(
				"database.driver must be one of: postgres, mongo (got %q)",
				cfg.Database.Driver,
			),
		)
	}

	if cfg.Cycle.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("cycle.concurrency must not be negative"))
	}
	if cfg.Cycle.Timeout < 0 {
		errs = append(errs, fmt.Errorf("cycle.timeout must not be negative"))
	}
	// The cycle lock must outlive the cycle budget or a second replica can
	// start while the first is still writing.
	if cfg.Redis.Enabled && cfg.Redis.LockTTL <= cfg.Cycle.Timeout {
		errs = append(
			errs,
			fmt.Errorf(
				"redis.lock_ttl (%s) must exceed cycle.timeout (%s)",
				cfg.Redis.LockTTL, cfg.Cycle.Timeout,
			),
		)
	}

	w := cfg.Scoring.Weights
	if w.Price < 0 || w.Discount < 0 || w.Rating < 0 || w.Stock < 0 || w.Quality < 0 {
		errs = append(errs, fmt.Errorf("scoring.weights must not be negative"))
	}

	if cfg.Notifications.SMTP.Enabled {
		if cfg.Notifications.SMTP.Host == "" {
			errs = append(
				errs,
				fmt.Errorf("notifications.smtp.host is required when smtp is enabled"),
			)
		}
		if cfg.Notifications.SMTP.From == "" {
			errs = append(
				errs,
				fmt.Errorf("notifications.smtp.from is required when smtp is enabled"),
			)
		}
	}

	if cfg.Events.Kafka.Enabled && len(cfg.Events.Kafka.Brokers) == 0 {
		errs = append(
			errs,
			fmt.Errorf("events.kafka.brokers is required when kafka is enabled"),
		)
	}

	return errors.Join(errs...)
}

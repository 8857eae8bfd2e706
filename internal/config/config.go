// Package config provides configuration management for the bibliographic
// enrichment service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the enrichment service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Search contains literature search interface settings.
	Search SearchConfig `mapstructure:"search"`
	// Reference contains journal reference workbook settings.
	Reference ReferenceConfig `mapstructure:"reference"`
	// Concepts contains concept tagging settings.
	Concepts ConceptsConfig `mapstructure:"concepts"`
	// Store contains record store settings.
	Store StoreConfig `mapstructure:"store"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
	// Namespace is the metric name prefix.
	Namespace string `mapstructure:"namespace"`
}

// SearchConfig holds literature search interface settings.
type SearchConfig struct {
	// BaseURL is the search endpoint.
	BaseURL string `mapstructure:"base_url"`
	// APIKey is an optional access key (loaded from BIBLIO_SEARCH_API_KEY).
	APIKey string `mapstructure:"-"`
	// StartYear restricts harvests to publications from this year on.
	// Zero disables the filter.
	StartYear int `mapstructure:"start_year"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
	// Burst is the rate limiter burst size.
	Burst int `mapstructure:"burst"`
	// MaxRetries is the number of tries per result page.
	MaxRetries int `mapstructure:"max_retries"`
	// RetryDelay is the fixed wait between tries.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// ReferenceConfig holds journal reference workbook settings.
type ReferenceConfig struct {
	// Path is the location of the reference workbook (.xlsx).
	Path string `mapstructure:"path"`
	// Sheet is the worksheet to read. Empty selects the first sheet.
	Sheet string `mapstructure:"sheet"`
}

// ConceptsConfig holds concept tagging settings.
type ConceptsConfig struct {
	// SideLogPath is the file receiving unidentified journal names.
	SideLogPath string `mapstructure:"side_log_path"`
}

// StoreConfig holds record store settings.
type StoreConfig struct {
	// Dir is the directory holding per-user record files.
	Dir string `mapstructure:"dir"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("BIBLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/biblio-enrichment-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets come exclusively from environment variables; the field is
	// tagged mapstructure:"-" so config files cannot set it.
	cfg.Search.APIKey = os.Getenv("BIBLIO_SEARCH_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "biblio")

	// Search defaults. The interface throttles aggressively; retries are
	// spaced well apart.
	v.SetDefault("search.base_url", "https://pubmed.ncbi.nlm.nih.gov/")
	v.SetDefault("search.start_year", 0)
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("search.rate_limit", 3.0)
	v.SetDefault("search.burst", 3)
	v.SetDefault("search.max_retries", 5)
	v.SetDefault("search.retry_delay", "5s")

	// Reference workbook defaults
	v.SetDefault("reference.path", "reference/journals.xlsx")
	v.SetDefault("reference.sheet", "")

	// Concepts defaults
	v.SetDefault("concepts.side_log_path", "data/unidentified-journals.txt")

	// Store defaults
	v.SetDefault("store.dir", "data/records")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Search.BaseURL == "" {
		return fmt.Errorf("search base URL is required")
	}
	if c.Search.RateLimit <= 0 {
		return fmt.Errorf("search rate limit must be positive")
	}
	if c.Search.MaxRetries <= 0 {
		return fmt.Errorf("search max_retries must be positive")
	}
	if c.Search.RetryDelay < 0 {
		return fmt.Errorf("search retry_delay must not be negative")
	}

	if c.Reference.Path == "" {
		return fmt.Errorf("reference workbook path is required")
	}
	if c.Concepts.SideLogPath == "" {
		return fmt.Errorf("concepts side-log path is required")
	}
	if c.Store.Dir == "" {
		return fmt.Errorf("store directory is required")
	}

	return nil
}

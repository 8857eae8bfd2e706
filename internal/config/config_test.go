package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Server defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 9091, cfg.Server.MetricsPort)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Metrics defaults
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "biblio", cfg.Metrics.Namespace)

	// Search defaults
	assert.Equal(t, 3.0, cfg.Search.RateLimit)
	assert.Equal(t, 5, cfg.Search.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Search.RetryDelay)
	assert.Equal(t, 0, cfg.Search.StartYear)

	// File layout defaults
	assert.Equal(t, "reference/journals.xlsx", cfg.Reference.Path)
	assert.Equal(t, "data/unidentified-journals.txt", cfg.Concepts.SideLogPath)
	assert.Equal(t, "data/records", cfg.Store.Dir)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("BIBLIO_SERVER_HTTP_PORT", "8888")
	t.Setenv("BIBLIO_LOGGING_LEVEL", "debug")
	t.Setenv("BIBLIO_SEARCH_BASE_URL", "http://search.example.com/find")
	t.Setenv("BIBLIO_SEARCH_START_YEAR", "2015")
	t.Setenv("BIBLIO_SEARCH_RETRY_DELAY", "2s")
	t.Setenv("BIBLIO_STORE_DIR", "/var/lib/biblio/records")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://search.example.com/find", cfg.Search.BaseURL)
	assert.Equal(t, 2015, cfg.Search.StartYear)
	assert.Equal(t, 2*time.Second, cfg.Search.RetryDelay)
	assert.Equal(t, "/var/lib/biblio/records", cfg.Store.Dir)
}

func TestLoad_APIKeyFromEnvOnly(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("BIBLIO_SEARCH_API_KEY", "key-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "key-test", cfg.Search.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*Config)
		expectedErr string
	}{
		{
			name:        "HTTP port zero",
			modifyFunc:  func(c *Config) { c.Server.HTTPPort = 0 },
			expectedErr: "invalid HTTP port: 0",
		},
		{
			name:        "HTTP port too high",
			modifyFunc:  func(c *Config) { c.Server.HTTPPort = 70000 },
			expectedErr: "invalid HTTP port: 70000",
		},
		{
			name:        "metrics port invalid",
			modifyFunc:  func(c *Config) { c.Server.MetricsPort = -5 },
			expectedErr: "invalid metrics port: -5",
		},
		{
			name:        "invalid log level",
			modifyFunc:  func(c *Config) { c.Logging.Level = "verbose" },
			expectedErr: "invalid log level: verbose",
		},
		{
			name:        "empty search base URL",
			modifyFunc:  func(c *Config) { c.Search.BaseURL = "" },
			expectedErr: "search base URL is required",
		},
		{
			name:        "zero rate limit",
			modifyFunc:  func(c *Config) { c.Search.RateLimit = 0 },
			expectedErr: "search rate limit must be positive",
		},
		{
			name:        "zero max retries",
			modifyFunc:  func(c *Config) { c.Search.MaxRetries = 0 },
			expectedErr: "search max_retries must be positive",
		},
		{
			name:        "negative retry delay",
			modifyFunc:  func(c *Config) { c.Search.RetryDelay = -time.Second },
			expectedErr: "search retry_delay must not be negative",
		},
		{
			name:        "empty reference path",
			modifyFunc:  func(c *Config) { c.Reference.Path = "" },
			expectedErr: "reference workbook path is required",
		},
		{
			name:        "empty side-log path",
			modifyFunc:  func(c *Config) { c.Concepts.SideLogPath = "" },
			expectedErr: "concepts side-log path is required",
		},
		{
			name:        "empty store directory",
			modifyFunc:  func(c *Config) { c.Store.Dir = "" },
			expectedErr: "store directory is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logging.Level = level
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestServerConfig_Addresses(t *testing.T) {
	cfg := ServerConfig{
		Host:        "0.0.0.0",
		HTTPPort:    8080,
		MetricsPort: 9091,
	}
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddress())
	assert.Equal(t, "0.0.0.0:9091", cfg.MetricsAddress())
}

// clearEnvVars removes all BIBLIO_ prefixed environment variables
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "BIBLIO_") {
			key, _, _ := strings.Cut(env, "=")
			os.Unsetenv(key)
		}
	}
}

// validConfig returns a valid configuration for testing
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			HTTPPort:    8080,
			MetricsPort: 9091,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Search: SearchConfig{
			BaseURL:    "http://search.example.com",
			RateLimit:  3,
			Burst:      3,
			MaxRetries: 5,
			RetryDelay: 5 * time.Second,
		},
		Reference: ReferenceConfig{Path: "reference/journals.xlsx"},
		Concepts:  ConceptsConfig{SideLogPath: "data/unidentified-journals.txt"},
		Store:     StoreConfig{Dir: "data/records"},
	}
}

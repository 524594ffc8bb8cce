package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/bitcoin-fees-service/bitcoinfees"
)

var configEnvKeys = []string{
	"PORT",
	"LOG_LEVEL",
	"FEES_API_BASE_URL",
	"FEES_API_TIMEOUT_SECONDS",
	"RATE_LIMIT_ENABLED",
	"RATE_LIMIT_REQUESTS",
	"RATE_LIMIT_WINDOW_SECONDS",
	"RATE_LIMIT_BURST",
}

// clearConfigEnv unsets config keys for the test; t.Setenv restores them.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(t *testing.T, cfg *Config)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8081", cfg.Port)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, bitcoinfees.DefaultBaseURL, cfg.FeesAPIBaseURL)
				assert.Equal(t, 30*time.Second, cfg.FeesAPITimeout())
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 100, cfg.RateLimitRequests)
				assert.Equal(t, 60*time.Second, cfg.RateLimitWindow())
				assert.Equal(t, 10, cfg.RateLimitBurst)
			},
		},
		{
			name: "custom configuration",
			envVars: map[string]string{
				"PORT":                      "9090",
				"LOG_LEVEL":                 "debug",
				"FEES_API_BASE_URL":         "http://localhost:9999/fees",
				"FEES_API_TIMEOUT_SECONDS":  "5",
				"RATE_LIMIT_ENABLED":        "false",
				"RATE_LIMIT_REQUESTS":       "200",
				"RATE_LIMIT_WINDOW_SECONDS": "120",
				"RATE_LIMIT_BURST":          "20",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9090", cfg.Port)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "http://localhost:9999/fees", cfg.FeesAPIBaseURL)
				assert.Equal(t, 5*time.Second, cfg.FeesAPITimeout())
				assert.False(t, cfg.RateLimitEnabled)
				assert.Equal(t, 200, cfg.RateLimitRequests)
				assert.Equal(t, 120*time.Second, cfg.RateLimitWindow())
				assert.Equal(t, 20, cfg.RateLimitBurst)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()
			require.NoError(t, err)
			tt.expected(t, cfg)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{"non numeric timeout", map[string]string{"FEES_API_TIMEOUT_SECONDS": "soon"}},
		{"zero timeout", map[string]string{"FEES_API_TIMEOUT_SECONDS": "0"}},
		{"zero window", map[string]string{"RATE_LIMIT_WINDOW_SECONDS": "0"}},
		{"negative burst", map[string]string{"RATE_LIMIT_BURST": "-1"}},
		{"bad scheme", map[string]string{"FEES_API_BASE_URL": "ftp://fees.example.com/"}},
		{"bad boolean", map[string]string{"RATE_LIMIT_ENABLED": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_NewFeesClient(t *testing.T) {
	cfg := &Config{FeesAPIBaseURL: "http://localhost:9999/fees", FeesAPITimeoutSeconds: 1}

	client := cfg.NewFeesClient()
	defer client.Close()

	assert.Equal(t, "http://localhost:9999/fees/", client.BaseURL())
}

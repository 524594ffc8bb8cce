package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/dalfonso89/bitcoin-fees-service/bitcoinfees"
)

// Config holds all configuration for the application
type Config struct {
	Port     string `envconfig:"PORT" default:"8081"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Upstream fee API
	FeesAPIBaseURL        string `envconfig:"FEES_API_BASE_URL" default:"https://bitcoinfees.earn.com/api/v1/fees/"`
	FeesAPITimeoutSeconds int    `envconfig:"FEES_API_TIMEOUT_SECONDS" default:"30"`

	// Rate limiting of inbound requests
	RateLimitEnabled       bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitRequests      int  `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindowSeconds int  `envconfig:"RATE_LIMIT_WINDOW_SECONDS" default:"60"`
	RateLimitBurst         int  `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var configuration Config
	if err := envconfig.Process("", &configuration); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks values envconfig cannot express as types
func (configuration *Config) Validate() error {
	if configuration.FeesAPITimeoutSeconds <= 0 {
		return fmt.Errorf("FEES_API_TIMEOUT_SECONDS must be positive, got %d", configuration.FeesAPITimeoutSeconds)
	}
	if configuration.RateLimitWindowSeconds <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive, got %d", configuration.RateLimitWindowSeconds)
	}
	if configuration.RateLimitBurst < 0 || configuration.RateLimitRequests < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	baseURL, err := url.Parse(configuration.FeesAPIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid FEES_API_BASE_URL: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return fmt.Errorf("FEES_API_BASE_URL must be an http(s) URL, got %q", configuration.FeesAPIBaseURL)
	}
	return nil
}

// FeesAPITimeout returns the upstream request timeout
func (configuration *Config) FeesAPITimeout() time.Duration {
	return time.Duration(configuration.FeesAPITimeoutSeconds) * time.Second
}

// RateLimitWindow returns the refill window of the rate limiter
func (configuration *Config) RateLimitWindow() time.Duration {
	return time.Duration(configuration.RateLimitWindowSeconds) * time.Second
}

// NewFeesClient builds the upstream client; it owns its transport.
func (configuration *Config) NewFeesClient() *bitcoinfees.Client {
	return bitcoinfees.NewClient(configuration.FeesAPIBaseURL, configuration.FeesAPITimeout())
}

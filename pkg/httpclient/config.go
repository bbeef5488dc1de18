package httpclient

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
)

// Config represents remote evaluation client options
type Config struct {
	// BaseURL is the root of a `pwq serve` instance, e.g. http://127.0.0.1:8080
	BaseURL   string        `json:"base_url" yaml:"base_url"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent string        `json:"user_agent" yaml:"user_agent"`

	RetryConfig   *RetryConfig   `json:"retry" yaml:"retry"`
	TLSConfig     *TLSConfig     `json:"tls" yaml:"tls"`
	BreakerConfig *BreakerConfig `json:"breaker" yaml:"breaker"`
}

// RetryConfig defines retry behavior for failed requests
type RetryConfig struct {
	MaxRetries      int           `json:"max_retries" yaml:"max_retries"`
	InitialDelay    time.Duration `json:"initial_delay" yaml:"initial_delay"`
	MaxDelay        time.Duration `json:"max_delay" yaml:"max_delay"`
	Multiplier      float64       `json:"multiplier" yaml:"multiplier"`
	RetryableStatus []int         `json:"retryable_status" yaml:"retryable_status"`
}

// TLSConfig defines TLS security settings
type TLSConfig struct {
	MinVersion uint16 `json:"min_version" yaml:"min_version"`
	RootCAFile string `json:"root_ca_file" yaml:"root_ca_file"`
}

// BreakerConfig controls when the client stops calling a failing server.
type BreakerConfig struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32 `json:"consecutive_failures" yaml:"consecutive_failures"`
	// OpenTimeout is how long the breaker stays open before a trial request.
	OpenTimeout time.Duration `json:"open_timeout" yaml:"open_timeout"`
	// HalfOpenRequests is the number of trial requests allowed while half-open.
	HalfOpenRequests uint32 `json:"half_open_requests" yaml:"half_open_requests"`
}

// DefaultConfig returns a secure default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:   5 * time.Second,
		UserAgent: fmt.Sprintf("%s/%s", shared.AppID, shared.BuildVersion()),

		// checks are superseded by the next keystroke; one quick retry is enough
		RetryConfig: &RetryConfig{
			MaxRetries:      1,
			InitialDelay:    100 * time.Millisecond,
			MaxDelay:        time.Second,
			Multiplier:      2.0,
			RetryableStatus: []int{502, 503, 504},
		},

		TLSConfig: &TLSConfig{
			MinVersion: tls.VersionTLS12,
		},

		BreakerConfig: &BreakerConfig{
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
			HalfOpenRequests:    1,
		},
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig(baseURL string) *Config {
	config := DefaultConfig()
	config.BaseURL = baseURL
	config.Timeout = 2 * time.Second
	config.RetryConfig.MaxRetries = 0
	config.BreakerConfig.OpenTimeout = time.Second
	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &ConfigError{Field: "BaseURL", Message: "is required"}
	}

	if c.Timeout <= 0 {
		return &ConfigError{Field: "Timeout", Message: "must be positive"}
	}

	if c.RetryConfig != nil {
		if c.RetryConfig.MaxRetries < 0 {
			return &ConfigError{Field: "RetryConfig.MaxRetries", Message: "cannot be negative"}
		}
		if c.RetryConfig.MaxRetries > 0 {
			if c.RetryConfig.InitialDelay <= 0 {
				return &ConfigError{Field: "RetryConfig.InitialDelay", Message: "must be positive"}
			}
			if c.RetryConfig.Multiplier <= 1.0 {
				return &ConfigError{Field: "RetryConfig.Multiplier", Message: "must be greater than 1.0"}
			}
		}
	}

	if c.BreakerConfig != nil && c.BreakerConfig.ConsecutiveFailures == 0 {
		return &ConfigError{Field: "BreakerConfig.ConsecutiveFailures", Message: "must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Message)
}

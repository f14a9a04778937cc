package httpclient

import (
	"crypto/tls"
	"fmt"
	"time"
)

// Config represents HTTP client configuration options
type Config struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`

	TLSConfig  *TLSConfig  `yaml:"tls"`
	PoolConfig *PoolConfig `yaml:"pool"`
}

// TLSConfig defines TLS security settings
type TLSConfig struct {
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	MinVersion         uint16 `yaml:"min_version"`
}

// PoolConfig defines connection pool settings
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
	DialTimeout         time.Duration `yaml:"dial_timeout"`
	KeepAlive           time.Duration `yaml:"keep_alive"`
}

// DefaultUserAgent identifies scribe to AI providers.
const DefaultUserAgent = "scribe/1.0 (+https://github.com/CodeMonkeyCybersecurity/scribe)"

// DefaultConfig returns a secure default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		UserAgent: DefaultUserAgent,

		TLSConfig: &TLSConfig{
			InsecureSkipVerify: false,
			MinVersion:         tls.VersionTLS12,
		},

		PoolConfig: &PoolConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			DialTimeout:         5 * time.Second,
			KeepAlive:           30 * time.Second,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return &ConfigError{Field: "Timeout", Message: "must be positive"}
	}
	if c.PoolConfig != nil && c.PoolConfig.DialTimeout < 0 {
		return &ConfigError{Field: "PoolConfig.DialTimeout", Message: "cannot be negative"}
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

package types

import (
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://huggingface.co"
	DefaultTimeout = 10 * time.Second
	DefaultLimit   = 5
)

// Config represents the Hugging Face registry configuration
type Config struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	APIKey  string        `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Limit   int           `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Validate validates the registry configuration. A missing API key is not a
// configuration error here: the proxy reports it per request.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrInvalidBaseURL
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Limit < 0 {
		return ErrInvalidLimit
	}
	return nil
}

// HasAPIKey reports whether a credential is configured
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// WithDefaults fills zero fields
func (c Config) WithDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Limit == 0 {
		c.Limit = DefaultLimit
	}
	return c
}

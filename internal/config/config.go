package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/blacktop/inpost/internal/inpost"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvAccessToken = "INPOST_LINKEDIN_ACCESS_TOKEN"
	EnvAPIURL      = "INPOST_LINKEDIN_API_URL"
	EnvTimeout     = "INPOST_HTTP_TIMEOUT"
	EnvUserAgent   = "INPOST_USER_AGENT"
	EnvLogLevel    = "INPOST_LOG_LEVEL"
	EnvDebug       = "INPOST_DEBUG"

	DefaultAPIURL = "https://api.linkedin.com/v2"
)

// Config holds the settings needed to reach the LinkedIn API.
type Config struct {
	AccessToken string        `env:"INPOST_LINKEDIN_ACCESS_TOKEN"`
	APIURL      string        `env:"INPOST_LINKEDIN_API_URL" envDefault:"https://api.linkedin.com/v2"`
	Timeout     time.Duration `env:"INPOST_HTTP_TIMEOUT" envDefault:"30s"`
	UserAgent   string        `env:"INPOST_USER_AGENT" envDefault:"inpost/1"`
	LogLevel    string        `env:"INPOST_LOG_LEVEL" envDefault:"info"`
	Debug       bool          `env:"INPOST_DEBUG"`
}

// Load reads configuration from the environment.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("invalid %s: must not be negative", EnvTimeout)
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid %s: %q is not an http(s) URL", EnvAPIURL, c.APIURL)
	}
	return nil
}

// RequireToken returns the configured access token or a MissingEnvError.
func (c *Config) RequireToken() (inpost.Credential, error) {
	if c.AccessToken == "" {
		return "", inpost.MissingEnvError{Provider: "linkedin", Variables: []string{EnvAccessToken}}
	}
	return inpost.Credential(c.AccessToken), nil
}

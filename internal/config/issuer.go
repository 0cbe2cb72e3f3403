package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvIssuerUsername    = "SITCERT_ISSUER_USERNAME"
	EnvIssuerPassword    = "SITCERT_ISSUER_PASSWORD"
	EnvIssuerNavTimeout  = "SITCERT_ISSUER_NAV_TIMEOUT"
	EnvIssuerHeaded      = "SITCERT_ISSUER_HEADED"
	EnvIssuerUserAgent   = "SITCERT_ISSUER_USER_AGENT"
	EnvIssuerVerifyHost  = "SITCERT_ISSUER_VERIFY_HOST"
)

// IssuerConfig holds CITI Program portal credentials and browser automation
// parameters for authoritative document retrieval. Credentials are optional at
// load time; the retriever rejects runs when they are unset.
type IssuerConfig struct {
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	NavTimeout string `toml:"nav_timeout"`
	// Headed disables headless mode for local debugging.
	Headed     bool   `toml:"headed"`
	UserAgent  string `toml:"user_agent"`
	VerifyHost string `toml:"verify_host"`
}

// NavTimeoutDuration returns NavTimeout as a time.Duration.
func (c *IssuerConfig) NavTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.NavTimeout)
	return d
}

// Configured reports whether portal credentials are present.
func (c *IssuerConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *IssuerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Headed always applies.
func (c *IssuerConfig) Merge(overlay *IssuerConfig) {
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.NavTimeout != "" {
		c.NavTimeout = overlay.NavTimeout
	}
	c.Headed = overlay.Headed
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
	if overlay.VerifyHost != "" {
		c.VerifyHost = overlay.VerifyHost
	}
}

func (c *IssuerConfig) loadDefaults() {
	if c.NavTimeout == "" {
		c.NavTimeout = "45s"
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.VerifyHost == "" {
		c.VerifyHost = "www.citiprogram.org"
	}
}

func (c *IssuerConfig) loadEnv() {
	if v := os.Getenv(EnvIssuerUsername); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvIssuerPassword); v != "" {
		c.Password = v
	}
	if v := os.Getenv(EnvIssuerNavTimeout); v != "" {
		c.NavTimeout = v
	}
	if v := os.Getenv(EnvIssuerHeaded); v != "" {
		if headed, err := strconv.ParseBool(v); err == nil {
			c.Headed = headed
		}
	}
	if v := os.Getenv(EnvIssuerUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(EnvIssuerVerifyHost); v != "" {
		c.VerifyHost = v
	}
}

func (c *IssuerConfig) validate() error {
	if _, err := time.ParseDuration(c.NavTimeout); err != nil {
		return fmt.Errorf("invalid nav_timeout: %w", err)
	}
	if c.VerifyHost == "" {
		return fmt.Errorf("verify_host required")
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvVerificationRunTimeout    = "SITCERT_VERIFICATION_RUN_TIMEOUT"
	EnvVerificationGuardTTL      = "SITCERT_VERIFICATION_GUARD_TTL"
	EnvVerificationArchivePrefix = "SITCERT_VERIFICATION_ARCHIVE_PREFIX"
)

// VerificationConfig holds orchestrator-level parameters: the wall-clock bound
// for a single verification run, the single-flight guard TTL, and the storage
// prefix for archived authoritative documents.
type VerificationConfig struct {
	RunTimeout    string `toml:"run_timeout"`
	GuardTTL      string `toml:"guard_ttl"`
	ArchivePrefix string `toml:"archive_prefix"`
}

// RunTimeoutDuration returns RunTimeout as a time.Duration.
func (c *VerificationConfig) RunTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RunTimeout)
	return d
}

// GuardTTLDuration returns GuardTTL as a time.Duration.
func (c *VerificationConfig) GuardTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.GuardTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *VerificationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *VerificationConfig) Merge(overlay *VerificationConfig) {
	if overlay.RunTimeout != "" {
		c.RunTimeout = overlay.RunTimeout
	}
	if overlay.GuardTTL != "" {
		c.GuardTTL = overlay.GuardTTL
	}
	if overlay.ArchivePrefix != "" {
		c.ArchivePrefix = overlay.ArchivePrefix
	}
}

func (c *VerificationConfig) loadDefaults() {
	if c.RunTimeout == "" {
		c.RunTimeout = "5m"
	}
	if c.GuardTTL == "" {
		c.GuardTTL = "10m"
	}
	if c.ArchivePrefix == "" {
		c.ArchivePrefix = "citi-automated-docs"
	}
}

func (c *VerificationConfig) loadEnv() {
	if v := os.Getenv(EnvVerificationRunTimeout); v != "" {
		c.RunTimeout = v
	}
	if v := os.Getenv(EnvVerificationGuardTTL); v != "" {
		c.GuardTTL = v
	}
	if v := os.Getenv(EnvVerificationArchivePrefix); v != "" {
		c.ArchivePrefix = v
	}
}

func (c *VerificationConfig) validate() error {
	if _, err := time.ParseDuration(c.RunTimeout); err != nil {
		return fmt.Errorf("invalid run_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.GuardTTL); err != nil {
		return fmt.Errorf("invalid guard_ttl: %w", err)
	}
	return nil
}

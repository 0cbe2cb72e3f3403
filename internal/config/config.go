package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/yephonekyaw/sit-cert-server/pkg/cache"
	"github.com/yephonekyaw/sit-cert-server/pkg/database"
	"github.com/yephonekyaw/sit-cert-server/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSitCertEnv             = "SITCERT_ENV"
	EnvSitCertShutdownTimeout = "SITCERT_SHUTDOWN_TIMEOUT"
	EnvSitCertVersion         = "SITCERT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "SITCERT_DB_HOST",
	Port:            "SITCERT_DB_PORT",
	Name:            "SITCERT_DB_NAME",
	User:            "SITCERT_DB_USER",
	Password:        "SITCERT_DB_PASSWORD",
	SSLMode:         "SITCERT_DB_SSL_MODE",
	MaxOpenConns:    "SITCERT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SITCERT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SITCERT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SITCERT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "SITCERT_STORAGE_CONTAINER_NAME",
	ConnectionString: "SITCERT_STORAGE_CONNECTION_STRING",
}

var cacheEnv = &cache.Env{
	Addr:     "SITCERT_CACHE_ADDR",
	Password: "SITCERT_CACHE_PASSWORD",
	DB:       "SITCERT_CACHE_DB",
}

// Config is the root configuration for the certificate verification service.
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Database        database.Config    `toml:"database"`
	Storage         storage.Config     `toml:"storage"`
	Cache           cache.Config       `toml:"cache"`
	Broker          BrokerConfig       `toml:"broker"`
	Agent           AgentConfig        `toml:"agent"`
	Issuer          IssuerConfig       `toml:"issuer"`
	Verification    VerificationConfig `toml:"verification"`
	ShutdownTimeout string             `toml:"shutdown_timeout"`
	Version         string             `toml:"version"`
}

// Env returns the SITCERT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSitCertEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.Broker.Merge(&overlay.Broker)
	c.Agent.Merge(&overlay.Agent)
	c.Issuer.Merge(&overlay.Issuer)
	c.Verification.Merge(&overlay.Verification)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Broker.Finalize(); err != nil {
		return fmt.Errorf("broker: %w", err)
	}
	if err := c.Agent.Finalize(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Issuer.Finalize(); err != nil {
		return fmt.Errorf("issuer: %w", err)
	}
	if err := c.Verification.Finalize(); err != nil {
		return fmt.Errorf("verification: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSitCertShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvSitCertVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSitCertEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvBrokerAddrs = "SITCERT_BROKER_ADDRS"
	EnvBrokerTopic = "SITCERT_BROKER_TOPIC"
)

// BrokerConfig holds Kafka connection parameters for notification dispatch.
type BrokerConfig struct {
	Addrs []string `toml:"addrs"`
	Topic string   `toml:"topic"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *BrokerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *BrokerConfig) Merge(overlay *BrokerConfig) {
	if overlay.Addrs != nil {
		c.Addrs = overlay.Addrs
	}
	if overlay.Topic != "" {
		c.Topic = overlay.Topic
	}
}

func (c *BrokerConfig) loadDefaults() {
	if len(c.Addrs) == 0 {
		c.Addrs = []string{"localhost:9092"}
	}
	if c.Topic == "" {
		c.Topic = "notifications"
	}
}

func (c *BrokerConfig) loadEnv() {
	if v := os.Getenv(EnvBrokerAddrs); v != "" {
		addrs := strings.Split(v, ",")
		c.Addrs = make([]string, 0, len(addrs))
		for _, addr := range addrs {
			if trimmed := strings.TrimSpace(addr); trimmed != "" {
				c.Addrs = append(c.Addrs, trimmed)
			}
		}
	}
	if v := os.Getenv(EnvBrokerTopic); v != "" {
		c.Topic = v
	}
}

func (c *BrokerConfig) validate() error {
	if len(c.Addrs) == 0 {
		return fmt.Errorf("addrs required")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic required")
	}
	return nil
}

package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentName         = "SITCERT_AGENT_NAME"
	EnvAgentProviderName = "SITCERT_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "SITCERT_AGENT_BASE_URL"
	EnvAgentToken        = "SITCERT_AGENT_TOKEN"
	EnvAgentAuthType     = "SITCERT_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "SITCERT_AGENT_MODEL_NAME"
)

// AgentConfig holds the inference agent parameters used for structured
// certificate field extraction. Build converts it to a go-agents AgentConfig.
type AgentConfig struct {
	Name     string `toml:"name"`
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
	Token    string `toml:"token"`
	AuthType string `toml:"auth_type"`
}

// Build assembles a go-agents AgentConfig from the finalized values.
func (c *AgentConfig) Build() gaconfig.AgentConfig {
	options := make(map[string]any)
	if c.Token != "" {
		options["token"] = c.Token
	}
	if c.AuthType != "" {
		options["auth_type"] = c.AuthType
	}

	return gaconfig.AgentConfig{
		Name: c.Name,
		Provider: &gaconfig.ProviderConfig{
			Name:    c.Provider,
			BaseURL: c.BaseURL,
			Options: options,
		},
		Model: &gaconfig.ModelConfig{
			Name: c.Model,
		},
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.AuthType != "" {
		c.AuthType = overlay.AuthType
	}
}

func (c *AgentConfig) loadDefaults() {
	if c.Name == "" {
		c.Name = "cert-extractor"
	}
	if c.Provider == "" {
		c.Provider = "ollama"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "llama3.1:8b"
	}
}

func (c *AgentConfig) loadEnv() {
	if v := os.Getenv(EnvAgentName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAgentToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvAgentAuthType); v != "" {
		c.AuthType = v
	}
}

func (c *AgentConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == "" {
		return fmt.Errorf("provider required")
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	return nil
}

package config_test

import (
	"testing"
	"time"

	"github.com/yephonekyaw/sit-cert-server/internal/config"
)

func TestIssuerDefaults(t *testing.T) {
	cfg := config.IssuerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"nav_timeout", cfg.NavTimeout, "45s"},
		{"verify_host", cfg.VerifyHost, "www.citiprogram.org"},
		{"headed", cfg.Headed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}

	if cfg.Configured() {
		t.Error("configured without credentials")
	}
}

func TestIssuerEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvIssuerUsername, "portal-user")
	t.Setenv(config.EnvIssuerPassword, "portal-pass")
	t.Setenv(config.EnvIssuerNavTimeout, "90s")

	cfg := config.IssuerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Configured() {
		t.Error("not configured with credentials set")
	}
	if cfg.NavTimeoutDuration() != 90*time.Second {
		t.Errorf("nav timeout = %v, want 90s", cfg.NavTimeoutDuration())
	}
}

func TestVerificationDefaults(t *testing.T) {
	cfg := config.VerificationConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.RunTimeoutDuration() != 5*time.Minute {
		t.Errorf("run timeout = %v, want 5m", cfg.RunTimeoutDuration())
	}
	if cfg.GuardTTLDuration() != 10*time.Minute {
		t.Errorf("guard ttl = %v, want 10m", cfg.GuardTTLDuration())
	}
	if cfg.ArchivePrefix != "citi-automated-docs" {
		t.Errorf("archive prefix = %q", cfg.ArchivePrefix)
	}
}

func TestVerificationValidate(t *testing.T) {
	cfg := config.VerificationConfig{RunTimeout: "nonsense"}
	if err := cfg.Finalize(); err == nil {
		t.Error("expected error for invalid run_timeout")
	}
}

func TestBrokerDefaults(t *testing.T) {
	cfg := config.BrokerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if len(cfg.Addrs) != 1 || cfg.Addrs[0] != "localhost:9092" {
		t.Errorf("addrs = %v", cfg.Addrs)
	}
	if cfg.Topic != "notifications" {
		t.Errorf("topic = %q", cfg.Topic)
	}
}

func TestBrokerEnvAddrs(t *testing.T) {
	t.Setenv(config.EnvBrokerAddrs, "kafka-1:9092, kafka-2:9092")

	cfg := config.BrokerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if len(cfg.Addrs) != 2 || cfg.Addrs[0] != "kafka-1:9092" || cfg.Addrs[1] != "kafka-2:9092" {
		t.Errorf("addrs = %v", cfg.Addrs)
	}
}

func TestAgentDefaults(t *testing.T) {
	cfg := config.AgentConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	built := cfg.Build()
	if built.Provider == nil || built.Provider.Name != "ollama" {
		t.Errorf("provider = %+v", built.Provider)
	}
	if built.Model == nil || built.Model.Name == "" {
		t.Errorf("model = %+v", built.Model)
	}
}

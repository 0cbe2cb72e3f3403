package api

import (
	"github.com/yephonekyaw/sit-cert-server/internal/config"
	"github.com/yephonekyaw/sit-cert-server/internal/infrastructure"
)

// Runtime extends Infrastructure with the configuration slices the API's
// domain systems consume.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent        config.AgentConfig
	Issuer       config.IssuerConfig
	Broker       config.BrokerConfig
	Verification config.VerificationConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Cache:     infra.Cache,
		},
		Agent:        cfg.Agent,
		Issuer:       cfg.Issuer,
		Broker:       cfg.Broker,
		Verification: cfg.Verification,
	}
}

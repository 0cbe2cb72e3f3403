// Package api assembles the API with all domain systems and route
// registration.
package api

import (
	"net/http"

	"github.com/yephonekyaw/sit-cert-server/internal/config"
	"github.com/yephonekyaw/sit-cert-server/internal/infrastructure"
	"github.com/yephonekyaw/sit-cert-server/pkg/middleware"
)

// New creates the API handler with all domain systems and middleware.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	stack := middleware.New()
	stack.Use(middleware.Logger(runtime.Logger))

	return stack.Apply(mux), nil
}

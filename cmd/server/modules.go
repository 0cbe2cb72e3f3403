package main

import (
	"encoding/json"
	"net/http"

	"github.com/yephonekyaw/sit-cert-server/internal/api"
	"github.com/yephonekyaw/sit-cert-server/internal/config"
	"github.com/yephonekyaw/sit-cert-server/internal/infrastructure"
)

// Modules holds the mounted HTTP surfaces of the service.
type Modules struct {
	API http.Handler
}

// NewModules assembles the API surface from infrastructure and configuration.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiHandler, err := api.New(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiHandler}, nil
}

// Mount attaches the module handlers to the root mux.
func (m *Modules) Mount(mux *http.ServeMux) {
	mux.Handle("/api/", http.StripPrefix("/api", m.API))
}

func buildRouter(infra *infrastructure.Infrastructure) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return mux
}

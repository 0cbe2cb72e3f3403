package api

import (
	"net/http"

	"github.com/yephonekyaw/sit-cert-server/internal/verification"
	"github.com/yephonekyaw/sit-cert-server/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	routes.Register(
		mux,
		verification.NewHandler(domain.Verifier, domain.Submissions, runtime.Logger).Routes(),
	)
}

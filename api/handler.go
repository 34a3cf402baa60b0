package api

import (
	"net/http"

	"github.com/nhc-marketplace/storefront/api/routes"
)

// NewHandler returns the HTTP handler that cmd/storefront wires into its server.
func NewHandler(deps routes.Deps) http.Handler {
	return routes.NewRouter(deps)
}

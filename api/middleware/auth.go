package middleware

import (
	"net/http"

	"github.com/nhc-marketplace/storefront/api/responses"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

// RequireLogin rejects requests whose workspace holds no session token.
func RequireLogin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ws := WorkspaceFromContext(r.Context())
			if ws == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workspace missing from context"))
				return
			}
			if err := ws.Session.RequireLogin(); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/internal/workspace"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

// WorkspaceResolver is satisfied by *workspace.Registry.
type WorkspaceResolver interface {
	Get(ctx context.Context, id string) (*workspace.Workspace, error)
}

type WorkspaceCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Workspace binds the caller's session workspace, issuing a fresh session
// cookie when the request has none or an unusable one.
func Workspace(resolver WorkspaceResolver, cookie WorkspaceCookie, logg *logger.Logger) func(http.Handler) http.Handler {
	name := cookie.Name
	if name == "" {
		name = "sf_session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id := ""
			if c, err := r.Cookie(name); err == nil && workspace.ValidID(c.Value) {
				id = c.Value
			}
			if id == "" {
				id = workspace.NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cookie.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cookie.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ws, err := resolver.Get(ctx, id)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open session workspace"))
				return
			}

			if logg != nil {
				ctx = logg.WithSessionID(ctx, id)
				if role := ws.Session.Role(); role != "" {
					ctx = logg.WithActorRole(ctx, string(role))
				}
			}
			ctx = responses.WithTranslator(ctx, ws.Locale.T)
			ctx = WithWorkspace(ctx, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

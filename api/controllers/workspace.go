package controllers

import (
	"net/http"

	"github.com/nhc-marketplace/storefront/api/middleware"
	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/internal/workspace"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

func currentWorkspace(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*workspace.Workspace, bool) {
	ws := middleware.WorkspaceFromContext(r.Context())
	if ws == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workspace missing from context"))
		return nil, false
	}
	return ws, true
}

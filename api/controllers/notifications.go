package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/internal/notifications"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

// NotificationsDrain hands the pending toasts to the page and forgets them.
// peek=true leaves them queued.
func NotificationsDrain(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		var toasts []notifications.Toast
		if strings.EqualFold(r.URL.Query().Get("peek"), "true") {
			toasts = ws.Notifications.Pending()
		} else {
			toasts = ws.Notifications.Drain()
		}
		if toasts == nil {
			toasts = []notifications.Toast{}
		}
		responses.WriteSuccess(w, toasts)
	}
}

func NotificationsDismiss(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "toastId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid toast id"))
			return
		}
		if !ws.Notifications.Dismiss(id) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "toast not found"))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package controllers

import (
	"net/http"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/api/validators"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

type localeView struct {
	Lang enums.Lang `json:"lang"`
	RTL  bool       `json:"rtl"`
	Dir  string     `json:"dir"`
}

type localePayload struct {
	Lang string `json:"lang" validate:"required"`
}

func LocaleGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newLocaleView(ws.Locale.Lang(), ws.Locale.IsRTL()))
	}
}

// LocaleSwitch changes and persists the session language.
func LocaleSwitch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		var payload localePayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		lang, err := enums.ParseLang(payload.Lang)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported language"))
			return
		}
		if err := ws.Locale.Switch(ctx, lang); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newLocaleView(ws.Locale.Lang(), ws.Locale.IsRTL()))
	}
}

func newLocaleView(lang enums.Lang, rtl bool) localeView {
	dir := "ltr"
	if rtl {
		dir = "rtl"
	}
	return localeView{Lang: lang, RTL: rtl, Dir: dir}
}

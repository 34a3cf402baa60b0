package controllers

import (
	"net/http"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/api/validators"
	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/promocodes"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

type promoToggleView struct {
	ID       int64 `json:"id"`
	IsActive bool  `json:"isActive"`
}

func AdminPromoCodesList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		codes, err := ws.PromoCodes.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if codes == nil {
			codes = []apiclient.PromoCode{}
		}
		responses.WriteSuccess(w, codes)
	}
}

func AdminPromoCodesCreate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		var in promocodes.CreateInput
		if err := validators.DecodeJSONBody(w, r, &in); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		created, err := ws.PromoCodes.Create(ctx, in)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminPromoCodesToggle flips a code between active and inactive.
func AdminPromoCodesToggle(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseIDParam(r, "promoId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		active, err := ws.PromoCodes.Toggle(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, promoToggleView{ID: id, IsActive: active})
	}
}

func AdminPromoCodesDelete(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseIDParam(r, "promoId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := ws.PromoCodes.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package controllers

import (
	"net/http"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/api/validators"
	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

type wishlistView struct {
	Items []apiclient.WishlistItem `json:"items"`
	IDs   []int64                  `json:"ids"`
}

type wishlistToggleView struct {
	ProductID int64 `json:"productId"`
	Saved     bool  `json:"saved"`
}

// WishlistList refreshes and returns the saved products.
func WishlistList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		if err := ws.Wishlist.Load(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		items := ws.Wishlist.Items()
		if items == nil {
			items = []apiclient.WishlistItem{}
		}
		ids := ws.Wishlist.IDs()
		if ids == nil {
			ids = []int64{}
		}
		responses.WriteSuccess(w, wishlistView{Items: items, IDs: ids})
	}
}

func WishlistToggle(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		saved, err := ws.Wishlist.Toggle(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, wishlistToggleView{ProductID: id, Saved: saved})
	}
}

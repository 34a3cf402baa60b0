package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/api/validators"
	"github.com/nhc-marketplace/storefront/internal/cart"
	"github.com/nhc-marketplace/storefront/internal/workspace"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

type addToCartPayload struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type deltaPayload struct {
	Delta int `json:"delta" validate:"required"`
}

type quantityPayload struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type promoPayload struct {
	Code string `json:"code" validate:"max=50"`
}

func CartGet(logg *logger.Logger) http.HandlerFunc {
	return cartAction(logg, nil)
}

// CartLoad replaces local lines with the server cart.
func CartLoad(logg *logger.Logger) http.HandlerFunc {
	return cartAction(logg, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Cart.Load(ctx)
	})
}

func CartAdd(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addToCartPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartAction(logg, func(ctx context.Context, ws *workspace.Workspace) error {
			return ws.AddToCart(ctx, payload.ProductID)
		})(w, r)
	}
}

// CartStep moves a line's quantity by delta. Stepping to zero marks the line
// for removal confirmation instead of deleting it.
func CartStep(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload deltaPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartAction(logg, func(ctx context.Context, ws *workspace.Workspace) error {
			return ws.Cart.UpdateQuantity(ctx, id, payload.Delta)
		})(w, r)
	}
}

func CartSetQuantity(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload quantityPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartAction(logg, func(ctx context.Context, ws *workspace.Workspace) error {
			return ws.Cart.SetQuantity(ctx, id, payload.Quantity)
		})(w, r)
	}
}

func CartRemove(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartAction(logg, func(ctx context.Context, ws *workspace.Workspace) error {
			return ws.Cart.RemoveItem(ctx, id)
		})(w, r)
	}
}

func CartConfirmRemoval(logg *logger.Logger) http.HandlerFunc {
	return cartAction(logg, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Cart.ConfirmRemoval(ctx)
	})
}

func CartCancelRemoval(logg *logger.Logger) http.HandlerFunc {
	return cartAction(logg, func(_ context.Context, ws *workspace.Workspace) error {
		ws.Cart.CancelRemoval()
		return nil
	})
}

func CartClear(logg *logger.Logger) http.HandlerFunc {
	return cartAction(logg, func(ctx context.Context, ws *workspace.Workspace) error {
		return ws.Cart.Clear(ctx)
	})
}

func CartApplyPromo(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload promoPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cartAction(logg, func(ctx context.Context, ws *workspace.Workspace) error {
			return ws.Cart.ApplyPromo(ctx, payload.Code)
		})(w, r)
	}
}

func CartRemovePromo(logg *logger.Logger) http.HandlerFunc {
	return cartAction(logg, func(_ context.Context, ws *workspace.Workspace) error {
		ws.Cart.RemovePromo()
		return nil
	})
}

func cartAction(logg *logger.Logger, action func(context.Context, *workspace.Workspace) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		if action != nil {
			if err := action(ctx, ws); err != nil {
				if errors.Is(err, cart.ErrClosed) {
					err = pkgerrors.Wrap(pkgerrors.CodeConflict, err, "session closed")
				}
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, ws.Cart.Snapshot())
	}
}

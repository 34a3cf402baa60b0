package controllers

import (
	"net/http"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/api/validators"
	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

type placeOrderPayload struct {
	ShippingName    string `json:"shippingName" validate:"max=100"`
	ShippingPhone   string `json:"shippingPhone" validate:"max=30"`
	ShippingAddress string `json:"shippingAddress" validate:"max=300"`
	ShippingCity    string `json:"shippingCity,omitempty" validate:"max=100"`
	ShippingNotes   string `json:"shippingNotes,omitempty" validate:"max=500"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
}

// OrdersPlace checks out the cart. Card payments answer with the checkout URL
// the browser should follow.
func OrdersPlace(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		var payload placeOrderPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		placed, err := ws.Orders.Place(ctx, apiclient.CreateOrder{
			ShippingName:    payload.ShippingName,
			ShippingPhone:   payload.ShippingPhone,
			ShippingAddress: payload.ShippingAddress,
			ShippingCity:    payload.ShippingCity,
			ShippingNotes:   payload.ShippingNotes,
			PaymentMethod:   payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, placed)
	}
}

func OrdersMine(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		list, err := ws.Orders.Mine(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if list == nil {
			list = []apiclient.OrderSummary{}
		}
		responses.WriteSuccess(w, list)
	}
}

func OrdersGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		order, err := ws.Orders.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrdersCancel(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := ws.Orders.Cancel(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

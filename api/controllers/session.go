package controllers

import (
	"net/http"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/api/validators"
	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/workspace"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

type sessionView struct {
	LoggedIn    bool       `json:"loggedIn"`
	Role        enums.Role `json:"role,omitempty"`
	Lang        enums.Lang `json:"lang"`
	RTL         bool       `json:"rtl"`
	CartCount   int        `json:"cartCount"`
	WishlistIDs []int64    `json:"wishlistIds"`
}

func newSessionView(ws *workspace.Workspace) sessionView {
	state := ws.Session.State()
	ids := ws.Wishlist.IDs()
	if ids == nil {
		ids = []int64{}
	}
	return sessionView{
		LoggedIn:    state.LoggedIn,
		Role:        state.Role,
		Lang:        ws.Locale.Lang(),
		RTL:         ws.Locale.IsRTL(),
		CartCount:   ws.Cart.Count(),
		WishlistIDs: ids,
	}
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerPayload struct {
	FullName               string `json:"fullName" validate:"required,max=100"`
	Email                  string `json:"email" validate:"required,email"`
	Password               string `json:"password" validate:"required,min=6"`
	ConfirmPassword        string `json:"confirmPassword" validate:"required,eqfield=Password"`
	PhoneNumber            string `json:"phoneNumber" validate:"required"`
	Role                   string `json:"role" validate:"required"`
	BusinessName           string `json:"businessName,omitempty"`
	CommercialRegistration string `json:"commercialRegistration,omitempty"`
	TaxNumber              string `json:"taxNumber,omitempty"`
	BusinessAddress        string `json:"businessAddress,omitempty"`
}

type tokenPayload struct {
	Token string `json:"token" validate:"required"`
	Role  string `json:"role"`
}

// SessionGet reports the caller's sign-in state, language and badge counts.
func SessionGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, newSessionView(ws))
	}
}

func SessionLogin(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		var payload loginPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := ws.Session.Login(ctx, apiclient.LoginRequest{Email: payload.Email, Password: payload.Password}); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ws.Notifications.Success(ws.Locale.T("welcome_back"))
		responses.WriteSuccess(w, newSessionView(ws))
	}
}

func SessionRegister(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		var payload registerPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := ws.Session.Register(ctx, apiclient.RegisterRequest{
			FullName:               payload.FullName,
			Email:                  payload.Email,
			Password:               payload.Password,
			ConfirmPassword:        payload.ConfirmPassword,
			PhoneNumber:            payload.PhoneNumber,
			Role:                   payload.Role,
			BusinessName:           payload.BusinessName,
			CommercialRegistration: payload.CommercialRegistration,
			TaxNumber:              payload.TaxNumber,
			BusinessAddress:        payload.BusinessAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if result.Token == "" {
			ws.Notifications.Info(ws.Locale.T("registered_pending"))
		} else {
			ws.Notifications.Success(ws.Locale.T("welcome_back"))
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSessionView(ws))
	}
}

// SessionSaveToken stores a token issued out of band, such as by an OAuth redirect.
func SessionSaveToken(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		var payload tokenPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := ws.Session.SaveToken(ctx, payload.Token, payload.Role); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionView(ws))
	}
}

func SessionLogout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		if err := ws.Logout(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionView(ws))
	}
}

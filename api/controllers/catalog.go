package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nhc-marketplace/storefront/api/responses"
	"github.com/nhc-marketplace/storefront/api/validators"
	"github.com/nhc-marketplace/storefront/internal/catalog"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

const maxSearchLength = 200

type searchPayload struct {
	Text      string `json:"text" validate:"max=200"`
	Immediate bool   `json:"immediate"`
}

type idPayload struct {
	ID *int64 `json:"id" validate:"omitempty,gt=0"`
}

type pricePayload struct {
	MinPrice *decimal.Decimal `json:"minPrice"`
	MaxPrice *decimal.Decimal `json:"maxPrice"`
}

type togglePayload struct {
	On bool `json:"on"`
}

type sortPayload struct {
	Sort string `json:"sort" validate:"required"`
}

type pageSizePayload struct {
	PageSize int `json:"pageSize" validate:"required,min=1,max=100"`
}

type pagePayload struct {
	Page int `json:"page" validate:"required,min=1"`
}

// CatalogMount opens the catalog screen, seeding the filter from the page's
// query string.
func CatalogMount(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		screen, err := ws.MountCatalog(ctx, r.URL.Query())
		if err != nil {
			writeCatalogError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, screen.Snapshot(ws.Locale.Lang()))
	}
}

func CatalogGet(logg *logger.Logger) http.HandlerFunc {
	return catalogAction(logg, nil)
}

func CatalogUnmount(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		ws.UnmountCatalog()
		w.WriteHeader(http.StatusNoContent)
	}
}

// CatalogSearch applies search text. Without immediate the text goes through
// the keystroke debouncer and the response reflects the state before it fires.
func CatalogSearch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload searchPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		text := validators.SanitizeString(payload.Text, maxSearchLength)
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			if payload.Immediate {
				return screen.SetSearch(ctx, text)
			}
			screen.SearchInput(text)
			return nil
		})(w, r)
	}
}

func CatalogCategory(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload idPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			return screen.SetCategory(ctx, payload.ID)
		})(w, r)
	}
}

func CatalogBrand(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload idPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			return screen.SetBrand(ctx, payload.ID)
		})(w, r)
	}
}

func CatalogPriceRange(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pricePayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			return screen.SetPriceRange(ctx, payload.MinPrice, payload.MaxPrice)
		})(w, r)
	}
}

func CatalogInStock(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload togglePayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			return screen.SetInStock(ctx, payload.On)
		})(w, r)
	}
}

func CatalogFeatured(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload togglePayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			return screen.SetFeatured(ctx, payload.On)
		})(w, r)
	}
}

func CatalogSort(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sortPayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		opt, err := enums.ParseSortOption(payload.Sort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown sort option"))
			return
		}
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			return screen.SetSort(ctx, opt)
		})(w, r)
	}
}

func CatalogPageSize(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pageSizePayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			return screen.SetPageSize(ctx, payload.PageSize)
		})(w, r)
	}
}

// CatalogGoToPage jumps to a page; pages outside the result set are ignored.
func CatalogGoToPage(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload pagePayload
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
			return screen.GoToPage(ctx, payload.Page)
		})(w, r)
	}
}

func CatalogNextPage(logg *logger.Logger) http.HandlerFunc {
	return catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
		return screen.NextPage(ctx)
	})
}

func CatalogPrevPage(logg *logger.Logger) http.HandlerFunc {
	return catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
		return screen.PrevPage(ctx)
	})
}

func CatalogClearFilters(logg *logger.Logger) http.HandlerFunc {
	return catalogAction(logg, func(ctx context.Context, screen *catalog.Coordinator) error {
		return screen.ClearFilters(ctx)
	})
}

// CatalogToggleCategory opens or closes a root category in the sidebar.
func CatalogToggleCategory(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		catalogAction(logg, nil, func(screen *catalog.Coordinator) { screen.ToggleCategory(id) })(w, r)
	}
}

func CatalogExpandAll(logg *logger.Logger) http.HandlerFunc {
	return catalogAction(logg, nil, func(screen *catalog.Coordinator) { screen.ExpandAll() })
}

// ProductGet loads one product's detail page.
func ProductGet(logg *logger.Logger) http.HandlerFunc {
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
		product, err := ws.Product(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// catalogAction runs action against the mounted screen and answers with its
// snapshot. Local-only tweaks run before the action.
func catalogAction(logg *logger.Logger, action func(context.Context, *catalog.Coordinator) error, local ...func(*catalog.Coordinator)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		screen, err := ws.Catalog()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		for _, fn := range local {
			fn(screen)
		}
		if action != nil {
			if err := action(ctx, screen); err != nil {
				writeCatalogError(ctx, logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, screen.Snapshot(ws.Locale.Lang()))
	}
}

func writeCatalogError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrClosed) {
		err = pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "catalog screen not mounted")
	}
	responses.WriteError(ctx, logg, w, err)
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/categories"
	"github.com/nhc-marketplace/storefront/internal/workspace"
	"github.com/nhc-marketplace/storefront/pkg/config"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/storage"
)

func newTestRegistry(t *testing.T) *workspace.Registry {
	t.Helper()
	cfg := &config.Config{
		API:           config.APIConfig{BaseURL: "http://127.0.0.1:1/api", Timeout: time.Second},
		Storage:       config.StorageConfig{Driver: "memory", KeyPrefix: "NHC_MP_", LanguageKey: "lang"},
		Catalog:       config.CatalogConfig{PageSize: 9},
		Notifications: config.NotificationsConfig{TTL: time.Second, Capacity: 5},
	}
	client, err := apiclient.New(apiclient.Options{Config: cfg.API})
	require.NoError(t, err)
	loader, err := categories.NewLoader(categories.LoaderParams{Source: client})
	require.NoError(t, err)
	reg, err := workspace.NewRegistry(workspace.RegistryParams{Deps: workspace.Deps{
		Config:     cfg,
		Backend:    storage.NewMemory(),
		API:        client,
		Categories: loader,
		Logger:     logger.Nop(),
	}})
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

func TestWorkspaceIssuesCookieOnFirstVisit(t *testing.T) {
	reg := newTestRegistry(t)
	var seen *workspace.Workspace
	handler := Workspace(reg, WorkspaceCookie{Name: "sf_session", MaxAge: time.Hour}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = WorkspaceFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sf_session", cookies[0].Name)
	assert.Equal(t, seen.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.AddCookie(cookies[0])
	var again *workspace.Workspace
	handler = Workspace(reg, WorkspaceCookie{Name: "sf_session"}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		again = WorkspaceFromContext(r.Context())
	}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)

	assert.Same(t, seen, again)
	assert.Empty(t, rec.Result().Cookies())
}

func TestWorkspaceReplacesTamperedCookie(t *testing.T) {
	reg := newTestRegistry(t)
	handler := Workspace(reg, WorkspaceCookie{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: "../../etc"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, workspace.ValidID(cookies[0].Value))
}

func TestRequireLoginAndRole(t *testing.T) {
	reg := newTestRegistry(t)
	ws, err := reg.Get(context.Background(), workspace.NewID())
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	serve := func(h http.Handler) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithWorkspace(req.Context(), ws))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(RequireLogin(nil)(ok)))
	assert.Equal(t, http.StatusUnauthorized, serve(RequireRole(nil, enums.RoleAdmin)(ok)))

	require.NoError(t, ws.Session.SaveToken(context.Background(), "opaque-token", "Customer"))
	assert.Equal(t, http.StatusNoContent, serve(RequireLogin(nil)(ok)))
	assert.Equal(t, http.StatusForbidden, serve(RequireRole(nil, enums.RoleAdmin)(ok)))

	require.NoError(t, ws.Session.SaveToken(context.Background(), "opaque-token", "Admin"))
	assert.Equal(t, http.StatusNoContent, serve(RequireRole(nil, enums.RoleAdmin)(ok)))
}

func TestRequireLoginWithoutWorkspace(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireLogin(nil)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecovererReturnsInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestIDEchoesHeader(t *testing.T) {
	handler := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

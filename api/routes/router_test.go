package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/categories"
	"github.com/nhc-marketplace/storefront/internal/workspace"
	"github.com/nhc-marketplace/storefront/pkg/config"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/storage"
)

func fakeMarketplace(t *testing.T, role string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/Auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","token":"opaque-token","role":"` + role + `"}`))
	})
	mux.HandleFunc("/api/Cart", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[]}}`))
	})
	mux.HandleFunc("/api/Wishlist", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	})
	mux.HandleFunc("/api/Wishlist/7/toggle", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	})
	mux.HandleFunc("/api/PromoCodes", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":4,"code":"SAVE10","type":"Percentage","value":10,"usedCount":0,"isActive":true}]}`))
	})
	mux.HandleFunc("/api/PromoCodes/4", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":4,"code":"SAVE10","type":"Percentage","value":10,"isActive":false}}`))
	})
	mux.HandleFunc("/api/Categories/hierarchy", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"nameEn":"Phones","nameAr":"هواتف","productCount":1}]}`))
	})
	mux.HandleFunc("/api/Brands", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	})
	mux.HandleFunc("/api/Products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":7,"nameEn":"Phone","nameAr":"هاتف","price":100,"stock":3}],"pagination":{"currentPage":1,"pageSize":9,"totalCount":1,"totalPages":1}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	srv    *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T, role string) *harness {
	t.Helper()
	upstream := fakeMarketplace(t, role)
	cfg := &config.Config{
		App:           config.AppConfig{Env: "dev"},
		API:           config.APIConfig{BaseURL: upstream.URL + "/api", Timeout: 2 * time.Second},
		Storage:       config.StorageConfig{Driver: "memory", KeyPrefix: "NHC_MP_", LanguageKey: "lang"},
		Catalog:       config.CatalogConfig{PageSize: 9, SearchDebounce: 10 * time.Millisecond},
		Workspace:     config.WorkspaceConfig{CookieName: "sf_session", CookieMaxAge: time.Hour},
		Notifications: config.NotificationsConfig{TTL: time.Minute, Capacity: 10},
		CORS:          config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	api, err := apiclient.New(apiclient.Options{Config: cfg.API})
	require.NoError(t, err)
	loader, err := categories.NewLoader(categories.LoaderParams{Source: api})
	require.NoError(t, err)
	reg, err := workspace.NewRegistry(workspace.RegistryParams{Deps: workspace.Deps{
		Config:     cfg,
		Backend:    storage.NewMemory(),
		API:        api,
		Categories: loader,
		Logger:     logger.Nop(),
	}})
	require.NoError(t, err)
	t.Cleanup(reg.Close)

	srv := httptest.NewServer(NewRouter(Deps{Config: cfg, Logger: logger.Nop(), Workspaces: reg}))
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{srv: srv, client: &http.Client{Jar: jar}}
}

func (h *harness) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, h.srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var payload map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	}
	return resp.StatusCode, payload
}

func data(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	out, ok := payload["data"].(map[string]any)
	require.True(t, ok, "expected object data, got %v", payload)
	return out
}

func TestHealthLive(t *testing.T) {
	h := newHarness(t, "Customer")
	code, _ := h.do(t, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = h.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestAnonymousSessionAndGates(t *testing.T) {
	h := newHarness(t, "Customer")

	code, payload := h.do(t, http.MethodGet, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, data(t, payload)["loggedIn"])

	code, _ = h.do(t, http.MethodGet, "/api/v1/cart", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = h.do(t, http.MethodGet, "/api/v1/admin/promo-codes", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginUnlocksCartButNotAdmin(t *testing.T) {
	h := newHarness(t, "Customer")

	code, _ := h.do(t, http.MethodPost, "/api/v1/session/login", `{"email":"a@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, payload := h.do(t, http.MethodPost, "/api/v1/session/login", `{"email":"a@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(t, payload)["loggedIn"])
	assert.Equal(t, "Customer", data(t, payload)["role"])

	code, payload = h.do(t, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, data(t, payload)["empty"])

	code, _ = h.do(t, http.MethodGet, "/api/v1/admin/promo-codes", "")
	assert.Equal(t, http.StatusForbidden, code)

	code, payload = h.do(t, http.MethodPost, "/api/v1/session/logout", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, data(t, payload)["loggedIn"])
}

func TestLoginValidatesBody(t *testing.T) {
	h := newHarness(t, "Customer")
	code, payload := h.do(t, http.MethodPost, "/api/v1/session/login", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, code)
	errBody := payload["error"].(map[string]any)
	details := errBody["details"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}

func TestCatalogFlow(t *testing.T) {
	h := newHarness(t, "Customer")

	code, _ := h.do(t, http.MethodGet, "/api/v1/catalog", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, payload := h.do(t, http.MethodPost, "/api/v1/catalog?sortBy=price&sortDesc=false", "")
	require.Equal(t, http.StatusOK, code)
	view := data(t, payload)
	assert.Equal(t, "price-low", view["sort"])
	assert.Len(t, view["items"], 1)
	assert.True(t, strings.Contains(view["shareQuery"].(string), "sortBy=price"))

	code, _ = h.do(t, http.MethodPut, "/api/v1/catalog/sort", `{"sort":"cheapest"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.do(t, http.MethodPut, "/api/v1/catalog/price", `{"minPrice":"50","maxPrice":"10"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, payload = h.do(t, http.MethodDelete, "/api/v1/catalog/filters", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "", data(t, payload)["shareQuery"])

	code, _ = h.do(t, http.MethodDelete, "/api/v1/catalog", "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestLocaleSwitchPersistsDirection(t *testing.T) {
	h := newHarness(t, "Customer")
	code, payload := h.do(t, http.MethodPut, "/api/v1/locale", `{"lang":"ar"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rtl", data(t, payload)["dir"])

	code, _ = h.do(t, http.MethodPut, "/api/v1/locale", `{"lang":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, payload = h.do(t, http.MethodGet, "/api/v1/locale", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ar", data(t, payload)["lang"])
}

func TestNotificationsDrainOnce(t *testing.T) {
	h := newHarness(t, "Customer")
	code, _ := h.do(t, http.MethodPost, "/api/v1/session/login", `{"email":"a@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)

	code, payload := h.do(t, http.MethodGet, "/api/v1/notifications?peek=true", "")
	require.Equal(t, http.StatusOK, code)
	toasts := payload["data"].([]any)
	require.NotEmpty(t, toasts)
	assert.Equal(t, "Welcome back", toasts[0].(map[string]any)["message"])

	code, payload = h.do(t, http.MethodGet, "/api/v1/notifications", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, payload["data"], len(toasts))

	code, payload = h.do(t, http.MethodGet, "/api/v1/notifications", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, payload["data"])

	code, _ = h.do(t, http.MethodDelete, "/api/v1/notifications/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestWishlistToggleConfirmedByServer(t *testing.T) {
	h := newHarness(t, "Customer")
	code, _ := h.do(t, http.MethodPost, "/api/v1/wishlist/7/toggle", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(t, http.MethodPost, "/api/v1/session/login", `{"email":"a@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)

	code, payload := h.do(t, http.MethodPost, "/api/v1/wishlist/7/toggle", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(7), data(t, payload)["productId"])
	assert.Equal(t, true, data(t, payload)["saved"])

	code, _ = h.do(t, http.MethodPost, "/api/v1/wishlist/0/toggle", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminPromoCodes(t *testing.T) {
	h := newHarness(t, "Admin")
	code, _ := h.do(t, http.MethodPost, "/api/v1/session/login", `{"email":"admin@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = h.do(t, http.MethodPost, "/api/v1/admin/promo-codes/4/toggle", "")
	assert.Equal(t, http.StatusNotFound, code, "toggle needs a listed code")

	code, payload := h.do(t, http.MethodGet, "/api/v1/admin/promo-codes", "")
	require.Equal(t, http.StatusOK, code)
	codes := payload["data"].([]any)
	require.Len(t, codes, 1)
	assert.Equal(t, "SAVE10", codes[0].(map[string]any)["code"])

	code, payload = h.do(t, http.MethodPost, "/api/v1/admin/promo-codes/4/toggle", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, data(t, payload)["isActive"])
}

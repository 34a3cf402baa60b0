package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nhc-marketplace/storefront/pkg/config"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Options{Config: config.APIConfig{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second, UserAgent: "storefront-test"}})
	require.NoError(t, err)
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestProductsEncodesQueryAndToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Products", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "phone", q.Get("search"))
		assert.Equal(t, "5", q.Get("categoryId"))
		assert.Equal(t, "99.5", q.Get("minPrice"))
		assert.Equal(t, "price", q.Get("sortBy"))
		assert.Equal(t, "false", q.Get("sortDesc"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "9", q.Get("pageSize"))
		assert.False(t, q.Has("brandId"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "storefront-test", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, `{"success":true,"data":[{"id":7,"nameEn":"Phone","price":120.5,"originalPrice":null,"stock":3}],
			"pagination":{"currentPage":2,"pageSize":9,"totalCount":10,"totalPages":2,"hasPrevious":true,"hasNext":false}}`)
	}).WithToken(func(context.Context) string { return "tok" })

	cat := int64(5)
	minPrice := decimal.RequireFromString("99.5")
	desc := false
	page, err := client.Products(context.Background(), ProductQuery{
		Search:     "phone",
		CategoryID: &cat,
		MinPrice:   &minPrice,
		SortBy:     "price",
		SortDesc:   &desc,
		Page:       2,
		PageSize:   9,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(7), page.Items[0].ID)
	assert.True(t, page.Items[0].Price.Equal(decimal.RequireFromString("120.5")))
	assert.False(t, page.Items[0].OriginalPrice.Valid)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasPrevious)
}

func TestAnonymousClientSendsNoAuthorization(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})
	categories, err := client.CategoryHierarchy(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestBusinessFailureKeepsServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Only 2 left in stock","data":null}`)
	})
	_, err := client.UpdateCartItem(context.Background(), 9, 3)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeBusiness, typed.Code())
	assert.Equal(t, "Only 2 left in stock", typed.Message())
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusInternalServerError, pkgerrors.CodeTransport},
		{http.StatusBadRequest, pkgerrors.CodeTransport},
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusForbidden, pkgerrors.CodeForbidden},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
	}
	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = io.WriteString(w, `{"message":"nope"}`)
		})
		_, err := client.Cart(context.Background())
		require.Error(t, err)
		assert.Equal(t, tt.code, pkgerrors.CodeOf(err), "status %d", tt.status)
	}
}

func TestNetworkFailureIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client, err := New(Options{Config: config.APIConfig{BaseURL: srv.URL}})
	require.NoError(t, err)

	_, err = client.Cart(context.Background())
	assert.Equal(t, pkgerrors.CodeTransport, pkgerrors.CodeOf(err))
}

func TestUpdateCartItemSendsBareQuantity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/Cart/42", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "4", string(body))
		_, _ = io.WriteString(w, `{"success":true,"data":{"items":[{"productId":42,"quantity":4,"stock":5,"price":10}]}}`)
	})
	items, err := client.UpdateCartItem(context.Background(), 42, 4)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestValidatePromoSendsNumericAmount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/PromoCodes/validate", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SAVE10", body["code"])
		assert.Equal(t, float64(500), body["orderAmount"])
		_, _ = io.WriteString(w, `{"success":true,"data":{"isValid":true,"discountAmount":50,"discountType":"Percentage","discountValue":10}}`)
	})
	res, err := client.ValidatePromo(context.Background(), "SAVE10", decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.True(t, res.DiscountAmount.Equal(decimal.NewFromInt(50)))
}

func TestLoginRejectedCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
	assert.Equal(t, pkgerrors.CodeBusiness, pkgerrors.CodeOf(err))
}

func TestLoginSuccessFalse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Account pending approval"}`)
	})
	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "Account pending approval", pkgerrors.As(err).Message())
}

func TestPlaceOrderReturnsCheckoutURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":3,"orderNumber":"ORD-3","status":0},"checkoutUrl":"https://pay.example/x"}`)
	})
	placed, err := client.PlaceOrder(context.Background(), CreateOrder{ShippingName: "n", ShippingPhone: "p", ShippingAddress: "a"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-3", placed.Order.OrderNumber)
	assert.Equal(t, "https://pay.example/x", placed.CheckoutURL)
}

func TestCreatePromoCodeWireFormat(t *testing.T) {
	payload := CreatePromoCode{Code: "SAVE10", Type: 0, Value: decimal.NewFromInt(10), MinOrderAmount: decimal.NewNullDecimal(decimal.NewFromInt(100))}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"SAVE10","type":0,"value":10,"minOrderAmount":100}`, string(raw))
}

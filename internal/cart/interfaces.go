package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
)

// API is the cart and promo slice of the marketplace client.
type API interface {
	Cart(ctx context.Context) ([]apiclient.CartItem, error)
	AddToCart(ctx context.Context, productID int64, quantity int) ([]apiclient.CartItem, error)
	UpdateCartItem(ctx context.Context, productID int64, quantity int) ([]apiclient.CartItem, error)
	RemoveCartItem(ctx context.Context, productID int64) error
	ClearCart(ctx context.Context) error
	ValidatePromo(ctx context.Context, code string, orderAmount decimal.Decimal) (apiclient.PromoValidation, error)
}

// Gate reports whether the workspace is signed in.
type Gate interface {
	IsLoggedIn() bool
}

type Notifier interface {
	Notify(kind enums.NotificationKind, message string)
}

type Translator interface {
	T(key string) string
}

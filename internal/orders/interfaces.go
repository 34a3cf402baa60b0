package orders

import (
	"context"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
)

// API is the orders slice of the marketplace client.
type API interface {
	PlaceOrder(ctx context.Context, req apiclient.CreateOrder) (apiclient.PlacedOrder, error)
	MyOrders(ctx context.Context) ([]apiclient.OrderSummary, error)
	Order(ctx context.Context, id int64) (apiclient.Order, error)
	CancelOrder(ctx context.Context, id int64) error
}

type Gate interface {
	IsLoggedIn() bool
}

// Cart is what checkout needs from the workspace cart.
type Cart interface {
	Count() int
	Load(ctx context.Context) error
}

type Notifier interface {
	Notify(kind enums.NotificationKind, message string)
}

type Translator interface {
	T(key string) string
}

package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PlaceOrder turns the current cart into an order.
func (c *Client) PlaceOrder(ctx context.Context, req CreateOrder) (PlacedOrder, error) {
	var env struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		Data        Order  `json:"data"`
		CheckoutURL string `json:"checkoutUrl"`
	}
	if err := c.do(ctx, "orders.place", http.MethodPost, "/Orders", nil, req, &env); err != nil {
		return PlacedOrder{}, err
	}
	if !env.Success {
		return PlacedOrder{}, c.business(ctx, "orders.place", env.Message)
	}
	return PlacedOrder{Order: env.Data, CheckoutURL: env.CheckoutURL}, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]OrderSummary, error) {
	orders, err := call[[]OrderSummary](ctx, c, "orders.mine", http.MethodGet, "/Orders/my-orders", nil, nil)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []OrderSummary{}
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, id int64) (Order, error) {
	return call[Order](ctx, c, "orders.get", http.MethodGet, fmt.Sprintf("/Orders/%d", id), nil, nil)
}

func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	_, err := call[json.RawMessage](ctx, c, "orders.cancel", http.MethodPost, fmt.Sprintf("/Orders/%d/cancel", id), nil, struct{}{})
	return err
}

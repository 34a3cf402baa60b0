package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Cart returns the signed-in user's cart lines.
func (c *Client) Cart(ctx context.Context) ([]CartItem, error) {
	payload, err := call[cartPayload](ctx, c, "cart.get", http.MethodGet, "/Cart", nil, nil)
	return itemsOrEmpty(payload.Items), err
}

// AddToCart adds quantity units of a product and returns the resulting cart.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) ([]CartItem, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	payload, err := call[cartPayload](ctx, c, "cart.add", http.MethodPost, "/Cart", nil, body)
	return itemsOrEmpty(payload.Items), err
}

// UpdateCartItem sets the quantity of a line. The body is the bare quantity.
func (c *Client) UpdateCartItem(ctx context.Context, productID int64, quantity int) ([]CartItem, error) {
	payload, err := call[cartPayload](ctx, c, "cart.update", http.MethodPut, fmt.Sprintf("/Cart/%d", productID), nil, quantity)
	return itemsOrEmpty(payload.Items), err
}

// RemoveCartItem deletes one line.
func (c *Client) RemoveCartItem(ctx context.Context, productID int64) error {
	_, err := call[json.RawMessage](ctx, c, "cart.remove", http.MethodDelete, fmt.Sprintf("/Cart/%d", productID), nil, nil)
	return err
}

// ClearCart deletes every line.
func (c *Client) ClearCart(ctx context.Context) error {
	_, err := call[json.RawMessage](ctx, c, "cart.clear", http.MethodDelete, "/Cart", nil, nil)
	return err
}

func itemsOrEmpty(items []CartItem) []CartItem {
	if items == nil {
		return []CartItem{}
	}
	return items
}

package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Wishlist returns the signed-in user's saved products.
func (c *Client) Wishlist(ctx context.Context) ([]WishlistItem, error) {
	items, err := call[[]WishlistItem](ctx, c, "wishlist.list", http.MethodGet, "/Wishlist", nil, nil)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []WishlistItem{}
	}
	return items, nil
}

// ToggleWishlist adds the product when absent and removes it otherwise.
func (c *Client) ToggleWishlist(ctx context.Context, productID int64) error {
	_, err := call[json.RawMessage](ctx, c, "wishlist.toggle", http.MethodPost, fmt.Sprintf("/Wishlist/%d/toggle", productID), nil, struct{}{})
	return err
}

package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ValidatePromo asks the server to price a promo code against the order amount.
func (c *Client) ValidatePromo(ctx context.Context, code string, orderAmount decimal.Decimal) (PromoValidation, error) {
	body := struct {
		Code        string      `json:"code"`
		OrderAmount json.Number `json:"orderAmount"`
	}{Code: code, OrderAmount: number(orderAmount)}
	return call[PromoValidation](ctx, c, "promocodes.validate", http.MethodPost, "/PromoCodes/validate", nil, body)
}

func (c *Client) PromoCodes(ctx context.Context) ([]PromoCode, error) {
	codes, err := call[[]PromoCode](ctx, c, "promocodes.list", http.MethodGet, "/PromoCodes", nil, nil)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []PromoCode{}
	}
	return codes, nil
}

func (c *Client) CreatePromoCode(ctx context.Context, req CreatePromoCode) (PromoCode, error) {
	return call[PromoCode](ctx, c, "promocodes.create", http.MethodPost, "/PromoCodes", nil, req)
}

func (c *Client) UpdatePromoCode(ctx context.Context, id int64, req UpdatePromoCode) (PromoCode, error) {
	return call[PromoCode](ctx, c, "promocodes.update", http.MethodPut, fmt.Sprintf("/PromoCodes/%d", id), nil, req)
}

func (c *Client) DeletePromoCode(ctx context.Context, id int64) error {
	_, err := call[json.RawMessage](ctx, c, "promocodes.delete", http.MethodDelete, fmt.Sprintf("/PromoCodes/%d", id), nil, nil)
	return err
}

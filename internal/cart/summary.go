package cart

import (
	"github.com/shopspring/decimal"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
)

// ShippingPolicy is the display-side shipping rule. The server recomputes at checkout.
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	Fee           decimal.Decimal
}

func DefaultPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: decimal.NewFromInt(200),
		Fee:           decimal.NewFromInt(25),
	}
}

// Promo is a server-validated promo code. DiscountAmount is applied verbatim.
type Promo struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DiscountType   string          `json:"discountType,omitempty"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
}

type Summary struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Shipping     decimal.Decimal `json:"shipping"`
	PromoAmount  decimal.Decimal `json:"promoAmount"`
	Total        decimal.Decimal `json:"total"`
	FreeShipping bool            `json:"freeShipping"`
	// UntilFreeShipping is how much more would waive the fee; zero once waived.
	UntilFreeShipping decimal.Decimal `json:"untilFreeShipping"`
	Lines             int             `json:"lines"`
	Units             int             `json:"units"`
}

// CalculateSummary derives the cart totals. It has no side effects, so calling
// it twice on the same input yields the same summary.
func CalculateSummary(items []apiclient.CartItem, promo *Promo, policy ShippingPolicy) Summary {
	subtotal := decimal.Zero
	discount := decimal.Zero
	units := 0
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(item.Price.Mul(qty))
		if item.OriginalPrice.Valid && item.OriginalPrice.Decimal.GreaterThan(item.Price) {
			discount = discount.Add(item.OriginalPrice.Decimal.Sub(item.Price).Mul(qty))
		}
		units += item.Quantity
	}

	s := Summary{
		Subtotal:          subtotal,
		Discount:          discount,
		Shipping:          policy.Fee,
		PromoAmount:       decimal.Zero,
		UntilFreeShipping: policy.FreeThreshold.Sub(subtotal),
		Lines:             len(items),
		Units:             units,
	}
	if subtotal.GreaterThanOrEqual(policy.FreeThreshold) {
		s.Shipping = decimal.Zero
		s.FreeShipping = true
		s.UntilFreeShipping = decimal.Zero
	}
	if promo != nil {
		s.PromoAmount = promo.DiscountAmount
	}
	s.Total = subtotal.Add(s.Shipping).Sub(s.PromoAmount)
	return s
}

// DiscountPercentage is the rounded markdown of a line, or 0 when not discounted.
func DiscountPercentage(item apiclient.CartItem) int64 {
	if !item.OriginalPrice.Valid || !item.OriginalPrice.Decimal.GreaterThan(item.Price) {
		return 0
	}
	ratio := item.Price.Div(item.OriginalPrice.Decimal)
	return decimal.NewFromInt(1).Sub(ratio).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nhc-marketplace/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// ProductQuery is the product search sent to GET /Products. Nil fields are omitted.
type ProductQuery struct {
	Search     string
	CategoryID *int64
	BrandID    *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	IsFeatured *bool
	SortBy     string
	SortDesc   *bool
	Page       int
	PageSize   int
	Status     *int
}

// Values encodes the query the way the marketplace expects it.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != nil && *q.CategoryID != 0 {
		v.Set("categoryId", strconv.FormatInt(*q.CategoryID, 10))
	}
	if q.BrandID != nil && *q.BrandID != 0 {
		v.Set("brandId", strconv.FormatInt(*q.BrandID, 10))
	}
	if q.MinPrice != nil {
		v.Set("minPrice", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", q.MaxPrice.String())
	}
	if q.InStock != nil {
		v.Set("inStock", strconv.FormatBool(*q.InStock))
	}
	if q.IsFeatured != nil {
		v.Set("isFeatured", strconv.FormatBool(*q.IsFeatured))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDesc != nil {
		v.Set("sortDesc", strconv.FormatBool(*q.SortDesc))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Status != nil {
		v.Set("status", strconv.Itoa(*q.Status))
	}
	return v
}

// CategoryHierarchy loads the full parent/child category tree.
func (c *Client) CategoryHierarchy(ctx context.Context) ([]Category, error) {
	categories, err := call[[]Category](ctx, c, "categories.hierarchy", http.MethodGet, "/Categories/hierarchy", nil, nil)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

// Brands lists brands, optionally filtered by active flag.
func (c *Client) Brands(ctx context.Context, active *bool) ([]Brand, error) {
	var query url.Values
	if active != nil {
		query = url.Values{"isActive": []string{strconv.FormatBool(*active)}}
	}
	brands, err := call[[]Brand](ctx, c, "brands.list", http.MethodGet, "/Brands", query, nil)
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []Brand{}
	}
	return brands, nil
}

// Products runs a paged product search.
func (c *Client) Products(ctx context.Context, q ProductQuery) (types.Page[ProductSummary], error) {
	return callPaged[ProductSummary](ctx, c, "products.search", "/Products", q.Values())
}

// Product loads one product's detail.
func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	return call[Product](ctx, c, "products.get", http.MethodGet, fmt.Sprintf("/Products/%d", id), nil, nil)
}

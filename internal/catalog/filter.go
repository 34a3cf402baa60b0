package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/nhc-marketplace/storefront/pkg/pagination"
)

// Query string keys of the shareable catalog URL.
const (
	paramSearch     = "search"
	paramCategory   = "category"
	paramCategoryID = "categoryId"
	paramBrand      = "brand"
	paramBrandID    = "brandId"
	paramMinPrice   = "minPrice"
	paramMaxPrice   = "maxPrice"
	paramInStock    = "inStock"
	paramFeatured   = "featured"
	paramIsFeatured = "isFeatured"
	paramSortBy     = "sortBy"
	paramSortDesc   = "sortDesc"
	paramSort       = "sort"
	paramPageSize   = "pageSize"
	paramStatus     = "status"
	paramPage       = "page"
)

// Filter is the product search of one catalog screen. Pointer fields are unset
// when nil. Pointees are never mutated in place; setters replace the pointer.
type Filter struct {
	Search     string           `json:"search,omitempty"`
	CategoryID *int64           `json:"categoryId,omitempty"`
	BrandID    *int64           `json:"brandId,omitempty"`
	MinPrice   *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice   *decimal.Decimal `json:"maxPrice,omitempty"`
	InStock    *bool            `json:"inStock,omitempty"`
	IsFeatured *bool            `json:"isFeatured,omitempty"`
	SortBy     string           `json:"sortBy"`
	SortDesc   bool             `json:"sortDesc"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	Status     *int             `json:"status,omitempty"`
}

// DefaultFilter is used both on first mount and by ClearFilters.
func DefaultFilter(pageSize int) Filter {
	by, desc := enums.SortNewest.Pair()
	return Filter{
		SortBy:   by,
		SortDesc: desc,
		Page:     1,
		PageSize: pagination.NormalizePageSize(pageSize),
	}
}

// Sort maps the sort pair back to the option shown in the dropdown.
func (f Filter) Sort() enums.SortOption {
	return enums.SortOptionFor(f.SortBy, f.SortDesc)
}

// ActiveCount counts the filters shown as chips: category, brand, price range
// (min or max) and in-stock.
func (f Filter) ActiveCount() int {
	count := 0
	if f.CategoryID != nil {
		count++
	}
	if f.BrandID != nil {
		count++
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		count++
	}
	if f.InStock != nil && *f.InStock {
		count++
	}
	return count
}

// Query converts the filter into the remote product search.
func (f Filter) Query() apiclient.ProductQuery {
	desc := f.SortDesc
	return apiclient.ProductQuery{
		Search:     strings.TrimSpace(f.Search),
		CategoryID: f.CategoryID,
		BrandID:    f.BrandID,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		InStock:    f.InStock,
		IsFeatured: f.IsFeatured,
		SortBy:     f.SortBy,
		SortDesc:   &desc,
		Page:       pagination.NormalizePage(f.Page),
		PageSize:   pagination.NormalizePageSize(f.PageSize),
		Status:     f.Status,
	}
}

// ShareQuery encodes the fields that differ from defaults. The page is never shared.
func (f Filter) ShareQuery(defaults Filter) url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set(paramSearch, f.Search)
	}
	if f.CategoryID != nil {
		v.Set(paramCategory, strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.BrandID != nil {
		v.Set(paramBrand, strconv.FormatInt(*f.BrandID, 10))
	}
	if f.MinPrice != nil {
		v.Set(paramMinPrice, f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		v.Set(paramMaxPrice, f.MaxPrice.String())
	}
	if f.InStock != nil && *f.InStock {
		v.Set(paramInStock, "true")
	}
	if f.IsFeatured != nil && *f.IsFeatured {
		v.Set(paramFeatured, "true")
	}
	if f.SortBy != defaults.SortBy {
		v.Set(paramSortBy, f.SortBy)
	}
	if f.SortDesc != defaults.SortDesc {
		v.Set(paramSortDesc, strconv.FormatBool(f.SortDesc))
	}
	if f.PageSize != defaults.PageSize {
		v.Set(paramPageSize, strconv.Itoa(f.PageSize))
	}
	if f.Status != nil {
		v.Set(paramStatus, strconv.Itoa(*f.Status))
	}
	return v
}

// ParseQuery seeds a filter from a URL query. Unknown or malformed values are
// ignored. Both the short (category, brand) and the long (categoryId, brandId)
// spellings are accepted; the short one wins.
func ParseQuery(v url.Values, defaults Filter) Filter {
	f := defaults
	f.Page = 1
	f.Search = v.Get(paramSearch)
	f.CategoryID = firstID(v, paramCategory, paramCategoryID)
	f.BrandID = firstID(v, paramBrand, paramBrandID)
	f.MinPrice = parseAmount(v.Get(paramMinPrice))
	f.MaxPrice = parseAmount(v.Get(paramMaxPrice))
	f.InStock = parseTrue(v.Get(paramInStock))
	f.IsFeatured = parseTrue(v.Get(paramFeatured))
	if f.IsFeatured == nil {
		f.IsFeatured = parseTrue(v.Get(paramIsFeatured))
	}

	if raw := v.Get(paramSort); raw != "" {
		if opt, err := enums.ParseSortOption(raw); err == nil {
			f.SortBy, f.SortDesc = opt.Pair()
		}
	}
	if raw := v.Get(paramSortBy); raw != "" {
		f.SortBy = raw
	}
	if raw := v.Get(paramSortDesc); raw != "" {
		if desc, err := strconv.ParseBool(raw); err == nil {
			f.SortDesc = desc
		}
	}
	if n, err := strconv.Atoi(v.Get(paramPageSize)); err == nil {
		f.PageSize = pagination.NormalizePageSize(n)
	}
	if n, err := strconv.Atoi(v.Get(paramStatus)); err == nil {
		f.Status = &n
	}
	return f
}

func firstID(v url.Values, keys ...string) *int64 {
	for _, key := range keys {
		id, err := strconv.ParseInt(v.Get(key), 10, 64)
		if err == nil && id > 0 {
			return &id
		}
	}
	return nil
}

func parseAmount(raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil
	}
	return &d
}

func parseTrue(raw string) *bool {
	if ok, err := strconv.ParseBool(raw); err == nil && ok {
		return &ok
	}
	return nil
}

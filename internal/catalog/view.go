package catalog

import (
	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/categories"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/nhc-marketplace/storefront/pkg/pagination"
	"github.com/nhc-marketplace/storefront/pkg/types"
)

// View is the JSON shape of the catalog screen.
type View struct {
	Filter         Filter                     `json:"filter"`
	Sort           enums.SortOption           `json:"sort"`
	SortOptions    []enums.SortOption         `json:"sortOptions"`
	Loading        bool                       `json:"loading"`
	Items          []apiclient.ProductSummary `json:"items"`
	Pagination     types.Pagination           `json:"pagination"`
	PageWindow     []int                      `json:"pageWindow"`
	ActiveFilters  int                        `json:"activeFilters"`
	ShareQuery     string                     `json:"shareQuery"`
	ScrollTop      bool                       `json:"scrollTop"`
	Brands         []apiclient.Brand          `json:"brands"`
	Categories     []apiclient.Category       `json:"categories"`
	FlatCategories []categories.FlatCategory  `json:"flatCategories"`
	Expanded       []int64                    `json:"expanded"`
	Selected       *categories.Selection      `json:"selected,omitempty"`
}

// Snapshot copies the current state, naming categories in lang.
func (c *Coordinator) Snapshot(lang enums.Lang) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Filter:         c.filter,
		Sort:           c.filter.Sort(),
		SortOptions:    enums.SortOptions(),
		Loading:        c.loading,
		Items:          append(make([]apiclient.ProductSummary, 0, len(c.items)), c.items...),
		Pagination:     c.page,
		PageWindow:     pagination.Window(c.page.CurrentPage, c.page.TotalPages),
		ActiveFilters:  c.filter.ActiveCount(),
		ShareQuery:     c.filter.ShareQuery(c.defaults).Encode(),
		ScrollTop:      c.scrollTop,
		Brands:         append(make([]apiclient.Brand, 0, len(c.brands)), c.brands...),
		Categories:     c.hierarchy.Roots(),
		FlatCategories: c.hierarchy.Flatten(lang),
		Expanded:       c.expansion.IDs(),
	}
	if c.filter.CategoryID != nil {
		if sel, ok := c.hierarchy.Selected(*c.filter.CategoryID, lang); ok {
			v.Selected = &sel
		}
	}
	return v
}

package catalog

import (
	"context"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/categories"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/nhc-marketplace/storefront/pkg/types"
)

// ProductSource is the part of the marketplace API the catalog screen reads.
type ProductSource interface {
	Products(ctx context.Context, q apiclient.ProductQuery) (types.Page[apiclient.ProductSummary], error)
	Brands(ctx context.Context, active *bool) ([]apiclient.Brand, error)
}

// HierarchyLoader yields the category tree; *categories.Loader satisfies it.
type HierarchyLoader interface {
	Load(ctx context.Context) (*categories.Hierarchy, error)
}

type Notifier interface {
	Notify(kind enums.NotificationKind, message string)
}

type Translator interface {
	T(key string) string
}

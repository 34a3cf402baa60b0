package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/categories"
	"github.com/nhc-marketplace/storefront/pkg/debounce"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
	"github.com/nhc-marketplace/storefront/pkg/metrics"
	"github.com/nhc-marketplace/storefront/pkg/pagination"
	"github.com/nhc-marketplace/storefront/pkg/types"
)

const metricsName = "catalog"

// ErrClosed is returned by operations on a coordinator whose screen was unmounted.
var ErrClosed = errors.New("catalog coordinator closed")

type Params struct {
	Products       ProductSource
	Categories     HierarchyLoader
	PageSize       int
	SearchDebounce time.Duration
	Notifier       Notifier
	Translator     Translator
	Metrics        *metrics.CoordinatorMetrics
	Logger         *logger.Logger
}

// Coordinator owns the filter, results and pagination of one catalog screen.
// Every fetch carries a generation number; only the latest generation may
// write results. The mutex is never held across a network call.
type Coordinator struct {
	products   ProductSource
	categories HierarchyLoader
	notifier   Notifier
	translator Translator
	metrics    *metrics.CoordinatorMetrics
	logg       *logger.Logger
	search     *debounce.Debouncer[string]

	life   context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	closed    bool
	gen       uint64
	defaults  Filter
	filter    Filter
	loading   bool
	scrollTop bool
	items     []apiclient.ProductSummary
	page      types.Pagination
	brands    []apiclient.Brand
	hierarchy *categories.Hierarchy
	expansion *categories.Expansion
}

func New(params Params) (*Coordinator, error) {
	if params.Products == nil {
		return nil, errors.New("product source required")
	}
	if params.Categories == nil {
		return nil, errors.New("category loader required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	defaults := DefaultFilter(params.PageSize)
	life, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		products:   params.Products,
		categories: params.Categories,
		notifier:   params.Notifier,
		translator: params.Translator,
		metrics:    params.Metrics,
		logg:       logg,
		life:       life,
		cancel:     cancel,
		defaults:   defaults,
		filter:     defaults,
		items:      []apiclient.ProductSummary{},
		brands:     []apiclient.Brand{},
		hierarchy:  categories.NewHierarchy(nil),
		expansion:  categories.NewExpansion(),
	}
	c.search = debounce.New(params.SearchDebounce, "", func(text string) {
		if err := c.SetSearch(c.life, text); err != nil && !errors.Is(err, ErrClosed) {
			c.logg.Warn(c.life, "catalog: debounced search failed: "+err.Error())
		}
	})
	return c, nil
}

// Mount loads brands and the category tree in parallel, seeds the filter from
// the URL query, opens the selected category's parent, and only then fetches
// the first page.
func (c *Coordinator) Mount(ctx context.Context, query url.Values) error {
	var (
		brands    []apiclient.Brand
		hierarchy *categories.Hierarchy
	)
	active := true
	loadCtx, release := c.bind(ctx)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		brands, err = c.products.Brands(loadCtx, &active)
		return err
	})
	g.Go(func() error {
		var err error
		hierarchy, err = c.categories.Load(loadCtx)
		return err
	})
	err := g.Wait()
	release()
	if err != nil {
		c.logg.Warn(ctx, "catalog: mount lookups failed: "+err.Error())
		c.notify(enums.NotificationError, "error_loading_categories")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if brands != nil {
		c.brands = brands
	}
	if hierarchy != nil {
		c.hierarchy = hierarchy
	}
	c.filter = ParseQuery(query, c.defaults)
	c.expansion.Clear()
	if c.filter.CategoryID != nil {
		c.expansion.ExpandAncestorsOf(c.hierarchy, *c.filter.CategoryID)
	}
	c.scrollTop = false
	search := c.filter.Search
	c.mu.Unlock()

	c.search.Reset(search)
	return c.fetch(ctx)
}

// Update applies mutate, resets the page to 1 and refetches.
func (c *Coordinator) Update(ctx context.Context, mutate func(*Filter)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	next := c.filter
	mutate(&next)
	next.InStock = trueOrNil(next.InStock != nil && *next.InStock)
	next.IsFeatured = trueOrNil(next.IsFeatured != nil && *next.IsFeatured)
	next.Page = 1
	next.PageSize = pagination.NormalizePageSize(next.PageSize)
	c.filter = next
	c.scrollTop = false
	c.mu.Unlock()
	return c.fetch(ctx)
}

func (c *Coordinator) SetSearch(ctx context.Context, text string) error {
	c.search.Reset(text)
	return c.Update(ctx, func(f *Filter) { f.Search = text })
}

// SearchInput feeds raw keystrokes; the search is applied once input settles
// and only when it differs from the last applied text.
func (c *Coordinator) SearchInput(text string) {
	c.search.Push(text)
}

// SetCategory selects a category, or clears it when id is nil. Selecting a root
// with children opens it in the sidebar.
func (c *Coordinator) SetCategory(ctx context.Context, id *int64) error {
	c.mu.Lock()
	if id != nil {
		if cat, ok := c.hierarchy.Find(*id); ok && categories.HasChildren(cat) {
			c.expansion.Add(cat.ID)
		}
	}
	c.mu.Unlock()
	return c.Update(ctx, func(f *Filter) { f.CategoryID = positive(id) })
}

func (c *Coordinator) SetBrand(ctx context.Context, id *int64) error {
	return c.Update(ctx, func(f *Filter) { f.BrandID = positive(id) })
}

// SetPriceRange sets either bound; nil clears it.
func (c *Coordinator) SetPriceRange(ctx context.Context, min, max *decimal.Decimal) error {
	if (min != nil && min.IsNegative()) || (max != nil && max.IsNegative()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price bounds must not be negative")
	}
	if min != nil && max != nil && min.GreaterThan(*max) {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum price exceeds maximum price")
	}
	return c.Update(ctx, func(f *Filter) {
		f.MinPrice = min
		f.MaxPrice = max
	})
}

// SetInStock filters to in-stock products; false removes the filter.
func (c *Coordinator) SetInStock(ctx context.Context, on bool) error {
	return c.Update(ctx, func(f *Filter) { f.InStock = trueOrNil(on) })
}

func (c *Coordinator) SetFeatured(ctx context.Context, on bool) error {
	return c.Update(ctx, func(f *Filter) { f.IsFeatured = trueOrNil(on) })
}

func (c *Coordinator) SetSort(ctx context.Context, opt enums.SortOption) error {
	if !opt.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sort option %q", opt))
	}
	return c.Update(ctx, func(f *Filter) { f.SortBy, f.SortDesc = opt.Pair() })
}

func (c *Coordinator) SetPageSize(ctx context.Context, size int) error {
	return c.Update(ctx, func(f *Filter) { f.PageSize = size })
}

// GoToPage is a no-op outside 1..TotalPages. A failed fetch keeps the
// previous page selected.
func (c *Coordinator) GoToPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !pagination.InRange(page, c.page.TotalPages) {
		c.mu.Unlock()
		return nil
	}
	prev := c.filter.Page
	c.filter.Page = page
	c.scrollTop = true
	c.mu.Unlock()

	err := c.fetch(ctx)
	if err != nil && !errors.Is(err, ErrClosed) {
		c.mu.Lock()
		if c.filter.Page == page {
			c.filter.Page = prev
			c.scrollTop = false
		}
		c.mu.Unlock()
	}
	return err
}

func (c *Coordinator) NextPage(ctx context.Context) error {
	c.mu.Lock()
	hasNext, current := c.page.HasNext, c.page.CurrentPage
	c.mu.Unlock()
	if !hasNext {
		return nil
	}
	return c.GoToPage(ctx, current+1)
}

func (c *Coordinator) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	hasPrev, current := c.page.HasPrevious, c.page.CurrentPage
	c.mu.Unlock()
	if !hasPrev {
		return nil
	}
	return c.GoToPage(ctx, current-1)
}

// ClearFilters restores the default filter, empties the share query and
// collapses the sidebar.
func (c *Coordinator) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.filter = c.defaults
	c.expansion.Clear()
	c.scrollTop = false
	c.mu.Unlock()
	c.search.Reset("")
	return c.fetch(ctx)
}

// ToggleCategory opens or closes a root in the sidebar.
func (c *Coordinator) ToggleCategory(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expansion.Toggle(id)
}

func (c *Coordinator) ExpandAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expansion.ExpandAll(c.hierarchy)
}

func (c *Coordinator) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// fetch requests the current filter. Completions from a superseded generation
// or after Close are dropped.
func (c *Coordinator) fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.gen++
	gen := c.gen
	query := c.filter.Query()
	c.loading = true
	c.mu.Unlock()

	reqCtx, release := c.bind(ctx)
	page, err := c.products.Products(reqCtx, query)
	release()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if gen != c.gen {
		c.mu.Unlock()
		c.metrics.IncStaleDiscard(metricsName)
		c.logg.Debug(c.logg.WithField(ctx, "generation", gen), "catalog: discarded superseded response")
		return nil
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		c.logg.Warn(ctx, "catalog: product fetch failed: "+err.Error())
		c.notify(enums.NotificationError, "error_loading_products")
		return err
	}
	if page.Items == nil {
		page.Items = []apiclient.ProductSummary{}
	}
	c.items = page.Items
	c.page = page.Pagination
	c.mu.Unlock()
	return nil
}

// bind ties a request context to the coordinator lifetime so Close cancels it.
func (c *Coordinator) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.life, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}

func (c *Coordinator) notify(kind enums.NotificationKind, key string) {
	if c.notifier == nil {
		return
	}
	msg := key
	if c.translator != nil {
		msg = c.translator.T(key)
	}
	c.notifier.Notify(kind, msg)
}

// Close cancels in-flight requests; no state changes after it returns.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.search.Stop()
	c.cancel()
}

func (c *Coordinator) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func positive(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	v := *id
	return &v
}

func trueOrNil(on bool) *bool {
	if !on {
		return nil
	}
	return &on
}

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhc-marketplace/storefront/internal/apiclient"
	"github.com/nhc-marketplace/storefront/internal/categories"
	"github.com/nhc-marketplace/storefront/pkg/enums"
	"github.com/nhc-marketplace/storefront/pkg/types"
)

type stubProducts struct {
	mu      sync.Mutex
	queries []apiclient.ProductQuery
	gates   map[string]chan struct{}
	pages   int
	err     error
	onCall  func(apiclient.ProductQuery)
}

func (s *stubProducts) Products(ctx context.Context, q apiclient.ProductQuery) (types.Page[apiclient.ProductSummary], error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	gate := s.gates[q.Search]
	onCall := s.onCall
	pages := s.pages
	err := s.err
	s.mu.Unlock()
	if onCall != nil {
		onCall(q)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return types.Page[apiclient.ProductSummary]{}, ctx.Err()
		}
	}
	if err != nil {
		return types.Page[apiclient.ProductSummary]{}, err
	}
	if pages == 0 {
		pages = 1
	}
	return types.Page[apiclient.ProductSummary]{
		Items: []apiclient.ProductSummary{{ID: 1, NameEn: "result:" + q.Search}},
		Pagination: types.Pagination{
			CurrentPage: q.Page,
			PageSize:    q.PageSize,
			TotalCount:  pages * q.PageSize,
			TotalPages:  pages,
			HasPrevious: q.Page > 1,
			HasNext:     q.Page < pages,
		},
	}, nil
}

func (s *stubProducts) Brands(context.Context, *bool) ([]apiclient.Brand, error) {
	return []apiclient.Brand{{ID: 7, NameEn: "Acme", IsActive: true}}, nil
}

func (s *stubProducts) calls() []apiclient.ProductQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]apiclient.ProductQuery(nil), s.queries...)
}

type stubTree struct {
	mu     sync.Mutex
	loaded bool
}

func (s *stubTree) Load(context.Context) (*categories.Hierarchy, error) {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	parent := int64(1)
	return categories.NewHierarchy([]apiclient.Category{
		{ID: 1, NameEn: "Electronics", Children: []apiclient.Category{{ID: 11, NameEn: "Phones", ParentID: &parent}}},
		{ID: 2, NameEn: "Books", Children: []apiclient.Category{{ID: 21, NameEn: "Novels"}}},
	}), nil
}

func (s *stubTree) isLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func newCoordinator(t *testing.T, products *stubProducts) *Coordinator {
	t.Helper()
	c, err := New(Params{
		Products:       products,
		Categories:     &stubTree{},
		PageSize:       9,
		SearchDebounce: 30 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func ptrInt(v int64) *int64 { return &v }

func TestShareQueryRoundTripExcludesPage(t *testing.T) {
	defaults := DefaultFilter(9)
	min := decimal.RequireFromString("10.5")
	max := decimal.RequireFromString("250")
	in := true
	featured := true
	status := 2
	f := defaults
	f.Search = "hdmi cable"
	f.CategoryID = ptrInt(11)
	f.BrandID = ptrInt(7)
	f.MinPrice = &min
	f.MaxPrice = &max
	f.InStock = &in
	f.IsFeatured = &featured
	f.Status = &status
	f.SortBy, f.SortDesc = enums.SortPriceLow.Pair()
	f.PageSize = 24
	f.Page = 4

	share := f.ShareQuery(defaults)
	assert.Empty(t, share.Get("page"))

	encoded := share.Encode()
	parsed, err := url.ParseQuery(encoded)
	require.NoError(t, err)
	got := ParseQuery(parsed, defaults)

	want := f
	want.Page = 1
	assert.Equal(t, want, got)
	assert.Equal(t, enums.SortPriceLow, got.Sort())
}

func TestUpdateDropsFalseFlags(t *testing.T) {
	products := &stubProducts{}
	c := newCoordinator(t, products)
	ctx := context.Background()
	off := false

	require.NoError(t, c.Update(ctx, func(f *Filter) {
		f.InStock = &off
		f.IsFeatured = &off
	}))

	got := c.Filter()
	assert.Nil(t, got.InStock)
	assert.Nil(t, got.IsFeatured)
	assert.Equal(t, got, ParseQuery(got.ShareQuery(DefaultFilter(9)), DefaultFilter(9)))
	assert.Nil(t, products.calls()[0].InStock)
}

func TestShareQueryOfDefaultsIsEmpty(t *testing.T) {
	defaults := DefaultFilter(9)
	assert.Empty(t, defaults.ShareQuery(defaults).Encode())
}

func TestParseQueryAcceptsLongParamNames(t *testing.T) {
	f := ParseQuery(url.Values{"categoryId": {"11"}, "brandId": {"7"}, "sort": {"price-high"}}, DefaultFilter(9))
	require.NotNil(t, f.CategoryID)
	require.NotNil(t, f.BrandID)
	assert.Equal(t, int64(11), *f.CategoryID)
	assert.Equal(t, int64(7), *f.BrandID)
	assert.Equal(t, enums.SortPriceHigh, f.Sort())
}

func TestActiveCount(t *testing.T) {
	f := DefaultFilter(9)
	assert.Zero(t, f.ActiveCount())
	min := decimal.NewFromInt(5)
	max := decimal.NewFromInt(50)
	in := true
	f.CategoryID, f.BrandID, f.MinPrice, f.MaxPrice, f.InStock = ptrInt(1), ptrInt(2), &min, &max, &in
	assert.Equal(t, 4, f.ActiveCount())
}

func TestMountSeedsFilterAndExpandsParentBeforeFetch(t *testing.T) {
	tree := &stubTree{}
	products := &stubProducts{}
	var fetchedAfterTree bool
	products.onCall = func(apiclient.ProductQuery) { fetchedAfterTree = tree.isLoaded() }
	c, err := New(Params{Products: products, Categories: tree, PageSize: 9})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Mount(context.Background(), url.Values{"category": {"11"}, "search": {"tv"}}))

	assert.True(t, fetchedAfterTree)
	calls := products.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "tv", calls[0].Search)
	assert.Equal(t, int64(11), *calls[0].CategoryID)

	view := c.Snapshot(enums.LangEnglish)
	assert.Equal(t, []int64{1}, view.Expanded)
	require.NotNil(t, view.Selected)
	assert.True(t, view.Selected.IsChild)
	assert.Equal(t, "Electronics", view.Selected.ParentName)
	assert.Len(t, view.Brands, 1)
	assert.Equal(t, "category=11&search=tv", view.ShareQuery)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	gateA := make(chan struct{})
	products := &stubProducts{gates: map[string]chan struct{}{"A": gateA}}
	c := newCoordinator(t, products)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.SetSearch(ctx, "A") }()
	require.Eventually(t, func() bool { return len(products.calls()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, c.SetSearch(ctx, "B"))
	close(gateA)
	require.NoError(t, <-done)

	view := c.Snapshot(enums.LangEnglish)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "result:B", view.Items[0].NameEn)
	assert.Equal(t, "B", view.Filter.Search)
	assert.False(t, view.Loading)
}

func TestNonPageMutationsResetPage(t *testing.T) {
	products := &stubProducts{pages: 5}
	c := newCoordinator(t, products)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx, nil))

	require.NoError(t, c.GoToPage(ctx, 3))
	assert.Equal(t, 3, c.Filter().Page)
	assert.True(t, c.Snapshot(enums.LangEnglish).ScrollTop)

	require.NoError(t, c.SetBrand(ctx, ptrInt(7)))
	assert.Equal(t, 1, c.Filter().Page)
	assert.False(t, c.Snapshot(enums.LangEnglish).ScrollTop)

	require.NoError(t, c.GoToPage(ctx, 2))
	require.NoError(t, c.SetSort(ctx, enums.SortRating))
	assert.Equal(t, 1, c.Filter().Page)
	assert.Equal(t, "brand=7&sortBy=rating", c.Snapshot(enums.LangEnglish).ShareQuery)
}

func TestGoToPageOutOfRangeIsNoop(t *testing.T) {
	products := &stubProducts{pages: 2}
	c := newCoordinator(t, products)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx, nil))

	require.NoError(t, c.GoToPage(ctx, 0))
	require.NoError(t, c.GoToPage(ctx, 3))
	require.NoError(t, c.PrevPage(ctx))
	assert.Len(t, products.calls(), 1)

	require.NoError(t, c.NextPage(ctx))
	require.NoError(t, c.NextPage(ctx))
	calls := products.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 2, calls[1].Page)
}

func TestGoToPageFailureKeepsPreviousPage(t *testing.T) {
	products := &stubProducts{pages: 3}
	c := newCoordinator(t, products)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx, nil))

	products.mu.Lock()
	products.err = errors.New("upstream unavailable")
	products.mu.Unlock()
	require.Error(t, c.GoToPage(ctx, 2))

	view := c.Snapshot(enums.LangEnglish)
	assert.Equal(t, 1, view.Filter.Page)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
	assert.False(t, view.ScrollTop)
	assert.False(t, view.Loading)
}

func TestSnapshotKeepsEmptyListsAsArrays(t *testing.T) {
	c := newCoordinator(t, &stubProducts{})

	raw, err := json.Marshal(c.Snapshot(enums.LangEnglish))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
	assert.Contains(t, string(raw), `"brands":[]`)
}

func TestClearFiltersRestoresDefaults(t *testing.T) {
	products := &stubProducts{}
	c := newCoordinator(t, products)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx, url.Values{"category": {"21"}, "pageSize": {"24"}}))

	require.NoError(t, c.ClearFilters(ctx))

	view := c.Snapshot(enums.LangEnglish)
	assert.Equal(t, DefaultFilter(9), view.Filter)
	assert.Empty(t, view.ShareQuery)
	assert.Empty(t, view.Expanded)
}

func TestSetPriceRangeValidates(t *testing.T) {
	products := &stubProducts{}
	c := newCoordinator(t, products)
	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(10)

	require.Error(t, c.SetPriceRange(context.Background(), &min, &max))
	assert.Empty(t, products.calls())
}

func TestSearchInputIsDebouncedAndDistinct(t *testing.T) {
	products := &stubProducts{}
	c := newCoordinator(t, products)

	c.SearchInput("l")
	c.SearchInput("la")
	c.SearchInput("lamp")
	require.Eventually(t, func() bool { return len(products.calls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "lamp", products.calls()[0].Search)

	c.SearchInput("lamp")
	time.Sleep(80 * time.Millisecond)
	assert.Len(t, products.calls(), 1)
}

func TestCloseDropsInFlightResponse(t *testing.T) {
	gate := make(chan struct{})
	products := &stubProducts{gates: map[string]chan struct{}{"slow": gate}}
	c := newCoordinator(t, products)

	done := make(chan error, 1)
	go func() { done <- c.SetSearch(context.Background(), "slow") }()
	require.Eventually(t, func() bool { return len(products.calls()) == 1 }, time.Second, 5*time.Millisecond)

	c.Close()
	err := <-done
	assert.True(t, errors.Is(err, ErrClosed))
	assert.Empty(t, c.Snapshot(enums.LangEnglish).Items)
	assert.ErrorIs(t, c.SetBrand(context.Background(), ptrInt(1)), ErrClosed)
}

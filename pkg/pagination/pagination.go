package pagination

const (
	// DefaultPageSize is the catalog grid size when none is configured.
	DefaultPageSize = 9
	// MaxPageSize caps how many products a single page may request.
	MaxPageSize = 100
	// MaxVisiblePages is the width of the numbered pager.
	MaxVisiblePages = 5
)

// NormalizePageSize enforces the default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// NormalizePage clamps page numbers below 1 to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// InRange reports whether page is a navigable page for the given total.
func InRange(page, totalPages int) bool {
	return page >= 1 && page <= totalPages
}

// Window returns at most MaxVisiblePages page numbers centred on current,
// shifted so the window stays full near either end.
func Window(current, totalPages int) []int {
	return WindowOf(current, totalPages, MaxVisiblePages)
}

// WindowOf is Window with an explicit width.
func WindowOf(current, totalPages, width int) []int {
	if totalPages < 1 || width < 1 {
		return []int{}
	}
	start := max(1, current-width/2)
	end := min(totalPages, start+width-1)
	if end-start+1 < width {
		start = max(1, end-width+1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

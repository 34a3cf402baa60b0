package enums

import "fmt"

// SortOption is the single sort choice offered on the catalog screen.
type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortRating    SortOption = "rating"
	SortSales     SortOption = "sales"
)

// Server-side sort keys. SortByNewest orders by creation date.
const (
	SortByNewest = "newest"
	SortByPrice  = "price"
	SortByRating = "rating"
	SortBySales  = "sales"
)

var validSortOptions = []SortOption{
	SortNewest,
	SortPriceLow,
	SortPriceHigh,
	SortRating,
	SortSales,
}

// String implements fmt.Stringer.
func (s SortOption) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortOption.
func (s SortOption) IsValid() bool {
	for _, candidate := range validSortOptions {
		if candidate == s {
			return true
		}
	}
	return false
}

// SortOptions lists the options in display order.
func SortOptions() []SortOption {
	out := make([]SortOption, len(validSortOptions))
	copy(out, validSortOptions)
	return out
}

// Pair returns the (sortBy, sortDesc) the server expects for the option.
func (s SortOption) Pair() (string, bool) {
	switch s {
	case SortPriceLow:
		return SortByPrice, false
	case SortPriceHigh:
		return SortByPrice, true
	case SortRating:
		return SortByRating, true
	case SortSales:
		return SortBySales, true
	default:
		return SortByNewest, true
	}
}

// SortOptionFor maps a (sortBy, sortDesc) pair back to the UI option.
func SortOptionFor(sortBy string, desc bool) SortOption {
	switch sortBy {
	case SortByPrice:
		if desc {
			return SortPriceHigh
		}
		return SortPriceLow
	case SortByRating:
		return SortRating
	case SortBySales:
		return SortSales
	default:
		return SortNewest
	}
}

// ParseSortOption converts raw strings into SortOption.
func ParseSortOption(value string) (SortOption, error) {
	for _, candidate := range validSortOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort option %q", value)
}

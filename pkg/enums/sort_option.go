package enums

import (
	"fmt"
	"strings"
)

// SortOption orders a catalog listing.
type SortOption string

const (
	SortFeatured  SortOption = "featured"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
)

var validSortOptions = []SortOption{
	SortFeatured,
	SortPriceAsc,
	SortPriceDesc,
	SortNameAsc,
	SortNameDesc,
}

// Labels used by the catalog page's sort menu.
var sortOptionAliases = map[string]SortOption{
	"price-low-high": SortPriceAsc,
	"price-high-low": SortPriceDesc,
	"name-a-z":       SortNameAsc,
	"name-z-a":       SortNameDesc,
}

// String implements fmt.Stringer.
func (s SortOption) String() string {
	return string(s)
}

// IsValid reports whether the value is a canonical SortOption.
func (s SortOption) IsValid() bool {
	for _, candidate := range validSortOptions {
		if candidate == s {
			return true
		}
	}
	return false
}

// SortOptions lists the canonical options in menu order.
func SortOptions() []SortOption {
	out := make([]SortOption, len(validSortOptions))
	copy(out, validSortOptions)
	return out
}

// ParseSortOption converts raw input into a SortOption. Blank input means featured.
func ParseSortOption(value string) (SortOption, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return SortFeatured, nil
	}
	for _, candidate := range validSortOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	if alias, ok := sortOptionAliases[value]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("invalid sort option %q", value)
}

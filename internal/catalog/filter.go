package catalog

import (
	"sort"
	"strings"

	"github.com/angelmondragon/jhumka-storefront/pkg/enums"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Default price bounds of the catalog page slider.
var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(30000)
)

// FilterState is the transient listing query.
type FilterState struct {
	SearchTerm         string
	MinPrice           decimal.Decimal
	MaxPrice           decimal.Decimal
	SelectedCategories []string
	Sort               enums.SortOption
}

// DefaultFilter matches the catalog page's initial state.
func DefaultFilter() FilterState {
	return FilterState{
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		Sort:     enums.SortFeatured,
	}
}

// ApplyFilters narrows products by search term, price range and category
// tags, then sorts. The input slice is not modified.
func ApplyFilters(products []Product, f FilterState) []Product {
	search := strings.ToLower(f.SearchTerm)
	tags := lowerAll(f.SelectedCategories)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		name := strings.ToLower(p.Name)
		if search != "" && !strings.Contains(name, search) {
			continue
		}
		if p.Price.LessThan(f.MinPrice) || p.Price.GreaterThan(f.MaxPrice) {
			continue
		}
		if len(tags) > 0 && !containsAny(name, tags) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.Sort)
	return out
}

func sortProducts(products []Product, option enums.SortOption) {
	switch option {
	case enums.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price.Decimal)
		})
	case enums.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price.Decimal)
		})
	case enums.SortNameAsc, enums.SortNameDesc:
		col := collate.New(language.English)
		desc := option == enums.SortNameDesc
		sort.SliceStable(products, func(i, j int) bool {
			cmp := col.CompareString(products[i].Name, products[j].Name)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
}

func matchTags(products []Product, tags []string) []Product {
	tags = lowerAll(tags)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if containsAny(strings.ToLower(p.Name), tags) {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(name string, tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(name, tag) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

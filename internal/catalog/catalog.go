package catalog

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/jhumka-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	// AllID selects the whole catalog in collection and region lookups.
	AllID = "all"

	DefaultRelatedLimit = 4
)

var relatedPriceWindow = decimal.NewFromInt(2000)

// Catalog is the read-only product list seeded once at startup.
type Catalog struct {
	products    []Product
	byID        map[int]int
	collections []Collection
	regions     []Region
}

func New(products []Product, collections []Collection, regions []Region) (*Catalog, error) {
	byID := make(map[int]int, len(products))
	for i, p := range products {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %d has no name", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %d has a negative price", p.ID)
		}
		byID[p.ID] = i
	}
	if err := uniqueIDs("collection", len(collections), func(i int) string { return collections[i].ID }); err != nil {
		return nil, err
	}
	if err := uniqueIDs("region", len(regions), func(i int) string { return regions[i].ID }); err != nil {
		return nil, err
	}
	return &Catalog{
		products:    append([]Product(nil), products...),
		byID:        byID,
		collections: append([]Collection(nil), collections...),
		regions:     append([]Region(nil), regions...),
	}, nil
}

func uniqueIDs(kind string, n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := id(i)
		if key == "" {
			return fmt.Errorf("%s at position %d has no id", kind, i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate %s id %q", kind, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Products returns a copy of the catalog in seed order.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) FindByID(id int) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Related lists other products sharing the first word of the name or priced
// within 2000 of it, in catalog order.
func (c *Catalog) Related(id, limit int) []Product {
	product, ok := c.FindByID(id)
	if !ok {
		return []Product{}
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	firstWord := product.Name
	if fields := strings.Fields(product.Name); len(fields) > 0 {
		firstWord = fields[0]
	}

	out := make([]Product, 0, limit)
	for _, candidate := range c.products {
		if candidate.ID == product.ID {
			continue
		}
		diff := candidate.Price.Sub(product.Price.Decimal).Abs()
		if strings.Contains(candidate.Name, firstWord) || diff.LessThan(relatedPriceWindow) {
			out = append(out, candidate)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Categories lists the filter sidebar entries.
func (c *Catalog) Categories() []Category {
	cats := enums.Categories()
	out := make([]Category, 0, len(cats))
	for _, cat := range cats {
		out = append(out, Category{ID: cat.String(), Name: cat.Label()})
	}
	return out
}

func (c *Catalog) Collections() []Collection {
	return append([]Collection(nil), c.collections...)
}

// Collection returns the collection and its products. The "all" id always
// resolves, even when the seed does not declare it.
func (c *Catalog) Collection(id string) (Collection, []Product, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, col := range c.collections {
		if col.ID != id {
			continue
		}
		if col.ID == AllID || col.Tag == "" {
			return col, c.Products(), true
		}
		return col, matchTags(c.products, []string{col.Tag}), true
	}
	if id == AllID {
		return Collection{ID: AllID, Name: "All Collections"}, c.Products(), true
	}
	return Collection{}, nil, false
}

func (c *Catalog) Regions() []Region {
	out := make([]Region, len(c.regions))
	for i, r := range c.regions {
		r.ProductIDs = append([]int(nil), r.ProductIDs...)
		out[i] = r
	}
	return out
}

// Region returns the region and its products in the region's listed order.
// Ids missing from the catalog are skipped.
func (c *Catalog) Region(id string) (Region, []Product, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, r := range c.regions {
		if r.ID != id {
			continue
		}
		r.ProductIDs = append([]int(nil), r.ProductIDs...)
		if r.ID == AllID {
			return r, c.Products(), true
		}
		products := make([]Product, 0, len(r.ProductIDs))
		for _, pid := range r.ProductIDs {
			if p, ok := c.FindByID(pid); ok {
				products = append(products, p)
			}
		}
		return r, products, true
	}
	if id == AllID {
		return Region{ID: AllID, Name: "All States"}, c.Products(), true
	}
	return Region{}, nil, false
}

package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Price is a rupee amount. It serializes as a bare JSON number.
type Price struct {
	decimal.Decimal
}

func NewPrice(value string) (Price, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Price{}, fmt.Errorf("parse price %q: %w", value, err)
	}
	return Price{Decimal: d}, nil
}

func MustPrice(value string) Price {
	p, err := NewPrice(value)
	if err != nil {
		panic(err)
	}
	return p
}

func PriceFromInt(value int64) Price {
	return Price{Decimal: decimal.NewFromInt(value)}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted strings.
func (p *Price) UnmarshalJSON(data []byte) error {
	return p.Decimal.UnmarshalJSON(data)
}

func (p *Price) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := NewPrice(node.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Product is immutable once seeded.
type Product struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Image       string `json:"image" yaml:"image"`
	Price       Price  `json:"price" yaml:"price"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Category is an entry of the catalog filter sidebar.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Collection groups products whose name carries Tag. An empty tag selects everything.
type Collection struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Tag  string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Region is a hand-curated list of products associated with an Indian state.
type Region struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	ProductIDs  []int  `json:"product_ids" yaml:"products"`
}

package enums

import (
	"fmt"
	"strings"
)

// Category is a filter tag matched against product names.
type Category string

const (
	CategoryGold    Category = "gold"
	CategoryPearl   Category = "pearl"
	CategoryKundan  Category = "kundan"
	CategorySilver  Category = "silver"
	CategoryDiamond Category = "diamond"
)

var validCategories = []Category{
	CategoryGold,
	CategoryPearl,
	CategoryKundan,
	CategorySilver,
	CategoryDiamond,
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// Label is the display name shown in the filter sidebar.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Categories lists the filterable categories in sidebar order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// ParseCategory converts raw input into a Category.
func ParseCategory(value string) (Category, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}

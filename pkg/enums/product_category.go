package enums

import "fmt"

// ProductCategory is the catalog tab a product belongs to. The values are
// the Indonesian labels shown verbatim in the storefront.
type ProductCategory string

const (
	CategoryLocal    ProductCategory = "Buah Lokal"
	CategoryImported ProductCategory = "Buah Impor"
)

func (c ProductCategory) String() string {
	return string(c)
}

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryLocal, CategoryImported:
		return true
	}
	return false
}

func ParseProductCategory(value string) (ProductCategory, error) {
	c := ProductCategory(value)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid product category %q", value)
	}
	return c, nil
}

// ProductCategories lists every valid category in display order.
func ProductCategories() []ProductCategory {
	return []ProductCategory{CategoryLocal, CategoryImported}
}

package catalog

import (
	"fmt"
	"sort"
)

// FilterByCategories keeps products whose category is selected, in catalog
// order. An empty selection keeps every product. The result never aliases
// the input.
func FilterByCategories(products []Product, selected []string) []Product {
	return filterBy(products, selected, func(p Product) string { return p.Category })
}

// FilterByBrands is FilterByCategories for the brand attribute.
func FilterByBrands(products []Product, selected []string) []Product {
	return filterBy(products, selected, func(p Product) string { return p.Brand })
}

func filterBy(products []Product, selected []string, attr func(Product) string) []Product {
	if len(selected) == 0 {
		return clone(products)
	}

	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if _, ok := set[attr(p)]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SortBy returns a sorted copy of products. Equal keys keep their relative
// order.
func SortBy(products []Product, key SortKey) []Product {
	out := clone(products)
	switch key {
	case SortLowestPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.LessThan(out[j].Price)
		})
	case SortHighestRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	}
	return out
}

// Browse applies the category and brand filters, then the sort.
func Browse(products []Product, q Query) []Product {
	filtered := FilterByCategories(products, q.Categories)
	filtered = FilterByBrands(filtered, q.Brands)
	return SortBy(filtered, q.Sort)
}

// ParseSortKey maps the listing page's sort option values.
func ParseSortKey(value string) (SortKey, error) {
	switch value {
	case "", "none", "featured":
		return SortNone, nil
	case "lowest-price":
		return SortLowestPrice, nil
	case "highest-rating":
		return SortHighestRating, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q", value)
}

// String returns the option value ParseSortKey accepts.
func (k SortKey) String() string {
	switch k {
	case SortLowestPrice:
		return "lowest-price"
	case SortHighestRating:
		return "highest-rating"
	}
	return "none"
}

func clone(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

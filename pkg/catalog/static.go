package catalog

import "fmt"

// StaticCatalog is an immutable in-memory catalog.
type StaticCatalog struct {
	products   []Product
	index      map[int]int
	categories []string
	brands     []string
}

// NewStaticCatalog validates products and indexes them by id. Nil
// categories or brands are derived from the products in first-seen order.
func NewStaticCatalog(products []Product, categories, brands []string) (*StaticCatalog, error) {
	index := make(map[int]int, len(products))
	for i, p := range products {
		if p.ID <= 0 || p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: id %d", ErrInvalidProduct, p.ID)
		}
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateProduct, p.ID)
		}
		index[p.ID] = i
	}

	if categories == nil {
		categories = distinct(products, func(p Product) string { return p.Category })
	}
	if brands == nil {
		brands = distinct(products, func(p Product) string { return p.Brand })
	}

	return &StaticCatalog{
		products:   clone(products),
		index:      index,
		categories: append([]string(nil), categories...),
		brands:     append([]string(nil), brands...),
	}, nil
}

// Products returns a copy of every product in catalog order.
func (c *StaticCatalog) Products() []Product {
	return clone(c.products)
}

// Find looks a product up by id.
func (c *StaticCatalog) Find(id int) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Categories lists the category filter options.
func (c *StaticCatalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Brands lists the brand filter options.
func (c *StaticCatalog) Brands() []string {
	return append([]string(nil), c.brands...)
}

// Len reports the number of products.
func (c *StaticCatalog) Len() int {
	return len(c.products)
}

func distinct(products []Product, attr func(Product) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		v := attr(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateProduct is returned when two products share an id.
	ErrDuplicateProduct = errors.New("duplicate product id")
	// ErrInvalidProduct is returned for a non-positive id or a negative price.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrUnsupportedFormat is returned by LoadFile for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported catalog file format")
)

// Product is a read-only catalog entry.
type Product struct {
	ID       int             `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Price    decimal.Decimal `json:"price" yaml:"-"`
	Category string          `json:"category" yaml:"category"`
	Brand    string          `json:"brand,omitempty" yaml:"brand,omitempty"`
	Rating   float64         `json:"rating" yaml:"rating"`
	Image    string          `json:"image" yaml:"image"`
	Details  Details         `json:"details,omitempty" yaml:"details,omitempty"`
}

// Details holds the optional descriptive attributes shown on a product page.
type Details struct {
	Size     string `json:"size,omitempty" yaml:"size,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
	Material string `json:"material,omitempty" yaml:"material,omitempty"`
	Seller   string `json:"seller,omitempty" yaml:"seller,omitempty"`
}

// Catalog is the product source pages read from. Implementations must be
// safe for concurrent reads and must return copies.
type Catalog interface {
	Products() []Product
	Find(id int) (Product, bool)
	Categories() []string
	Brands() []string
}

// SortKey selects a product ordering.
type SortKey int

const (
	SortNone SortKey = iota
	SortLowestPrice
	SortHighestRating
)

// Query combines the listing filters with a sort order. Empty selections
// match everything.
type Query struct {
	Categories []string
	Brands     []string
	Sort       SortKey
}

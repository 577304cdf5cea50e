// Package catalog holds the read-only product list and the listing page's
// filter and sort operations.
//
// Filtering uses union-of-selected semantics: a product matches when its
// category is any of the selected categories, and an empty selection
// matches everything. Sorting is stable and works on a copy, so the
// catalog order is never disturbed.
//
//	products := catalog.Default().Products()
//	listed := catalog.Browse(products, catalog.Query{
//	    Categories: []string{"Electronics"},
//	    Sort:       catalog.SortLowestPrice,
//	})
package catalog

// Package cart implements the shopping cart as an immutable value.
//
// Operations return a new Cart and never touch the receiver, so the caller
// decides when to persist and when to notify the view. A failed operation
// returns the receiver unchanged together with one of the package's
// sentinel errors:
//
//	next, err := current.AddOrIncrement(3, products)
//	if errors.Is(err, cart.ErrQuantityLimitExceeded) {
//	    // current is still valid; show a notice
//	}
//
// Invariants:
//   - at most one line item per product id
//   - every quantity is at least 1
//   - AddOrIncrement never takes TotalQuantity above MaxTotalQuantity
package cart

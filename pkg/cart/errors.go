package cart

import "errors"

// MaxTotalQuantity caps the sum of quantities across all line items.
const MaxTotalQuantity = 10

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrQuantityLimitExceeded = errors.New("maximum cart quantity reached")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
)

package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/itsneelabh/storefront/pkg/catalog"
)

// LineItem is one product entry in the cart.
type LineItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
}

// MarshalJSON writes price as a JSON number.
func (li LineItem) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID       int         `json:"id"`
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
		Image    string      `json:"image"`
	}
	return json.Marshal(wire{
		ID:       li.ID,
		Name:     li.Name,
		Price:    json.Number(li.Price.String()),
		Quantity: li.Quantity,
		Image:    li.Image,
	})
}

// Total is price times quantity.
func (li LineItem) Total() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is an ordered list of line items with at most one item per product
// id. Cart is a value: every operation returns a new Cart and leaves the
// receiver untouched.
type Cart struct {
	items []LineItem
}

// New builds a cart from items. Items are copied.
func New(items ...LineItem) Cart {
	return Cart{items: append([]LineItem(nil), items...)}
}

// Items returns a copy of the line items in display order.
func (c Cart) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

// Len is the number of distinct line items.
func (c Cart) Len() int { return len(c.items) }

// IsEmpty reports whether the cart holds no items.
func (c Cart) IsEmpty() bool { return len(c.items) == 0 }

// Find returns the line item for productID.
func (c Cart) Find(productID int) (LineItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

// AddOrIncrement adds one unit of productID from products. The cap is
// checked before anything changes; on error the receiver is returned as is.
func (c Cart) AddOrIncrement(productID int, products catalog.Catalog) (Cart, error) {
	p, ok := products.Find(productID)
	if !ok {
		return c, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	if c.TotalQuantity()+1 > MaxTotalQuantity {
		return c, fmt.Errorf("%w (%d)", ErrQuantityLimitExceeded, MaxTotalQuantity)
	}

	next := c.Items()
	if i := c.indexOf(productID); i >= 0 {
		next[i].Quantity++
		return Cart{items: next}, nil
	}

	next = append(next, LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: 1,
		Image:    p.Image,
	})
	return Cart{items: next}, nil
}

// Remove drops the line item for productID. Absent ids are ignored.
func (c Cart) Remove(productID int) Cart {
	next := make([]LineItem, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != productID {
			next = append(next, item)
		}
	}
	return Cart{items: next}
}

// SetQuantity overwrites the quantity of an existing line item. The total
// cap is not re-checked here.
func (c Cart) SetQuantity(productID, quantity int) (Cart, error) {
	if quantity < 1 {
		return c, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	i := c.indexOf(productID)
	if i < 0 {
		return c, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}

	next := c.Items()
	next[i].Quantity = quantity
	return Cart{items: next}, nil
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// TotalQuantity sums quantities across all items.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums price times quantity across all items.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Total())
	}
	return total
}

// MarshalJSON encodes the cart as a JSON array of line items.
func (c Cart) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON decodes a JSON array of line items. Items that break the
// cart invariants are rejected so a corrupt blob is never half-loaded.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if err := validate(items); err != nil {
		return err
	}
	c.items = items
	return nil
}

func validate(items []LineItem) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			return fmt.Errorf("line item has invalid id %d", item.ID)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("line item %d: %w", item.ID, ErrInvalidQuantity)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("line item %d has negative price", item.ID)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate line item %d", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func (c Cart) indexOf(productID int) int {
	for i, item := range c.items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

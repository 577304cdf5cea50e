package pricing

import (
	"github.com/shopspring/decimal"
)

// Rules holds the flat discount and tax constants.
type Rules struct {
	// DiscountThreshold is the subtotal that must be strictly exceeded.
	DiscountThreshold decimal.Decimal `json:"discount_threshold" yaml:"discount_threshold"`
	FlatDiscount      decimal.Decimal `json:"flat_discount" yaml:"flat_discount"`
	FlatTax           decimal.Decimal `json:"flat_tax" yaml:"flat_tax"`
}

// DefaultRules: 60 off above 100, 14 tax.
func DefaultRules() Rules {
	return Rules{
		DiscountThreshold: decimal.NewFromInt(100),
		FlatDiscount:      decimal.NewFromInt(60),
		FlatTax:           decimal.NewFromInt(14),
	}
}

// OrderSummary is derived from a subtotal and never stored.
type OrderSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize applies the rules at full precision.
func (r Rules) Summarize(subtotal decimal.Decimal) OrderSummary {
	discount := decimal.Zero
	if subtotal.GreaterThan(r.DiscountThreshold) {
		discount = r.FlatDiscount
	}
	return OrderSummary{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      r.FlatTax,
		Total:    subtotal.Sub(discount).Add(r.FlatTax),
	}
}

// Summarize uses DefaultRules.
func Summarize(subtotal decimal.Decimal) OrderSummary {
	return DefaultRules().Summarize(subtotal)
}

// FormatPrice renders a display price such as "$10.30".
func FormatPrice(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Formatted is the summary as display strings.
type Formatted struct {
	Subtotal string
	Discount string
	Tax      string
	Total    string
}

// Format renders the summary lines as shown on the cart page, e.g.
// "- $60.00" for the discount and "+ $14.00" for the tax.
func (s OrderSummary) Format() Formatted {
	return Formatted{
		Subtotal: FormatPrice(s.Subtotal),
		Discount: "- " + FormatPrice(s.Discount),
		Tax:      "+ " + FormatPrice(s.Tax),
		Total:    FormatPrice(s.Total),
	}
}

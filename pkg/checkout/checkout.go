package checkout

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itsneelabh/storefront/internal/validate"
	"github.com/itsneelabh/storefront/pkg/cart"
	"github.com/itsneelabh/storefront/pkg/pricing"
)

// PaymentPlaceholder is the unselected payment option.
const PaymentPlaceholder = "Select Payment Method"

var (
	ErrMissingFields = errors.New("please fill in all required fields")
	ErrInvalidEmail  = errors.New("please enter a valid email address")
	ErrInvalidZIP    = errors.New("please enter a valid 5-digit ZIP code")
	ErrCartEmpty     = errors.New("your cart is empty")
)

// Form is the checkout page input.
type Form struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	ZIP           string `json:"zip"`
	PaymentMethod string `json:"payment_method"`
}

// Normalize trims the text fields. PaymentMethod is a select value and is
// kept as is.
func (f Form) Normalize() Form {
	return Form{
		FullName:      strings.TrimSpace(f.FullName),
		Email:         strings.TrimSpace(f.Email),
		Address:       strings.TrimSpace(f.Address),
		City:          strings.TrimSpace(f.City),
		ZIP:           strings.TrimSpace(f.ZIP),
		PaymentMethod: f.PaymentMethod,
	}
}

// Validate checks required fields, then the email, then the ZIP code.
func (f Form) Validate() error {
	if validate.AnyBlank(f.FullName, f.Email, f.Address, f.City, f.ZIP, f.PaymentMethod) ||
		f.PaymentMethod == PaymentPlaceholder {
		return ErrMissingFields
	}
	if !validate.Email(f.Email) {
		return ErrInvalidEmail
	}
	if !validate.ZIP(f.ZIP) {
		return ErrInvalidZIP
	}
	return nil
}

// Order is a placed order. Nothing is charged.
type Order struct {
	ID       string               `json:"id"`
	Customer Form                 `json:"customer"`
	Items    []cart.LineItem      `json:"items"`
	Summary  pricing.OrderSummary `json:"summary"`
	PlacedAt time.Time            `json:"placed_at"`
}

// Place validates the form and the cart and builds the order. The caller
// clears the cart once the order is accepted.
func Place(form Form, c cart.Cart, rules pricing.Rules, now time.Time) (Order, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return Order{}, err
	}
	if c.IsEmpty() {
		return Order{}, ErrCartEmpty
	}

	return Order{
		ID:       uuid.NewString(),
		Customer: form,
		Items:    c.Items(),
		Summary:  rules.Summarize(c.Subtotal()),
		PlacedAt: now,
	}, nil
}

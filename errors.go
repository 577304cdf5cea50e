package storefront

import (
	"errors"
	"fmt"

	"github.com/itsneelabh/storefront/pkg/auth"
	"github.com/itsneelabh/storefront/pkg/cart"
	"github.com/itsneelabh/storefront/pkg/checkout"
	"github.com/itsneelabh/storefront/pkg/persistence"
)

// Configuration errors
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")
)

// ErrClosed is returned by operations on a closed Storefront.
var ErrClosed = errors.New("storefront is closed")

// ErrorKind categorizes failures reported through Observer.OnError.
type ErrorKind string

const (
	KindProductNotFound          ErrorKind = "ProductNotFound"
	KindQuantityLimitExceeded    ErrorKind = "QuantityLimitExceeded"
	KindInvalidQuantity          ErrorKind = "InvalidQuantity"
	KindEmailTaken               ErrorKind = "EmailTaken"
	KindInvalidCredentials       ErrorKind = "InvalidCredentials"
	KindPersistenceWriteFailed   ErrorKind = "PersistenceWriteFailed"
	KindPersistenceReadMalformed ErrorKind = "PersistenceReadMalformed"
	KindPersistenceReadFailed    ErrorKind = "PersistenceReadFailed"
	KindValidationFailed         ErrorKind = "ValidationFailed"
	KindCartEmpty                ErrorKind = "CartEmpty"
	KindConfiguration            ErrorKind = "Configuration"
	KindClosed                   ErrorKind = "Closed"
	KindUnknown                  ErrorKind = "Unknown"
)

// Error is the structured error returned by Storefront operations.
// Message is the user-facing notice; Err keeps the cause for errors.Is.
type Error struct {
	Op      string    // Operation that failed, e.g. "AddToCart"
	Kind    ErrorKind // Category of error
	Message string    // Human-readable notice
	Err     error     // Underlying error
}

// Error returns the string representation of the error
func (e *Error) Error() string {
	if e.Op != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError classifies err and attaches the matching user-facing message.
func NewError(op string, err error) *Error {
	kind := classify(err)
	return &Error{
		Op:      op,
		Kind:    kind,
		Message: messageFor(kind, err),
		Err:     err,
	}
}

// KindOf returns the kind of err, looking through wrapping.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return classify(err)
}

// IsQuantityLimit reports whether err is a cart cap violation.
func IsQuantityLimit(err error) bool {
	return errors.Is(err, cart.ErrQuantityLimitExceeded)
}

// IsNotFound reports whether err is an unknown product or line item.
func IsNotFound(err error) bool {
	return errors.Is(err, cart.ErrProductNotFound)
}

// IsAuthFailure reports whether err is a registration or sign-in rejection.
func IsAuthFailure(err error) bool {
	return errors.Is(err, auth.ErrEmailTaken) || errors.Is(err, auth.ErrInvalidCredentials)
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) || errors.Is(err, ErrMissingConfiguration)
}

var kindTable = []struct {
	target error
	kind   ErrorKind
}{
	{cart.ErrProductNotFound, KindProductNotFound},
	{cart.ErrQuantityLimitExceeded, KindQuantityLimitExceeded},
	{cart.ErrInvalidQuantity, KindInvalidQuantity},
	{auth.ErrEmailTaken, KindEmailTaken},
	{auth.ErrInvalidCredentials, KindInvalidCredentials},
	{persistence.ErrWriteFailed, KindPersistenceWriteFailed},
	{persistence.ErrReadMalformed, KindPersistenceReadMalformed},
	{persistence.ErrReadFailed, KindPersistenceReadFailed},
	{checkout.ErrCartEmpty, KindCartEmpty},
	{auth.ErrMissingFields, KindValidationFailed},
	{auth.ErrInvalidEmail, KindValidationFailed},
	{auth.ErrPasswordTooShort, KindValidationFailed},
	{auth.ErrPasswordsMismatch, KindValidationFailed},
	{checkout.ErrMissingFields, KindValidationFailed},
	{checkout.ErrInvalidEmail, KindValidationFailed},
	{checkout.ErrInvalidZIP, KindValidationFailed},
	{ErrInvalidConfiguration, KindConfiguration},
	{ErrMissingConfiguration, KindConfiguration},
	{ErrClosed, KindClosed},
}

func classify(err error) ErrorKind {
	for _, entry := range kindTable {
		if errors.Is(err, entry.target) {
			return entry.kind
		}
	}
	return KindUnknown
}

// notices are the texts the pages show.
var notices = map[error]string{
	auth.ErrMissingFields:     "Please fill in all required fields",
	auth.ErrInvalidEmail:      "Please enter a valid email address",
	auth.ErrPasswordTooShort:  "Password must be at least 6 characters long",
	auth.ErrPasswordsMismatch: "Passwords do not match",
	checkout.ErrMissingFields: "Please fill in all required fields",
	checkout.ErrInvalidEmail:  "Please enter a valid email address",
	checkout.ErrInvalidZIP:    "Please enter a valid 5-digit ZIP code",
}

func messageFor(kind ErrorKind, err error) string {
	switch kind {
	case KindProductNotFound:
		return "Error: Product not found"
	case KindQuantityLimitExceeded:
		return fmt.Sprintf("Maximum cart quantity (%d) reached", cart.MaxTotalQuantity)
	case KindInvalidQuantity:
		return "Quantity must be at least 1"
	case KindEmailTaken:
		return "Email already registered"
	case KindInvalidCredentials:
		return "Invalid email or password"
	case KindPersistenceWriteFailed:
		return "Error saving cart"
	case KindPersistenceReadMalformed:
		return "Saved data was unreadable and has been reset"
	case KindPersistenceReadFailed:
		return "Error loading saved data"
	case KindCartEmpty:
		return "Your cart is empty"
	case KindClosed:
		return "Storefront is closed"
	case KindValidationFailed:
		for target, text := range notices {
			if errors.Is(err, target) {
				return text
			}
		}
	}
	if err != nil {
		return err.Error()
	}
	return string(kind)
}

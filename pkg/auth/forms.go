package auth

import (
	"errors"
	"strings"
	"unicode/utf16"

	"github.com/itsneelabh/storefront/internal/validate"
)

// MinPasswordLength is the shortest password sign-up accepts, counted in
// UTF-16 code units as browsers count string length.
const MinPasswordLength = 6

var (
	ErrMissingFields     = errors.New("please fill in all required fields")
	ErrInvalidEmail      = errors.New("please enter a valid email address")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters long")
	ErrPasswordsMismatch = errors.New("passwords do not match")
)

// SignUpForm is the sign-up page input.
type SignUpForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Normalize trims surrounding whitespace from every field.
func (f SignUpForm) Normalize() SignUpForm {
	return SignUpForm{
		Username:        strings.TrimSpace(f.Username),
		Email:           strings.TrimSpace(f.Email),
		Password:        strings.TrimSpace(f.Password),
		ConfirmPassword: strings.TrimSpace(f.ConfirmPassword),
	}
}

// Validate checks the form in page order: required fields, email format,
// password length, confirmation.
func (f SignUpForm) Validate() error {
	if validate.AnyBlank(f.Username, f.Email, f.Password, f.ConfirmPassword) {
		return ErrMissingFields
	}
	if !validate.Email(f.Email) {
		return ErrInvalidEmail
	}
	if passwordLength(f.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordsMismatch
	}
	return nil
}

// SignInForm is the sign-in page input.
type SignInForm struct {
	Email    string
	Password string
}

// Normalize trims surrounding whitespace from every field.
func (f SignInForm) Normalize() SignInForm {
	return SignInForm{
		Email:    strings.TrimSpace(f.Email),
		Password: strings.TrimSpace(f.Password),
	}
}

// Validate checks required fields and the email format.
func (f SignInForm) Validate() error {
	if validate.AnyBlank(f.Email, f.Password) {
		return ErrMissingFields
	}
	if !validate.Email(f.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func passwordLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

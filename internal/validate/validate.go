// Package validate holds the form field checks shared by the sign-up,
// sign-in and checkout forms.
package validate

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
)

// Email reports whether s looks like an address: something@something.tld,
// no whitespace.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// ZIP reports whether s is exactly five digits.
func ZIP(s string) bool {
	return zipPattern.MatchString(s)
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// AnyBlank reports whether any value is blank.
func AnyBlank(values ...string) bool {
	for _, v := range values {
		if Blank(v) {
			return true
		}
	}
	return false
}

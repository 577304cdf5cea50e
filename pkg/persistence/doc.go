// Package persistence maps the storefront state onto string keys in a
// memory.Memory, JSON-encoded:
//
//	cart           []LineItem
//	savedForLater  []LineItem
//	users          []User
//	currentUser    User, or absent
//
// Loads favor availability: a missing or corrupt value yields the empty
// default. Corrupt values are logged and passed to the MalformedHandler so
// the view can say something; they are not returned as errors.
//
// Debouncer batches rapid cart writes into one trailing write.
package persistence

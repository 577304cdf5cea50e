package persistence

import "errors"

// Keys in the backing store.
const (
	KeyCart          = "cart"
	KeySavedForLater = "savedForLater"
	KeyUsers         = "users"
	KeyCurrentUser   = "currentUser"
)

var (
	// ErrWriteFailed wraps any failure to store a value.
	ErrWriteFailed = errors.New("persistence write failed")
	// ErrReadFailed wraps backend failures on read. Missing keys are not
	// failures.
	ErrReadFailed = errors.New("persistence read failed")
	// ErrReadMalformed is passed to the malformed handler when a stored
	// value cannot be decoded. Loads never return it.
	ErrReadMalformed = errors.New("persisted value is malformed")
)

// MalformedHandler is told about values that were replaced by their empty
// default.
type MalformedHandler func(key string, err error)

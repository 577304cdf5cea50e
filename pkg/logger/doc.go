// Package logger provides structured logging for the storefront.
//
// Logger is a small interface so components can take a logger without
// depending on a backend. ZapLogger is the production implementation;
// NoOpLogger is the default when nothing is configured.
//
// Fields are passed as alternating key/value pairs:
//
//	log.Info("cart item added", "product_id", 3, "quantity", 2)
//
// Field values are accepted too and are flattened into the same pairs:
//
//	log.Warn("malformed value", logger.Field{Key: "key", Value: "cart"})
//
// Derived loggers carry fields into every entry:
//
//	cartLog := log.WithField("component", "cart")
//
// Supported levels are DEBUG, INFO, WARN and ERROR. SetLevel on any derived
// logger changes the level for the whole family.
package logger

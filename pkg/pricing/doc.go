// Package pricing derives the order summary shown next to the cart.
//
// The rules are flat: a fixed discount once the subtotal exceeds a threshold
// and a fixed tax on every order, empty carts included. Amounts stay in
// full decimal precision; only FormatPrice rounds, to two places.
package pricing

// Package checkout validates the checkout form and turns a cart into an
// order. There is no payment step.
package checkout

package storefront

import (
	"github.com/itsneelabh/storefront/pkg/auth"
	"github.com/itsneelabh/storefront/pkg/cart"
	"github.com/itsneelabh/storefront/pkg/catalog"
	"github.com/itsneelabh/storefront/pkg/checkout"
	"github.com/itsneelabh/storefront/pkg/logger"
	"github.com/itsneelabh/storefront/pkg/memory"
	"github.com/itsneelabh/storefront/pkg/pricing"
	"github.com/itsneelabh/storefront/pkg/telemetry"
)

// Type aliases so pages can depend on the root package alone
type Memory = memory.Memory
type Logger = logger.Logger
type Telemetry = telemetry.Telemetry
type Catalog = catalog.Catalog
type Product = catalog.Product
type Query = catalog.Query
type Cart = cart.Cart
type LineItem = cart.LineItem
type OrderSummary = pricing.OrderSummary
type User = auth.User
type SignUpForm = auth.SignUpForm
type SignInForm = auth.SignInForm
type CheckoutForm = checkout.Form
type Order = checkout.Order

// Sort keys for Query.Sort
const (
	SortNone          = catalog.SortNone
	SortLowestPrice   = catalog.SortLowestPrice
	SortHighestRating = catalog.SortHighestRating
)

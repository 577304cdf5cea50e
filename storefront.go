package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/itsneelabh/storefront/pkg/auth"
	"github.com/itsneelabh/storefront/pkg/cart"
	"github.com/itsneelabh/storefront/pkg/catalog"
	"github.com/itsneelabh/storefront/pkg/checkout"
	"github.com/itsneelabh/storefront/pkg/logger"
	"github.com/itsneelabh/storefront/pkg/memory"
	"github.com/itsneelabh/storefront/pkg/persistence"
	"github.com/itsneelabh/storefront/pkg/pricing"
	"github.com/itsneelabh/storefront/pkg/telemetry"
)

// Pages the storefront navigates to.
const (
	PageHome     = "index.html"
	PageCart     = "productcart.html"
	PageCheckout = "checkout.html"
)

// Observer receives cart changes and surfaced failures. Calls are made
// outside the storefront's locks, so an observer may call back in.
type Observer interface {
	OnCartChanged(c cart.Cart, summary pricing.OrderSummary)
	OnError(kind ErrorKind, message string)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	CartChanged func(c cart.Cart, summary pricing.OrderSummary)
	Error       func(kind ErrorKind, message string)
}

func (o ObserverFuncs) OnCartChanged(c cart.Cart, summary pricing.OrderSummary) {
	if o.CartChanged != nil {
		o.CartChanged(c, summary)
	}
}

func (o ObserverFuncs) OnError(kind ErrorKind, message string) {
	if o.Error != nil {
		o.Error(kind, message)
	}
}

// Navigator changes the current page.
type Navigator func(page string)

// CartStore is what cart and product pages consume.
type CartStore interface {
	AddToCart(ctx context.Context, productID int) error
	RemoveFromCart(ctx context.Context, productID int) error
	SetQuantity(ctx context.Context, productID, quantity int) error
	ClearCart(ctx context.Context) error
	Cart() cart.Cart
	Summary() pricing.OrderSummary
	CartCount() int
}

// SessionStore is what the sign-in and sign-up pages consume.
type SessionStore interface {
	SignUp(ctx context.Context, form auth.SignUpForm) (auth.User, error)
	SignIn(ctx context.Context, form auth.SignInForm) (auth.User, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (auth.User, bool, error)
}

// Dependencies are the collaborators New wires together. Zero fields are
// built from the Config.
type Dependencies struct {
	Memory    memory.Memory
	Catalog   catalog.Catalog
	Observer  Observer
	Navigator Navigator
	Logger    logger.Logger
	Telemetry telemetry.Telemetry
	Clock     func() time.Time
}

// Storefront is the shared cart and session module behind every page.
// Operations are serialized; notifications go out after the state change
// is committed.
type Storefront struct {
	config    *Config
	rules     pricing.Rules
	catalog   catalog.Catalog
	adapter   *persistence.Adapter
	auth      *auth.Service
	debouncer *persistence.Debouncer
	observer  Observer
	navigate  Navigator
	logger    logger.Logger
	telemetry telemetry.Telemetry
	clock     func() time.Time
	sessionID string

	// Resources created by New rather than injected.
	ownedMemory    memory.Memory
	ownedTelemetry bool

	mu     sync.Mutex
	cart   cart.Cart
	userID string // email of the signed-in user
	closed bool

	noticeMu sync.Mutex
	notices  []func(Observer)

	navMu     sync.Mutex
	navTimers []*time.Timer
	navClosed bool
}

var (
	_ CartStore    = (*Storefront)(nil)
	_ SessionStore = (*Storefront)(nil)
)

// New assembles a Storefront and loads the persisted cart. A nil cfg uses
// DefaultConfig.
func New(ctx context.Context, cfg *Config, deps Dependencies) (*Storefront, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Storefront{
		config:    cfg,
		rules:     cfg.Pricing.Rules(),
		observer:  deps.Observer,
		navigate:  deps.Navigator,
		logger:    deps.Logger,
		telemetry: deps.Telemetry,
		clock:     deps.Clock,
		sessionID: telemetry.NewSessionID(),
	}
	if s.observer == nil {
		s.observer = ObserverFuncs{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}

	if s.logger == nil {
		zl, err := logger.NewZapLogger(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		s.logger = zl
	}
	s.logger = s.logger.WithFields(map[string]interface{}{
		"storefront": cfg.Name,
		"session_id": s.sessionID,
	})

	if s.telemetry == nil {
		t, err := telemetry.NewAutoOTEL(cfg.Telemetry, s.sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		s.telemetry = t
		s.ownedTelemetry = true
	}

	s.catalog = deps.Catalog
	if s.catalog == nil {
		if cfg.Catalog.File != "" {
			loaded, err := catalog.LoadFile(cfg.Catalog.File)
			if err != nil {
				return nil, &Error{
					Op:      "New",
					Kind:    KindConfiguration,
					Message: "failed to load catalog",
					Err:     fmt.Errorf("%w: %v", ErrInvalidConfiguration, err),
				}
			}
			s.catalog = loaded
		} else {
			s.catalog = catalog.Default()
		}
	}

	store := deps.Memory
	if store == nil {
		m, err := memory.New(cfg.Memory.Provider, cfg.Memory.RedisURL, cfg.Memory.Namespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory store: %w", err)
		}
		m.SetTTL(cfg.Memory.TTL)
		store = m
		s.ownedMemory = m
	}

	s.adapter = persistence.NewAdapter(store,
		persistence.WithLogger(s.logger),
		persistence.WithMalformedHandler(s.onMalformed),
	)

	var hasher auth.PasswordHasher = auth.PlainText{}
	if cfg.Auth.HashPasswords {
		hasher = auth.Bcrypt{Cost: cfg.Auth.BcryptCost}
	}
	s.auth = auth.NewService(s.adapter,
		auth.WithHasher(hasher),
		auth.WithLogger(s.logger),
	)

	s.debouncer = persistence.NewDebouncer(cfg.Cart.PersistDebounce, s.onWriteFailed)

	loaded, err := s.adapter.LoadCart(ctx)
	if err != nil {
		s.report("New", err)
	}
	s.cart = loaded

	current, signedIn, err := s.auth.Current(ctx)
	if err != nil {
		s.report("New", err)
	} else if signedIn {
		s.userID = current.Email
	}
	s.flushNotices()

	s.logger.Info("Storefront ready",
		"memory", cfg.Memory.Provider,
		"products", len(s.catalog.Products()),
		"cart_items", s.cart.Len())
	return s, nil
}

// AddToCart adds one unit of productID, or appends it with quantity 1.
func (s *Storefront) AddToCart(ctx context.Context, productID int) error {
	return s.track(ctx, "AddToCart", func(ctx context.Context) error {
		return s.mutate(func(c cart.Cart) (cart.Cart, error) {
			return c.AddOrIncrement(productID, s.catalog)
		})
	}, attribute.Int("product.id", productID))
}

// RemoveFromCart drops the line for productID. Missing lines are ignored.
func (s *Storefront) RemoveFromCart(ctx context.Context, productID int) error {
	return s.track(ctx, "RemoveFromCart", func(ctx context.Context) error {
		return s.mutate(func(c cart.Cart) (cart.Cart, error) {
			return c.Remove(productID), nil
		})
	}, attribute.Int("product.id", productID))
}

// SetQuantity replaces the quantity of an existing line.
func (s *Storefront) SetQuantity(ctx context.Context, productID, quantity int) error {
	return s.track(ctx, "SetQuantity", func(ctx context.Context) error {
		return s.mutate(func(c cart.Cart) (cart.Cart, error) {
			return c.SetQuantity(productID, quantity)
		})
	}, attribute.Int("product.id", productID), attribute.Int("quantity", quantity))
}

// ClearCart empties the cart.
func (s *Storefront) ClearCart(ctx context.Context) error {
	return s.track(ctx, "ClearCart", func(ctx context.Context) error {
		return s.mutate(func(c cart.Cart) (cart.Cart, error) {
			return c.Clear(), nil
		})
	})
}

// Cart returns the current cart.
func (s *Storefront) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Summary returns the order summary of the current cart.
func (s *Storefront) Summary() pricing.OrderSummary {
	return s.rules.Summarize(s.Cart().Subtotal())
}

// CartCount is the number of units in the cart, shown on the cart icon.
func (s *Storefront) CartCount() int {
	return s.Cart().TotalQuantity()
}

// Catalog returns the shared product catalog.
func (s *Storefront) Catalog() catalog.Catalog {
	return s.catalog
}

// Browse filters and sorts the catalog.
func (s *Storefront) Browse(q catalog.Query) []catalog.Product {
	return catalog.Browse(s.catalog.Products(), q)
}

// SavedForLater returns the persisted saved-for-later list.
func (s *Storefront) SavedForLater(ctx context.Context) (cart.Cart, error) {
	var saved cart.Cart
	err := s.track(ctx, "SavedForLater", func(ctx context.Context) error {
		var err error
		saved, err = s.adapter.LoadSavedForLater(ctx)
		return err
	})
	return saved, err
}

// Session returns the signed-in user, if any.
func (s *Storefront) Session(ctx context.Context) (auth.User, bool, error) {
	var (
		user   auth.User
		signed bool
	)
	err := s.track(ctx, "Session", func(ctx context.Context) error {
		var err error
		user, signed, err = s.auth.Current(ctx)
		return err
	})
	return user, signed, err
}

// SignUp validates the form, registers the user and signs them in. The
// home page follows after the redirect delay.
func (s *Storefront) SignUp(ctx context.Context, form auth.SignUpForm) (auth.User, error) {
	var user auth.User
	err := s.track(ctx, "SignUp", func(ctx context.Context) error {
		form = form.Normalize()
		if err := form.Validate(); err != nil {
			return err
		}
		var err error
		user, err = s.auth.Register(ctx, form.Username, form.Email, form.Password)
		if err != nil {
			return err
		}
		s.setUser(user.Email)
		s.navigateLater(PageHome)
		return nil
	})
	return user, err
}

// SignIn validates the form and signs the matching user in. The home page
// follows after the redirect delay.
func (s *Storefront) SignIn(ctx context.Context, form auth.SignInForm) (auth.User, error) {
	var user auth.User
	err := s.track(ctx, "SignIn", func(ctx context.Context) error {
		form = form.Normalize()
		if err := form.Validate(); err != nil {
			return err
		}
		var err error
		user, err = s.auth.SignIn(ctx, form.Email, form.Password)
		if err != nil {
			return err
		}
		s.setUser(user.Email)
		s.navigateLater(PageHome)
		return nil
	})
	return user, err
}

// SignOut clears the session.
func (s *Storefront) SignOut(ctx context.Context) error {
	return s.track(ctx, "SignOut", func(ctx context.Context) error {
		if err := s.auth.SignOut(ctx); err != nil {
			return err
		}
		s.setUser("")
		return nil
	})
}

// PlaceOrder checks out the current cart. On success the cart is cleared
// and the home page follows after the redirect delay.
func (s *Storefront) PlaceOrder(ctx context.Context, form checkout.Form) (checkout.Order, error) {
	var order checkout.Order
	err := s.track(ctx, "PlaceOrder", func(ctx context.Context) error {
		var placeErr error
		err := s.mutate(func(c cart.Cart) (cart.Cart, error) {
			order, placeErr = checkout.Place(form, c, s.rules, s.clock())
			if placeErr != nil {
				return c, placeErr
			}
			return c.Clear(), nil
		})
		if err != nil {
			return err
		}
		s.logger.Info("Order placed",
			"order_id", order.ID,
			"items", len(order.Items),
			"total", order.Summary.Total.StringFixed(2))
		s.navigateLater(PageHome)
		return nil
	})
	return order, err
}

// OpenCart goes to the cart page unless the cart is empty.
func (s *Storefront) OpenCart(ctx context.Context) error {
	return s.track(ctx, "OpenCart", func(ctx context.Context) error {
		if s.Cart().IsEmpty() {
			return checkout.ErrCartEmpty
		}
		if s.navigate != nil {
			s.navigate(PageCart)
		}
		return nil
	})
}

// Flush writes a pending cart snapshot now.
func (s *Storefront) Flush(ctx context.Context) error {
	return s.track(ctx, "Flush", s.debouncer.Flush)
}

// Close flushes the cart, cancels pending navigation and releases the
// resources New created. Later operations fail with ErrClosed.
func (s *Storefront) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.navMu.Lock()
	s.navClosed = true
	for _, t := range s.navTimers {
		t.Stop()
	}
	s.navTimers = nil
	s.navMu.Unlock()

	var errs []error
	if err := s.debouncer.Close(ctx); err != nil {
		errs = append(errs, NewError("Close", err))
		s.report("Close", err)
		s.flushNotices()
	}
	if s.ownedTelemetry {
		if err := s.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
	}
	if closer, ok := s.ownedMemory.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("memory close: %w", err))
		}
	}
	if syncer, ok := s.logger.(interface{ Sync() error }); ok {
		_ = syncer.Sync()
	}
	return errors.Join(errs...)
}

// mutate applies fn to the cart under the lock, schedules the write and
// queues the change notification. The cart is unchanged when fn fails.
func (s *Storefront) mutate(fn func(cart.Cart) (cart.Cart, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next, err := fn(s.cart)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.cart = next
	s.mu.Unlock()

	s.debouncer.Trigger(s.persistCart)
	summary := s.rules.Summarize(next.Subtotal())
	s.queue(func(o Observer) { o.OnCartChanged(next, summary) })
	return nil
}

// persistCart writes whatever the cart holds when the write runs.
func (s *Storefront) persistCart(ctx context.Context) error {
	return s.adapter.SaveCart(ctx, s.Cart())
}

func (s *Storefront) navigateLater(page string) {
	if s.navigate == nil {
		return
	}
	delay := s.config.Navigation.RedirectDelay
	if delay <= 0 {
		if !s.isClosed() {
			s.navigate(page)
		}
		return
	}

	s.navMu.Lock()
	defer s.navMu.Unlock()
	if s.navClosed {
		return
	}
	s.navTimers = append(s.navTimers, time.AfterFunc(delay, func() {
		s.navigate(page)
	}))
}

// track runs fn inside a span, records its outcome and delivers queued
// notifications. Failures come back as *Error and are reported to the
// observer.
func (s *Storefront) track(ctx context.Context, op string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	s.mu.Lock()
	closed, userID := s.closed, s.userID
	s.mu.Unlock()
	if closed {
		return NewError(op, ErrClosed)
	}

	ctx = telemetry.WithCorrelationID(telemetry.WithSessionID(ctx, s.sessionID))
	if userID != "" {
		ctx = telemetry.WithUserID(ctx, userID)
	}
	ctx, span := s.telemetry.StartOperation(ctx, op, attrs...)
	start := time.Now()

	err := fn(ctx)

	s.telemetry.RecordOperation(ctx, op, time.Since(start), err)
	telemetry.EndSpan(span, err)

	if err != nil {
		serr := NewError(op, err)
		s.logger.WithFields(telemetry.EnrichLogFields(ctx, map[string]interface{}{
			"operation": op,
			"kind":      string(serr.Kind),
		})).Warn("Operation failed", "error", err.Error())
		s.queue(func(o Observer) { o.OnError(serr.Kind, serr.Message) })
		s.flushNotices()
		return serr
	}
	s.flushNotices()
	return nil
}

func (s *Storefront) setUser(email string) {
	s.mu.Lock()
	s.userID = email
	s.mu.Unlock()
}

func (s *Storefront) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// report queues an error notice for failures that do not fail the caller.
func (s *Storefront) report(op string, err error) {
	serr := NewError(op, err)
	s.logger.Error("Background failure", "operation", op, "kind", string(serr.Kind), "error", err.Error())
	s.queue(func(o Observer) { o.OnError(serr.Kind, serr.Message) })
}

func (s *Storefront) onMalformed(key string, err error) {
	serr := NewError("Load", err)
	s.queue(func(o Observer) { o.OnError(serr.Kind, serr.Message) })
}

// onWriteFailed receives timer-driven write failures.
func (s *Storefront) onWriteFailed(err error) {
	s.report("PersistCart", err)
	s.flushNotices()
}

func (s *Storefront) queue(n func(Observer)) {
	s.noticeMu.Lock()
	s.notices = append(s.notices, n)
	s.noticeMu.Unlock()
}

func (s *Storefront) flushNotices() {
	s.noticeMu.Lock()
	pending := s.notices
	s.notices = nil
	s.noticeMu.Unlock()

	for _, n := range pending {
		n(s.observer)
	}
}

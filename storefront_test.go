package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

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

type errorEvent struct {
	kind    ErrorKind
	message string
}

// recorder captures observer calls and navigation.
type recorder struct {
	mu      sync.Mutex
	changes []cart.Cart
	summary []pricing.OrderSummary
	errors  []errorEvent
	pages   []string
}

func (r *recorder) OnCartChanged(c cart.Cart, s pricing.OrderSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	r.summary = append(r.summary, s)
}

func (r *recorder) OnError(kind ErrorKind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, errorEvent{kind, message})
}

func (r *recorder) navigate(page string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, page)
}

func (r *recorder) errorEvents() []errorEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]errorEvent(nil), r.errors...)
}

func (r *recorder) changeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func (r *recorder) visited() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.pages...)
}

// testConfig writes synchronously and navigates immediately.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Cart.PersistDebounce = 0
	cfg.Navigation.RedirectDelay = 0
	return cfg
}

func newTestStorefront(t *testing.T, cfg *Config, mem memory.Memory) (*Storefront, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := New(context.Background(), cfg, Dependencies{
		Memory:    mem,
		Observer:  rec,
		Navigator: rec.navigate,
		Logger:    logger.NoOpLogger{},
		Telemetry: telemetry.NewNoOp(),
		Clock:     func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, rec
}

// failingWrites rejects every Set.
type failingWrites struct {
	*memory.InMemoryStore
}

func (failingWrites) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("quota exceeded")
}

func TestStorefront_AddToCart(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	s, rec := newTestStorefront(t, testConfig(), mem)

	require.NoError(t, s.AddToCart(ctx, 1))
	require.NoError(t, s.AddToCart(ctx, 1))
	require.NoError(t, s.AddToCart(ctx, 3))

	c := s.Cart()
	require.Equal(t, 2, c.Len())
	item, ok := c.Find(1)
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 3, s.CartCount())
	assert.Equal(t, "191.1", c.Subtotal().String())

	assert.Equal(t, 3, rec.changeCount())
	summary := rec.summary[2]
	assert.True(t, summary.Discount.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "145.1", summary.Total.String())

	raw, err := mem.Get(ctx, persistence.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"name":"T-shirts with multiple colors, for men","price":10.3,"quantity":2,"image":"assets/images/tshirt.jpg"},
		{"id":3,"name":"Table Lamp","price":170.5,"quantity":1,"image":"assets/images/lamp.jpg"}
	]`, raw)
}

func TestStorefront_QuantityCap(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestStorefront(t, testConfig(), nil)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.AddToCart(ctx, 1+i%3))
	}
	before := s.Cart()

	err := s.AddToCart(ctx, 5)
	require.Error(t, err)
	assert.True(t, IsQuantityLimit(err))
	assert.Equal(t, KindQuantityLimitExceeded, KindOf(err))
	assert.Equal(t, before, s.Cart())
	assert.Equal(t, 10, s.CartCount())

	events := rec.errorEvents()
	require.Len(t, events, 1)
	assert.Equal(t, errorEvent{KindQuantityLimitExceeded, "Maximum cart quantity (10) reached"}, events[0])
	assert.Equal(t, 10, rec.changeCount())
}

func TestStorefront_UnknownProduct(t *testing.T) {
	s, rec := newTestStorefront(t, testConfig(), nil)

	err := s.AddToCart(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "AddToCart", serr.Op)
	assert.Equal(t, "Error: Product not found", serr.Message)
	assert.True(t, s.Cart().IsEmpty())
	assert.Zero(t, rec.changeCount())
}

func TestStorefront_RemoveAndSetQuantity(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestStorefront(t, testConfig(), nil)

	require.NoError(t, s.AddToCart(ctx, 2))
	require.NoError(t, s.AddToCart(ctx, 4))

	require.NoError(t, s.SetQuantity(ctx, 2, 5))
	item, _ := s.Cart().Find(2)
	assert.Equal(t, 5, item.Quantity)

	err := s.SetQuantity(ctx, 2, 0)
	assert.Equal(t, KindInvalidQuantity, KindOf(err))

	err = s.SetQuantity(ctx, 7, 1)
	assert.Equal(t, KindProductNotFound, KindOf(err))

	require.NoError(t, s.RemoveFromCart(ctx, 2))
	require.NoError(t, s.RemoveFromCart(ctx, 2))
	assert.Equal(t, 1, s.Cart().Len())

	require.NoError(t, s.ClearCart(ctx))
	assert.True(t, s.Cart().IsEmpty())
	assert.Equal(t, 6, rec.changeCount())
}

func TestStorefront_Summary(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStorefront(t, testConfig(), nil)

	empty := s.Summary()
	assert.True(t, empty.Subtotal.IsZero())
	assert.True(t, empty.Discount.IsZero())
	assert.True(t, empty.Tax.Equal(decimal.NewFromInt(14)))

	require.NoError(t, s.AddToCart(ctx, 12))
	summary := s.Summary()
	// 100 is not above the threshold
	assert.True(t, summary.Discount.IsZero())
	assert.Equal(t, "114", summary.Total.String())
}

func TestStorefront_CustomPricing(t *testing.T) {
	cfg := testConfig()
	cfg.Pricing.FlatTax = decimal.Zero
	s, _ := newTestStorefront(t, cfg, nil)

	require.NoError(t, s.AddToCart(context.Background(), 7))
	assert.Equal(t, "99.5", s.Summary().Total.String())
}

func TestStorefront_LoadsPersistedCart(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	require.NoError(t, mem.Set(ctx, persistence.KeyCart,
		`[{"id":4,"name":"Samsung Galaxy Pad 5","price":699.5,"quantity":2,"image":"assets/images/galaxypad.jpg"}]`, 0))

	s, rec := newTestStorefront(t, testConfig(), mem)

	assert.Equal(t, 2, s.CartCount())
	assert.Equal(t, "1399", s.Cart().Subtotal().String())
	assert.Empty(t, rec.errorEvents())
}

func TestStorefront_MalformedCartReportedOnce(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	require.NoError(t, mem.Set(ctx, persistence.KeyCart, `{not json`, 0))

	s, rec := newTestStorefront(t, testConfig(), mem)

	assert.True(t, s.Cart().IsEmpty())
	events := rec.errorEvents()
	require.Len(t, events, 1)
	assert.Equal(t, KindPersistenceReadMalformed, events[0].kind)

	require.NoError(t, s.AddToCart(ctx, 1))
	assert.Len(t, rec.errorEvents(), 1)
}

func TestStorefront_WriteFailureReported(t *testing.T) {
	s, rec := newTestStorefront(t, testConfig(), failingWrites{memory.NewInMemoryStore()})

	// the mutation itself succeeds; the write failure is surfaced separately
	require.NoError(t, s.AddToCart(context.Background(), 1))
	assert.Equal(t, 1, s.CartCount())

	events := rec.errorEvents()
	require.Len(t, events, 1)
	assert.Equal(t, errorEvent{KindPersistenceWriteFailed, "Error saving cart"}, events[0])
}

func TestStorefront_DebouncedPersistence(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	cfg := testConfig()
	cfg.Cart.PersistDebounce = time.Hour
	s, _ := newTestStorefront(t, cfg, mem)

	require.NoError(t, s.AddToCart(ctx, 1))
	require.NoError(t, s.AddToCart(ctx, 2))

	_, err := mem.Get(ctx, persistence.KeyCart)
	assert.ErrorIs(t, err, memory.ErrKeyNotFound)

	require.NoError(t, s.Flush(ctx))
	raw, err := mem.Get(ctx, persistence.KeyCart)
	require.NoError(t, err)

	var stored cart.Cart
	require.NoError(t, stored.UnmarshalJSON([]byte(raw)))
	assert.Equal(t, 2, stored.Len())
}

func TestStorefront_DebounceWindowElapses(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	cfg := testConfig()
	cfg.Cart.PersistDebounce = 20 * time.Millisecond
	s, _ := newTestStorefront(t, cfg, mem)

	require.NoError(t, s.AddToCart(ctx, 1))
	require.NoError(t, s.AddToCart(ctx, 1))

	assert.Eventually(t, func() bool {
		raw, err := mem.Get(ctx, persistence.KeyCart)
		return err == nil && raw != ""
	}, time.Second, 5*time.Millisecond)
}

func TestStorefront_CloseFlushes(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	cfg := testConfig()
	cfg.Cart.PersistDebounce = time.Hour

	s, err := New(ctx, cfg, Dependencies{Memory: mem, Logger: logger.NoOpLogger{}, Telemetry: telemetry.NewNoOp()})
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(ctx, 3))
	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))

	reopened, err := New(ctx, cfg, Dependencies{Memory: mem, Logger: logger.NoOpLogger{}, Telemetry: telemetry.NewNoOp()})
	require.NoError(t, err)
	defer reopened.Close(ctx)
	assert.Equal(t, 1, reopened.CartCount())
}

func TestStorefront_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestStorefront(t, testConfig(), nil)

	user, err := s.SignUp(ctx, auth.SignUpForm{
		Username:        "  ada ",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, []string{PageHome}, rec.visited())

	current, ok, err := s.Session(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", current.Email)

	require.NoError(t, s.SignOut(ctx))
	_, ok, err = s.Session(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.SignIn(ctx, auth.SignInForm{Email: "ada@example.com", Password: "wrong-pass"})
	assert.True(t, IsAuthFailure(err))
	_, ok, _ = s.Session(ctx)
	assert.False(t, ok)

	_, err = s.SignIn(ctx, auth.SignInForm{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, ok, _ = s.Session(ctx)
	assert.True(t, ok)
	assert.Equal(t, []string{PageHome, PageHome}, rec.visited())

	assert.Equal(t, []errorEvent{{KindInvalidCredentials, "Invalid email or password"}}, rec.errorEvents())
}

func TestStorefront_SignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	s, rec := newTestStorefront(t, testConfig(), mem)
	form := auth.SignUpForm{Username: "ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"}

	_, err := s.SignUp(ctx, form)
	require.NoError(t, err)
	_, err = s.SignUp(ctx, form)
	assert.Equal(t, KindEmailTaken, KindOf(err))

	users, err := persistence.NewAdapter(mem).LoadUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "Email already registered", rec.errorEvents()[0].message)
}

func TestStorefront_FormValidation(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestStorefront(t, testConfig(), nil)

	_, err := s.SignUp(ctx, auth.SignUpForm{Username: "ada", Email: "ada@example.com", Password: "abc", ConfirmPassword: "abc"})
	assert.Equal(t, KindValidationFailed, KindOf(err))

	_, err = s.SignIn(ctx, auth.SignInForm{Email: "not-an-email", Password: "secret1"})
	assert.Equal(t, KindValidationFailed, KindOf(err))

	assert.Equal(t, []errorEvent{
		{KindValidationFailed, "Password must be at least 6 characters long"},
		{KindValidationFailed, "Please enter a valid email address"},
	}, rec.errorEvents())
	assert.Empty(t, rec.visited())
}

func TestStorefront_PasswordHashing(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	cfg := testConfig()
	cfg.Auth.HashPasswords = true
	cfg.Auth.BcryptCost = 4
	s, _ := newTestStorefront(t, cfg, mem)

	_, err := s.SignUp(ctx, auth.SignUpForm{Username: "ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)

	users, err := persistence.NewAdapter(mem).LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NotEqual(t, "secret1", users[0].Password)

	require.NoError(t, s.SignOut(ctx))
	_, err = s.SignIn(ctx, auth.SignInForm{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
}

func validCheckout() checkout.Form {
	return checkout.Form{
		FullName:      "Ada Lovelace",
		Email:         "ada@example.com",
		Address:       "12 Analytical Row",
		City:          "London",
		ZIP:           "12345",
		PaymentMethod: "Credit Card",
	}
}

func TestStorefront_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestStorefront(t, testConfig(), nil)

	_, err := s.PlaceOrder(ctx, validCheckout())
	assert.Equal(t, KindCartEmpty, KindOf(err))

	require.NoError(t, s.AddToCart(ctx, 3))
	bad := validCheckout()
	bad.ZIP = "1234"
	_, err = s.PlaceOrder(ctx, bad)
	assert.Equal(t, KindValidationFailed, KindOf(err))
	assert.Equal(t, 1, s.CartCount())

	order, err := s.PlaceOrder(ctx, validCheckout())
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "124.5", order.Summary.Total.String())
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), order.PlacedAt)

	assert.True(t, s.Cart().IsEmpty())
	assert.Equal(t, []string{PageHome}, rec.visited())

	events := rec.errorEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "Your cart is empty", events[0].message)
	assert.Equal(t, "Please enter a valid 5-digit ZIP code", events[1].message)
}

func TestStorefront_OpenCart(t *testing.T) {
	ctx := context.Background()
	s, rec := newTestStorefront(t, testConfig(), nil)

	err := s.OpenCart(ctx)
	assert.Equal(t, KindCartEmpty, KindOf(err))
	assert.Empty(t, rec.visited())

	require.NoError(t, s.AddToCart(ctx, 1))
	require.NoError(t, s.OpenCart(ctx))
	assert.Equal(t, []string{PageCart}, rec.visited())
}

func TestStorefront_DelayedNavigation(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Navigation.RedirectDelay = 10 * time.Millisecond
	s, rec := newTestStorefront(t, cfg, nil)

	_, err := s.SignUp(ctx, auth.SignUpForm{Username: "ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Empty(t, rec.visited())

	assert.Eventually(t, func() bool {
		return len(rec.visited()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestStorefront_CloseCancelsNavigation(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Navigation.RedirectDelay = 50 * time.Millisecond
	s, rec := newTestStorefront(t, cfg, nil)

	_, err := s.SignUp(ctx, auth.SignUpForm{Username: "ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.visited())
}

func TestStorefront_RejectsAfterClose(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Navigation.RedirectDelay = 10 * time.Millisecond
	s, rec := newTestStorefront(t, cfg, nil)
	require.NoError(t, s.Close(ctx))

	err := s.AddToCart(ctx, 1)
	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, KindClosed, KindOf(err))
	assert.Equal(t, 0, s.CartCount())

	_, err = s.SignUp(ctx, auth.SignUpForm{Username: "ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	assert.ErrorIs(t, err, ErrClosed)

	s.navigateLater(PageHome)
	s.navMu.Lock()
	pending := len(s.navTimers)
	s.navMu.Unlock()
	assert.Zero(t, pending)

	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, rec.visited())
	assert.Zero(t, rec.changeCount())
	assert.Empty(t, rec.errorEvents())
}

func TestStorefront_SpansCarryUserID(t *testing.T) {
	ctx := context.Background()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tel, err := telemetry.NewWithProviders(tp, metricnoop.NewMeterProvider(), "test")
	require.NoError(t, err)
	mem := memory.NewInMemoryStore()

	s, err := New(ctx, testConfig(), Dependencies{Memory: mem, Logger: logger.NoOpLogger{}, Telemetry: tel})
	require.NoError(t, err)

	userOf := func(span sdktrace.ReadOnlySpan) string {
		for _, kv := range span.Attributes() {
			if kv.Key == "user.id" {
				return kv.Value.AsString()
			}
		}
		return ""
	}
	last := func() sdktrace.ReadOnlySpan {
		spans := sr.Ended()
		require.NotEmpty(t, spans)
		return spans[len(spans)-1]
	}

	require.NoError(t, s.AddToCart(ctx, 1))
	assert.Empty(t, userOf(last()))

	_, err = s.SignUp(ctx, auth.SignUpForm{Username: "ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(ctx, 2))
	assert.Equal(t, "ada@example.com", userOf(last()))
	require.NoError(t, s.Close(ctx))

	// A persisted session is picked up on startup.
	reopened, err := New(ctx, testConfig(), Dependencies{Memory: mem, Logger: logger.NoOpLogger{}, Telemetry: tel})
	require.NoError(t, err)
	defer reopened.Close(ctx)
	require.NoError(t, reopened.AddToCart(ctx, 3))
	assert.Equal(t, "ada@example.com", userOf(last()))

	require.NoError(t, reopened.SignOut(ctx))
	require.NoError(t, reopened.AddToCart(ctx, 4))
	assert.Empty(t, userOf(last()))
}

func TestStorefront_Browse(t *testing.T) {
	s, _ := newTestStorefront(t, testConfig(), nil)

	products := s.Browse(catalog.Query{Categories: []string{"Smartphones"}, Sort: catalog.SortLowestPrice})
	require.Len(t, products, 3)
	assert.Equal(t, []int{6, 5, 10}, []int{products[0].ID, products[1].ID, products[2].ID})

	assert.Len(t, s.Browse(catalog.Query{}), s.Catalog().(*catalog.StaticCatalog).Len())
}

func TestStorefront_SavedForLater(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemoryStore()
	adapter := persistence.NewAdapter(mem)
	require.NoError(t, adapter.SaveSavedForLater(ctx, cart.New(cart.LineItem{
		ID: 11, Name: "Headphones Sony WH-1000XM4", Price: decimal.RequireFromString("348"), Quantity: 1,
	})))

	s, _ := newTestStorefront(t, testConfig(), mem)
	saved, err := s.SavedForLater(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Len())
	assert.True(t, s.Cart().IsEmpty())
}

func TestStorefront_ObserverMayCallBack(t *testing.T) {
	ctx := context.Background()
	var s *Storefront
	var counts []int
	obs := ObserverFuncs{
		CartChanged: func(c cart.Cart, _ pricing.OrderSummary) {
			counts = append(counts, s.CartCount())
		},
	}

	var err error
	s, err = New(ctx, testConfig(), Dependencies{Observer: obs, Logger: logger.NoOpLogger{}, Telemetry: telemetry.NewNoOp()})
	require.NoError(t, err)
	defer s.Close(ctx)

	require.NoError(t, s.AddToCart(ctx, 1))
	require.NoError(t, s.AddToCart(ctx, 2))
	assert.Equal(t, []int{1, 2}, counts)
}

func TestStorefront_Tracing(t *testing.T) {
	ctx := context.Background()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tel, err := telemetry.NewWithProviders(tp, metricnoop.NewMeterProvider(), "test")
	require.NoError(t, err)

	s, err := New(ctx, testConfig(), Dependencies{Logger: logger.NoOpLogger{}, Telemetry: tel})
	require.NoError(t, err)
	defer s.Close(ctx)

	require.NoError(t, s.AddToCart(ctx, 1))
	_ = s.AddToCart(ctx, 404)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "storefront.AddToCart", spans[0].Name())
	assert.Equal(t, "storefront.AddToCart", spans[1].Name())
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}

func TestStorefront_RedisBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mem := memory.NewRedisMemoryWithClient(client, "shop")

	s, _ := newTestStorefront(t, testConfig(), mem)
	require.NoError(t, s.AddToCart(ctx, 9))

	raw, err := mr.Get("shop:cart")
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":9`)

	other, _ := newTestStorefront(t, testConfig(), memory.NewRedisMemoryWithClient(client, "shop"))
	assert.Equal(t, 1, other.CartCount())
}

func TestStorefront_RedisFromConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Memory.Provider = memory.ProviderRedis
	cfg.Memory.RedisURL = "redis://" + mr.Addr()

	s, _ := newTestStorefront(t, cfg, nil)
	require.NoError(t, s.AddToCart(context.Background(), 2))
	assert.True(t, mr.Exists("storefront:cart"))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Memory.Provider = "etcd"

	_, err := New(context.Background(), cfg, Dependencies{})
	assert.True(t, IsConfigurationError(err))
}

func TestNew_CatalogFileMissing(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.File = "/nonexistent/catalog.yaml"

	_, err := New(context.Background(), cfg, Dependencies{Logger: logger.NoOpLogger{}, Telemetry: telemetry.NewNoOp()})
	assert.Equal(t, KindConfiguration, KindOf(err))
}

package storefront

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/itsneelabh/storefront/pkg/logger"
	"github.com/itsneelabh/storefront/pkg/memory"
	"github.com/itsneelabh/storefront/pkg/persistence"
	"github.com/itsneelabh/storefront/pkg/pricing"
	"github.com/itsneelabh/storefront/pkg/telemetry"
)

// Config holds all storefront settings. Priority, lowest first:
//  1. DefaultConfig
//  2. Environment variables (LoadFromEnv)
//  3. Functional options, including WithConfigFile
//
// Example usage:
//
//	cfg, err := NewConfig(
//	    WithMemoryProvider(memory.ProviderRedis),
//	    WithRedisURL("redis://localhost:6379"),
//	    WithLogLevel("debug"),
//	)
type Config struct {
	Name       string           `json:"name" yaml:"name" env:"STOREFRONT_NAME" default:"storefront"`
	Memory     MemoryConfig     `json:"memory" yaml:"memory"`
	Cart       CartConfig       `json:"cart" yaml:"cart"`
	Pricing    PricingConfig    `json:"pricing" yaml:"pricing"`
	Navigation NavigationConfig `json:"navigation" yaml:"navigation"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Auth       AuthConfig       `json:"auth" yaml:"auth"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Telemetry  telemetry.Config `json:"telemetry" yaml:"telemetry"`
}

// MemoryConfig selects the key-value backend.
type MemoryConfig struct {
	Provider  string        `json:"provider" yaml:"provider" env:"STOREFRONT_MEMORY_PROVIDER" default:"inmemory"`
	RedisURL  string        `json:"redis_url" yaml:"redis_url" env:"STOREFRONT_REDIS_URL,REDIS_URL"`
	Namespace string        `json:"namespace" yaml:"namespace" env:"STOREFRONT_NAMESPACE" default:"storefront"`
	TTL       time.Duration `json:"ttl" yaml:"ttl" env:"STOREFRONT_MEMORY_TTL" default:"0"`
}

// CartConfig controls cart persistence.
type CartConfig struct {
	PersistDebounce time.Duration `json:"persist_debounce" yaml:"persist_debounce" env:"STOREFRONT_PERSIST_DEBOUNCE" default:"300ms"`
}

// PricingConfig mirrors pricing.Rules.
type PricingConfig struct {
	DiscountThreshold decimal.Decimal `json:"discount_threshold" yaml:"discount_threshold"`
	FlatDiscount      decimal.Decimal `json:"flat_discount" yaml:"flat_discount"`
	FlatTax           decimal.Decimal `json:"flat_tax" yaml:"flat_tax"`
}

// Rules converts the config to pricing.Rules.
func (p PricingConfig) Rules() pricing.Rules {
	return pricing.Rules{
		DiscountThreshold: p.DiscountThreshold,
		FlatDiscount:      p.FlatDiscount,
		FlatTax:           p.FlatTax,
	}
}

// NavigationConfig controls the page changes after successful forms.
type NavigationConfig struct {
	RedirectDelay time.Duration `json:"redirect_delay" yaml:"redirect_delay" env:"STOREFRONT_REDIRECT_DELAY" default:"2s"`
}

// CatalogConfig points at an optional catalog file. Empty uses the built-in
// catalog.
type CatalogConfig struct {
	File string `json:"file" yaml:"file" env:"STOREFRONT_CATALOG_FILE"`
}

// AuthConfig controls password storage.
type AuthConfig struct {
	HashPasswords bool `json:"hash_passwords" yaml:"hash_passwords" env:"STOREFRONT_HASH_PASSWORDS" default:"false"`
	BcryptCost    int  `json:"bcrypt_cost" yaml:"bcrypt_cost" env:"STOREFRONT_BCRYPT_COST" default:"10"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" env:"STOREFRONT_LOG_LEVEL" default:"info"`
	Format string `json:"format" yaml:"format" env:"STOREFRONT_LOG_FORMAT" default:"json"`
}

// Option is a functional option for configuring the storefront.
type Option func(*Config) error

// DefaultConfig returns a configuration with the storefront defaults.
func DefaultConfig() *Config {
	rules := pricing.DefaultRules()
	return &Config{
		Name: "storefront",
		Memory: MemoryConfig{
			Provider:  memory.ProviderInMemory,
			Namespace: "storefront",
		},
		Cart: CartConfig{
			PersistDebounce: persistence.DefaultDebounce,
		},
		Pricing: PricingConfig{
			DiscountThreshold: rules.DiscountThreshold,
			FlatDiscount:      rules.FlatDiscount,
			FlatTax:           rules.FlatTax,
		},
		Navigation: NavigationConfig{
			RedirectDelay: 2 * time.Second,
		},
		Auth: AuthConfig{
			BcryptCost: bcrypt.DefaultCost,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logger.FormatJSON,
		},
		Telemetry: telemetry.Config{
			ServiceName: "storefront",
			Insecure:    true,
			SampleRatio: 1.0,
		},
	}
}

// LoadFromEnv overlays environment variables. Unparseable values are
// ignored.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("STOREFRONT_NAME"); v != "" {
		c.Name = v
	}

	// Memory settings
	if v := os.Getenv("STOREFRONT_MEMORY_PROVIDER"); v != "" {
		c.Memory.Provider = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_URL"); v != "" {
		c.Memory.RedisURL = v
	} else if v := os.Getenv("REDIS_URL"); v != "" {
		c.Memory.RedisURL = v
	}
	if v := os.Getenv("STOREFRONT_NAMESPACE"); v != "" {
		c.Memory.Namespace = v
	}
	if v := os.Getenv("STOREFRONT_MEMORY_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Memory.TTL = d
		}
	}

	// Timing settings
	if v := os.Getenv("STOREFRONT_PERSIST_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cart.PersistDebounce = d
		}
	}
	if v := os.Getenv("STOREFRONT_REDIRECT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Navigation.RedirectDelay = d
		}
	}

	if v := os.Getenv("STOREFRONT_CATALOG_FILE"); v != "" {
		c.Catalog.File = v
	}

	// Auth settings
	if v := os.Getenv("STOREFRONT_HASH_PASSWORDS"); v != "" {
		c.Auth.HashPasswords = parseBool(v)
	}
	if v := os.Getenv("STOREFRONT_BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			c.Auth.BcryptCost = cost
		}
	}

	// Logging settings
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("STOREFRONT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}

	// Telemetry settings
	if v := os.Getenv("STOREFRONT_TELEMETRY_ENABLED"); v != "" {
		c.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := os.Getenv("STOREFRONT_TELEMETRY_SAMPLE_RATIO"); v != "" {
		if ratio, err := strconv.ParseFloat(v, 64); err == nil {
			c.Telemetry.SampleRatio = ratio
		}
	}

	return nil
}

// LoadFromFile overlays a JSON or YAML file. Durations are strings such as
// "300ms" in YAML and nanosecond integers in JSON.
func (c *Config) LoadFromFile(path string) error {
	cleanPath := filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config file extension %s: %w", ext, ErrInvalidConfiguration)
	}

	data, err := os.ReadFile(cleanPath) // nosec G304 -- extension is validated
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %v: %w", err, ErrInvalidConfiguration)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %v: %w", err, ErrInvalidConfiguration)
		}
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Name == "" {
		return configError("storefront name is required", ErrMissingConfiguration)
	}

	switch c.Memory.Provider {
	case memory.ProviderInMemory:
	case memory.ProviderRedis:
		if c.Memory.RedisURL == "" {
			return configError("redis URL is required for the redis memory provider", ErrMissingConfiguration)
		}
	default:
		return configError(fmt.Sprintf("unknown memory provider %q", c.Memory.Provider), ErrInvalidConfiguration)
	}

	if c.Memory.TTL < 0 {
		return configError("memory TTL cannot be negative", ErrInvalidConfiguration)
	}
	if c.Cart.PersistDebounce < 0 {
		return configError("persist debounce cannot be negative", ErrInvalidConfiguration)
	}
	if c.Navigation.RedirectDelay < 0 {
		return configError("redirect delay cannot be negative", ErrInvalidConfiguration)
	}

	if c.Pricing.DiscountThreshold.IsNegative() || c.Pricing.FlatDiscount.IsNegative() || c.Pricing.FlatTax.IsNegative() {
		return configError("pricing amounts cannot be negative", ErrInvalidConfiguration)
	}

	if c.Auth.HashPasswords && (c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost) {
		return configError(fmt.Sprintf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost), ErrInvalidConfiguration)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return configError(fmt.Sprintf("invalid log level %q", c.Logging.Level), ErrInvalidConfiguration)
	}
	switch strings.ToLower(c.Logging.Format) {
	case logger.FormatJSON, logger.FormatConsole, "text":
	default:
		return configError(fmt.Sprintf("invalid log format %q", c.Logging.Format), ErrInvalidConfiguration)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return configError("telemetry sample ratio must be within [0, 1]", ErrInvalidConfiguration)
	}

	return nil
}

func configError(message string, kind error) *Error {
	return &Error{
		Op:      "Config.Validate",
		Kind:    KindConfiguration,
		Message: message,
		Err:     fmt.Errorf("%w: %s", kind, message),
	}
}

// NewConfig builds a validated Config from defaults, the environment and
// opts, in that order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// WithName sets the storefront name used in logs and telemetry.
func WithName(name string) Option {
	return func(c *Config) error {
		c.Name = name
		return nil
	}
}

// WithMemoryProvider selects the key-value backend.
func WithMemoryProvider(provider string) Option {
	return func(c *Config) error {
		c.Memory.Provider = provider
		return nil
	}
}

// WithRedisURL sets the Redis URL and switches to the Redis backend.
func WithRedisURL(url string) Option {
	return func(c *Config) error {
		c.Memory.RedisURL = url
		c.Memory.Provider = memory.ProviderRedis
		return nil
	}
}

// WithNamespace sets the key namespace for the Redis backend.
func WithNamespace(namespace string) Option {
	return func(c *Config) error {
		c.Memory.Namespace = namespace
		return nil
	}
}

// WithDebounce sets the cart persistence quiet period. Zero writes
// immediately.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("debounce cannot be negative: %w", ErrInvalidConfiguration)
		}
		c.Cart.PersistDebounce = d
		return nil
	}
}

// WithRedirectDelay sets the pause before navigating after a successful form.
func WithRedirectDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return fmt.Errorf("redirect delay cannot be negative: %w", ErrInvalidConfiguration)
		}
		c.Navigation.RedirectDelay = d
		return nil
	}
}

// WithCatalogFile loads products from a JSON or YAML file.
func WithCatalogFile(path string) Option {
	return func(c *Config) error {
		c.Catalog.File = path
		return nil
	}
}

// WithPasswordHashing stores passwords as bcrypt hashes.
func WithPasswordHashing(enabled bool) Option {
	return func(c *Config) error {
		c.Auth.HashPasswords = enabled
		return nil
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) Option {
	return func(c *Config) error {
		c.Logging.Level = level
		return nil
	}
}

// WithLogFormat sets the log format, json or console.
func WithLogFormat(format string) Option {
	return func(c *Config) error {
		c.Logging.Format = format
		return nil
	}
}

// WithTelemetry enables tracing and metrics, exporting to endpoint when
// it is not empty.
func WithTelemetry(enabled bool, endpoint string) Option {
	return func(c *Config) error {
		c.Telemetry.Enabled = enabled
		if endpoint != "" {
			c.Telemetry.Endpoint = endpoint
		}
		return nil
	}
}

// WithConfigFile overlays a JSON or YAML file.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		return c.LoadFromFile(path)
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// Package options configures binds and fills of form mappings.
package options

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"

	"formbind/binder"
	"formbind/coerce"
	"formbind/csrf"
	"formbind/primitive"
	"formbind/validation"
)

// DefaultMaxListIndex caps list indices taken from request parameters.
const DefaultMaxListIndex = 1000

// Config is shared by every node of a mapping tree unless a nested mapping carries its own.
// A Config must not be modified after it is handed to a mapping.
type Config struct {
	TrimInput     bool
	MaxListIndex  int
	Locale        language.Tag
	Formatters    *primitive.Registry
	ArgumentNames binder.ArgumentNameResolver
	Validator     validation.Validator
	TokenStore    csrf.Store
	TokenTTL      time.Duration
	Logger        *slog.Logger
}

// Option modifies a Config under construction.
type Option func(*Config)

// NormalizedArgumentNames matches construction argument names to properties ignoring case and separators.
var NormalizedArgumentNames binder.ArgumentNameResolver = binder.NormalizedArgumentNames

var defaultValidator = sync.OnceValue(func() validation.Validator {
	v, err := validation.NewPlaygroundValidator()
	if err != nil {
		panic(err)
	}

	return v
})

// New returns a Config with defaults applied after opts.
func New(opts ...Option) *Config {
	c := &Config{MaxListIndex: DefaultMaxListIndex, Locale: language.English}
	for _, opt := range opts {
		opt(c)
	}

	if c.Formatters == nil {
		c.Formatters = primitive.NewRegistry()
	}

	if c.ArgumentNames == nil {
		c.ArgumentNames = binder.DeclaredArgumentNames
	}

	if c.Validator == nil {
		c.Validator = defaultValidator()
	}

	if c.TokenTTL == 0 {
		c.TokenTTL = csrf.DefaultTTL
	}

	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	return c
}

var defaultConfig = sync.OnceValue(func() *Config { return New() })

// Default returns the shared default Config.
func Default() *Config {
	return defaultConfig()
}

func WithTrimInput(trim bool) Option {
	return func(c *Config) { c.TrimInput = trim }
}

// WithMaxListIndex caps list indices; a negative max disables the cap.
func WithMaxListIndex(maxIndex int) Option {
	return func(c *Config) { c.MaxListIndex = maxIndex }
}

func WithLocale(tag language.Tag) Option {
	return func(c *Config) { c.Locale = tag }
}

func WithFormatters(reg *primitive.Registry) Option {
	return func(c *Config) { c.Formatters = reg }
}

func WithArgumentNames(r binder.ArgumentNameResolver) Option {
	return func(c *Config) { c.ArgumentNames = r }
}

func WithValidator(v validation.Validator) Option {
	return func(c *Config) { c.Validator = v }
}

func WithTokenStore(s csrf.Store) Option {
	return func(c *Config) { c.TokenStore = s }
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(c *Config) { c.TokenTTL = ttl }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Binder returns a binder converting with the configured formatters for locale.
func (c *Config) Binder(locale language.Tag) binder.Binder {
	return binder.Binder{
		Converter:     coerce.Converter{Registry: c.Formatters, Locale: locale},
		ArgumentNames: c.ArgumentNames,
	}
}

// Guard returns the token guard of secured mappings.
func (c *Config) Guard() csrf.Guard {
	return csrf.Guard{Store: c.TokenStore, TTL: c.TokenTTL}
}

// CapsIndex reports whether index lies above the configured list cap.
func (c *Config) CapsIndex(index int) bool {
	return c.MaxListIndex >= 0 && index > c.MaxListIndex
}

package primitive

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/text/language"
)

// Formatter converts between display strings and values of one type.
// Parse must wrap ErrParse (or return any error, which the registry wraps) on malformed input.
type Formatter interface {
	Parse(s, pattern string, locale language.Tag) (any, error)
	Format(v any, pattern string, locale language.Tag) (string, error)
}

// Registry resolves formatters per type and falls back to the builtin scalar rules.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Formatter
}

// NewRegistry returns a registry with only the builtin scalar rules.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[reflect.Type]Formatter)}
}

// Register binds f to rtype, replacing a previous registration.
func (r *Registry) Register(rtype reflect.Type, f Formatter) {
	if f == nil {
		panic("formatter cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byType[rtype] = f
}

func (r *Registry) lookup(rtype reflect.Type) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byType[rtype]
	return f, ok
}

// CanHandle reports whether values of rtype can be parsed from a string.
func (r *Registry) CanHandle(rtype reflect.Type) bool {
	if _, ok := r.lookup(rtype); ok {
		return true
	}

	return Supports(rtype)
}

// CategoryOf returns the human-readable category of rtype.
func (r *Registry) CategoryOf(rtype reflect.Type) Category {
	if f, ok := r.lookup(rtype); ok {
		if c, ok := f.(Categorized); ok {
			return c.Category()
		}

		return CategoryObject
	}

	return BaseKind(rtype).Category()
}

// Parse converts s into a value of rtype. Every failure wraps ErrParse.
func (r *Registry) Parse(s string, rtype reflect.Type, pattern string, locale language.Tag) (reflect.Value, error) {
	f, ok := r.lookup(rtype)
	if !ok {
		return Parse(rtype, s, pattern)
	}

	v, err := f.Parse(s, pattern, locale)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %s: %w", ErrParse, rtype, err)
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Zero(rtype), nil
	}

	if !rv.Type().AssignableTo(rtype) {
		return reflect.Value{}, fmt.Errorf("%w: formatter for %s returned %s", ErrParse, rtype, rv.Type())
	}

	return rv, nil
}

// Format renders v for display.
func (r *Registry) Format(v reflect.Value, pattern string, locale language.Tag) (string, error) {
	if !v.IsValid() {
		return "", nil
	}

	if f, ok := r.lookup(v.Type()); ok {
		return f.Format(v.Interface(), pattern, locale)
	}

	return Format(v, pattern)
}

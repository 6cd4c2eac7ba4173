// Package form maps flat request parameters to trees of typed objects and back.
//
// A Mapping describes one object as named fields and nested mappings. It is
// built once and never changes: Fill returns a new Mapping holding display
// values, and Bind returns the bound object with its validation result while
// leaving the Mapping untouched. One Mapping may serve any number of
// concurrent fills and binds.
package form

import (
	"fmt"
	"reflect"
	"slices"

	"formbind/binder"
	"formbind/naming"
	"formbind/options"
	"formbind/validation"
)

// ErrConfiguration marks mis-declared forms. It is the binder's sentinel, so
// errors.Is matches configuration errors of both layers.
var ErrConfiguration = binder.ErrConfiguration

// Mapping is one node of a form tree.
type Mapping struct {
	path         string
	dataType     reflect.Type
	instantiator binder.Instantiator
	fields       []*Field
	nested       []*Mapping

	// item is the row template of a list mapping; rows are item indexed after path.
	item     *Mapping
	elements []*Mapping

	filled any
	result *validation.Result

	config     *options.Config
	userConfig bool
	required   bool
	secured    bool
}

// Path returns the full name of the mapping.
func (m *Mapping) Path() string { return m.path }

// DataType returns the struct type the mapping binds to.
func (m *Mapping) DataType() reflect.Type { return m.dataType }

func (m *Mapping) Instantiator() binder.Instantiator { return m.instantiator }

// Key returns the property name the mapping is nested under.
func (m *Mapping) Key() string { return naming.Last(m.path) }

// IsList reports whether the mapping stands for a list of objects.
func (m *Mapping) IsList() bool { return m.item != nil }

func (m *Mapping) IsSecured() bool { return m.secured }

func (m *Mapping) IsRequired() bool { return m.required }

// Config returns the effective configuration.
func (m *Mapping) Config() *options.Config { return m.config }

// HasUserConfig reports whether the configuration was set on this mapping rather than inherited.
func (m *Mapping) HasUserConfig() bool { return m.userConfig }

// Fields returns the fields ordered by order, then declaration.
func (m *Mapping) Fields() []*Field { return slices.Clone(m.fields) }

// Field returns the field bound to property.
func (m *Mapping) Field(property string) (*Field, bool) {
	for _, f := range m.fields {
		if f.property == property {
			return f, true
		}
	}

	return nil, false
}

// Nested returns the nested mappings in declaration order.
func (m *Mapping) Nested() []*Mapping { return slices.Clone(m.nested) }

// NestedMapping returns the nested mapping stored under key.
func (m *Mapping) NestedMapping(key string) (*Mapping, bool) {
	for _, n := range m.nested {
		if n.Key() == key {
			return n, true
		}
	}

	return nil, false
}

// Item returns the row template of a list mapping.
func (m *Mapping) Item() (*Mapping, bool) { return m.item, m.item != nil }

// Elements returns the filled rows of a list mapping.
func (m *Mapping) Elements() []*Mapping { return slices.Clone(m.elements) }

// FilledObject returns the object the mapping was filled from.
func (m *Mapping) FilledObject() any { return m.filled }

// ValidationResult returns the result the mapping was filled with; nil until filled.
func (m *Mapping) ValidationResult() *validation.Result { return m.result }

// IsFilled reports whether the mapping is the output of a fill.
func (m *Mapping) IsFilled() bool { return m.result != nil }

func (m *Mapping) shallow() *Mapping {
	c := *m
	c.fields = slices.Clone(m.fields)
	c.nested = slices.Clone(m.nested)
	c.elements = slices.Clone(m.elements)

	return &c
}

// WithPathPrefix returns a copy of the mapping moved below prefix: every path
// and field name gains prefix as first segment. It fails when the mapping
// already carries the prefix.
func (m *Mapping) WithPathPrefix(prefix string) (*Mapping, error) {
	return m.rename(func(p string) (string, error) { return naming.Prefix(p, prefix) })
}

// WithIndexAfterPathPrefix returns a copy of the mapping with "[index]"
// inserted right after prefix in every path and field name.
func (m *Mapping) WithIndexAfterPathPrefix(index int, prefix string) (*Mapping, error) {
	return m.rename(func(p string) (string, error) { return naming.WithIndex(p, index, prefix) })
}

func (m *Mapping) rename(fn func(string) (string, error)) (*Mapping, error) {
	path, err := fn(m.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	c := m.shallow()
	c.path = path

	for i, f := range m.fields {
		name, err := fn(f.name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}

		c.fields[i] = f.renamed(name)
	}

	for i, n := range m.nested {
		if c.nested[i], err = n.rename(fn); err != nil {
			return nil, err
		}
	}

	if m.item != nil {
		if c.item, err = m.item.rename(fn); err != nil {
			return nil, err
		}
	}

	for i, e := range m.elements {
		if c.elements[i], err = e.rename(fn); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// WithConfig returns a copy of the mapping using cfg. Nested mappings that
// carry their own configuration keep it.
func (m *Mapping) WithConfig(cfg *options.Config) *Mapping {
	return m.withConfig(cfg, true)
}

func (m *Mapping) withConfig(cfg *options.Config, user bool) *Mapping {
	c := m.shallow()
	c.config = cfg
	c.userConfig = user

	for i, n := range m.nested {
		if !n.userConfig {
			c.nested[i] = n.withConfig(cfg, false)
		}
	}

	if m.item != nil && !m.item.userConfig {
		c.item = m.item.withConfig(cfg, false)
	}

	for i, e := range m.elements {
		if !e.userConfig {
			c.elements[i] = e.withConfig(cfg, false)
		}
	}

	return c
}

// asList returns a list mapping with m as its row template.
func (m *Mapping) asList() *Mapping {
	return &Mapping{
		path:       m.path,
		dataType:   m.dataType,
		item:       m,
		config:     m.config,
		userConfig: m.userConfig,
		required:   m.required,
	}
}

func (m *Mapping) String() string {
	kind := "mapping"
	if m.IsList() {
		kind = "list"
	}

	return fmt.Sprintf("%s %q of %s", kind, m.path, m.dataType)
}

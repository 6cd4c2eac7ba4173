package form

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"

	"formbind/binder"
	"formbind/coerce"
	"formbind/naming"
	"formbind/options"
)

// Builder declares a Mapping. Builders are single use and not safe for concurrent use.
type Builder struct {
	path         string
	dataType     reflect.Type
	instantiator binder.Instantiator
	decls        []fieldDecl
	nested       []*Mapping
	auto         bool
	config       *options.Config
	required     bool
	secured      bool

	// stack holds the struct types of the enclosing auto-derived mappings.
	stack     []reflect.Type
	inherited *options.Config
	errs      []error
}

type fieldDecl struct {
	property string
	opts     []FieldOption
}

// New starts a mapping named path for the struct type of sample, which may be
// a struct value, a pointer to one or a reflect.Type.
func New(path string, sample any) *Builder {
	b := &Builder{path: path}

	switch s := sample.(type) {
	case nil:
		b.fail("%s: no data type", path)
		return b
	case reflect.Type:
		b.dataType = coerce.Base(s)
	default:
		b.dataType = coerce.Base(reflect.TypeOf(s))
	}

	if b.dataType.Kind() != reflect.Struct {
		b.fail("%s: %s is not a struct type", path, b.dataType)
	}

	if !naming.ValidIdent(path) {
		b.fail("invalid mapping path %q", path)
	}

	return b
}

// For starts a mapping named path for T.
func For[T any](path string) *Builder {
	return New(path, reflect.TypeFor[T]())
}

func (b *Builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...))
}

func (b *Builder) declared(key string) bool {
	for _, d := range b.decls {
		if d.property == key {
			return true
		}
	}

	for _, n := range b.nested {
		if n.Key() == key {
			return true
		}
	}

	return false
}

// Field declares a field bound to property.
func (b *Builder) Field(property string, opts ...FieldOption) *Builder {
	switch {
	case property == naming.AuthTokenField:
		b.fail("%s: %q is reserved", b.path, property)
	case !naming.ValidIdent(property):
		b.fail("%s: invalid property name %q", b.path, property)
	case b.declared(property):
		b.fail("%s: %q declared twice", b.path, property)
	default:
		b.decls = append(b.decls, fieldDecl{property: property, opts: opts})
	}

	return b
}

// Nested adds m as a single nested object under its path.
func (b *Builder) Nested(m *Mapping) *Builder {
	b.addNested(m)
	return b
}

// List adds m as the row template of a nested list under its path.
func (b *Builder) List(m *Mapping) *Builder {
	if m != nil && (m.secured || m.item != nil && m.item.secured) {
		b.fail("%s: list mapping %q cannot be secured", b.path, m.path)
		return b
	}

	if m != nil && !m.IsList() {
		m = m.asList()
	}

	b.addNested(m)

	return b
}

func (b *Builder) addNested(m *Mapping) {
	switch {
	case m == nil:
		b.fail("%s: nil nested mapping", b.path)
	case m.secured:
		b.fail("%s: nested mapping %q cannot be secured", b.path, m.path)
	case !naming.IsRoot(m.path):
		b.fail("%s: nested mapping %q is already placed", b.path, m.path)
	case b.declared(m.Key()):
		b.fail("%s: %q declared twice", b.path, m.Key())
	default:
		b.nested = append(b.nested, m)
	}
}

// AutoFields derives the undeclared properties of the data type: scalars,
// files and scalar collections become fields, structs nested mappings and
// struct collections list mappings.
func (b *Builder) AutoFields() *Builder {
	b.auto = true
	return b
}

// Secured adds the authentication token field. Only root mappings may be secured.
func (b *Builder) Secured() *Builder {
	b.secured = true
	return b
}

func (b *Builder) Required() *Builder {
	b.required = true
	return b
}

// Config sets the configuration of the mapping and of nested mappings without their own.
func (b *Builder) Config(cfg *options.Config) *Builder {
	b.config = cfg
	return b
}

// Instantiator sets how bound objects are constructed. The default is the zero value.
func (b *Builder) Instantiator(i binder.Instantiator) *Builder {
	b.instantiator = i
	return b
}

// Build checks the declaration and returns the mapping.
func (b *Builder) Build() (*Mapping, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	if slices.Contains(b.stack, b.dataType) {
		return nil, fmt.Errorf("%w: %s: cyclic type %s", ErrConfiguration, b.path, b.dataType)
	}

	cfg, user := b.config, b.config != nil
	if cfg == nil {
		cfg = b.inherited
	}

	if cfg == nil {
		cfg = options.Default()
	}

	if b.auto {
		if err := b.derive(cfg); err != nil {
			return nil, err
		}
	}

	fields, err := b.buildFields(cfg)
	if err != nil {
		return nil, err
	}

	nested := make([]*Mapping, 0, len(b.nested))
	for _, n := range b.nested {
		placed, err := n.WithPathPrefix(b.path)
		if err != nil {
			return nil, err
		}

		nested = append(nested, placed)
	}

	inst := b.instantiator
	if inst == nil {
		inst = binder.ZeroValue()
	}

	m := &Mapping{
		path:         b.path,
		dataType:     b.dataType,
		instantiator: inst,
		fields:       fields,
		nested:       nested,
		required:     b.required,
		secured:      b.secured,
	}

	return m.withConfig(cfg, user), nil
}

func (b *Builder) buildFields(cfg *options.Config) ([]*Field, error) {
	acc := binder.AccessorsFor(b.dataType)
	fields := make([]*Field, 0, len(b.decls)+1)

	for i, d := range b.decls {
		f := &Field{
			name:     naming.Join(b.path, d.property),
			property: d.property,
			order:    i,
		}

		if prop, ok := acc.Lookup(d.property); ok {
			typ, err := defaultFieldType(prop.Type, prop.Input, cfg.Formatters)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.name, err)
			}

			f.typ = typ
			f.pattern = prop.Pattern
		}

		for _, opt := range d.opts {
			opt(f)
		}

		fields = append(fields, f)
	}

	if b.secured {
		fields = append(fields, &Field{
			name:     naming.Join(b.path, naming.AuthTokenField),
			property: naming.AuthTokenField,
			typ:      FieldHidden,
			order:    math.MaxInt,
		})
	}

	slices.SortStableFunc(fields, func(x, y *Field) int {
		return cmp.Compare(x.order, y.order)
	})

	return fields, nil
}

func (b *Builder) derive(cfg *options.Config) error {
	reg := cfg.Formatters
	stack := append(slices.Clone(b.stack), b.dataType)

	for _, p := range binder.AccessorsFor(b.dataType).Properties() {
		if p.Name == naming.AuthTokenField || b.declared(p.Name) {
			continue
		}

		switch coerce.Dispatch(p.Type, reg) {
		case coerce.ShapeScalar, coerce.ShapeFile, coerce.ShapeInterface:
			b.decls = append(b.decls, fieldDecl{property: p.Name})
		case coerce.ShapeStruct:
			n, err := b.child(p.Name, p.Type, stack, cfg)
			if err != nil {
				return err
			}

			b.nested = append(b.nested, n)
		case coerce.ShapeCollection:
			elem := coerce.Elem(coerce.Base(p.Type))

			switch coerce.Dispatch(elem, reg) {
			case coerce.ShapeStruct:
				n, err := b.child(p.Name, elem, stack, cfg)
				if err != nil {
					return err
				}

				b.nested = append(b.nested, n.asList())
			case coerce.ShapeScalar, coerce.ShapeFile, coerce.ShapeInterface:
				b.decls = append(b.decls, fieldDecl{property: p.Name})
			}
		}
	}

	return nil
}

func (b *Builder) child(path string, rtype reflect.Type, stack []reflect.Type, cfg *options.Config) (*Mapping, error) {
	c := New(path, rtype).AutoFields()
	c.stack = stack
	c.inherited = cfg

	return c.Build()
}

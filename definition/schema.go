package definition

import (
	"maps"
	"reflect"
	"slices"

	"formbind/binder"
	"formbind/options"
	"formbind/primitive"
)

// File is the top-level structure of a definition file.
type File struct {
	Version string              `yaml:"version"`
	Config  *options.ConfigFile `yaml:"config,omitempty"`
	Forms   []Form              `yaml:"forms"`
}

// Form declares one mapping. Nested and list forms use the same shape.
type Form struct {
	Path         string     `yaml:"path"`
	Type         string     `yaml:"type,omitempty"`
	Instantiator string     `yaml:"instantiator,omitempty"`
	Secured      bool       `yaml:"secured,omitempty"`
	Required     bool       `yaml:"required,omitempty"`
	Auto         bool       `yaml:"auto,omitempty"`
	Fields       []FieldDef `yaml:"fields,omitempty"`
	Nested       []Form     `yaml:"nested,omitempty"`
	Lists        []Form     `yaml:"lists,omitempty"`
}

// FieldDef declares one field of a form.
// In YAML it is either a bare property name or a map.
type FieldDef struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type,omitempty"`
	Pattern   string `yaml:"pattern,omitempty"`
	Formatter string `yaml:"formatter,omitempty"`
	Order     *int   `yaml:"order,omitempty"`
	Required  bool   `yaml:"required,omitempty"`
}

// Find returns the root form declared with path.
func (f *File) Find(path string) (*Form, bool) {
	for i := range f.Forms {
		if f.Forms[i].Path == path {
			return &f.Forms[i], true
		}
	}

	return nil, false
}

// Registry resolves the Go names a definition refers to.
type Registry struct {
	types         map[string]reflect.Type
	formatters    map[string]primitive.Formatter
	instantiators map[string]binder.Instantiator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:         map[string]reflect.Type{},
		formatters:    map[string]primitive.Formatter{},
		instantiators: map[string]binder.Instantiator{},
	}
}

// AddType registers the struct type of sample (a value, pointer or reflect.Type) under name.
func (r *Registry) AddType(name string, sample any) *Registry {
	rtype, ok := sample.(reflect.Type)
	if !ok {
		rtype = reflect.TypeOf(sample)
	}

	r.types[name] = rtype

	return r
}

// RegisterType registers T under name.
func RegisterType[T any](r *Registry, name string) *Registry {
	return r.AddType(name, reflect.TypeFor[T]())
}

func (r *Registry) AddFormatter(name string, f primitive.Formatter) *Registry {
	r.formatters[name] = f
	return r
}

func (r *Registry) AddInstantiator(name string, i binder.Instantiator) *Registry {
	r.instantiators[name] = i
	return r
}

// Type returns the type registered under name.
func (r *Registry) Type(name string) (reflect.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

func (r *Registry) Formatter(name string) (primitive.Formatter, bool) {
	f, ok := r.formatters[name]
	return f, ok
}

func (r *Registry) Instantiator(name string) (binder.Instantiator, bool) {
	i, ok := r.instantiators[name]
	return i, ok
}

// TypeNames returns the registered type names, sorted.
func (r *Registry) TypeNames() []string {
	return slices.Sorted(maps.Keys(r.types))
}

func (r *Registry) FormatterNames() []string {
	return slices.Sorted(maps.Keys(r.formatters))
}

func (r *Registry) InstantiatorNames() []string {
	return slices.Sorted(maps.Keys(r.instantiators))
}

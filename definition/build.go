package definition

import (
	"fmt"
	"reflect"

	"formbind/binder"
	"formbind/coerce"
	"formbind/form"
	"formbind/options"
)

// Build validates f against reg and turns every root form into a mapping,
// keyed by path. The config block of the file comes first, opts after it.
func Build(f *File, reg *Registry, opts ...options.Option) (map[string]*form.Mapping, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: definition needs a registry", form.ErrConfiguration)
	}

	if d := Validate(f, reg); d.HasErrors() {
		return nil, fmt.Errorf("%w: %w", form.ErrConfiguration, d.Err())
	}

	fileOpts, err := f.Config.Options()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", form.ErrConfiguration, err)
	}

	cfg := options.New(append(fileOpts, opts...)...)

	out := make(map[string]*form.Mapping, len(f.Forms))

	for i := range f.Forms {
		def := &f.Forms[i]

		rtype, _ := reg.Type(def.Type)

		m, err := build(def, rtype, reg, cfg)
		if err != nil {
			return nil, err
		}

		out[def.Path] = m
	}

	return out, nil
}

// build converts def, whose data type is rtype unless def names its own.
// Only the root receives cfg; nested mappings inherit it.
func build(def *Form, rtype reflect.Type, reg *Registry, cfg *options.Config) (*form.Mapping, error) {
	if def.Type != "" {
		rtype, _ = reg.Type(def.Type)
	}

	b := form.New(def.Path, rtype)
	if cfg != nil {
		b.Config(cfg)
	}

	if def.Instantiator != "" {
		inst, _ := reg.Instantiator(def.Instantiator)
		b.Instantiator(inst)
	}

	for _, fd := range def.Fields {
		opts, err := fieldOptions(fd, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", def.Path, err)
		}

		b.Field(fd.Name, opts...)
	}

	acc := binder.AccessorsFor(rtype)

	for i := range def.Nested {
		n := &def.Nested[i]

		prop, _ := acc.Lookup(n.Path)

		m, err := build(n, prop.Type, reg, nil)
		if err != nil {
			return nil, err
		}

		b.Nested(m)
	}

	for i := range def.Lists {
		l := &def.Lists[i]

		prop, _ := acc.Lookup(l.Path)

		m, err := build(l, listItemType(prop.Type), reg, nil)
		if err != nil {
			return nil, err
		}

		b.List(m)
	}

	if def.Auto {
		b.AutoFields()
	}

	if def.Secured {
		b.Secured()
	}

	if def.Required {
		b.Required()
	}

	return b.Build()
}

func fieldOptions(fd FieldDef, reg *Registry) ([]form.FieldOption, error) {
	var opts []form.FieldOption

	if fd.Type != "" {
		t, err := form.ParseFieldType(fd.Type)
		if err != nil {
			return nil, err
		}

		opts = append(opts, form.WithType(t))
	}

	if fd.Pattern != "" {
		opts = append(opts, form.WithPattern(fd.Pattern))
	}

	if fd.Formatter != "" {
		fm, _ := reg.Formatter(fd.Formatter)
		opts = append(opts, form.WithFormatter(fm))
	}

	if fd.Order != nil {
		opts = append(opts, form.WithOrder(*fd.Order))
	}

	if fd.Required {
		opts = append(opts, form.RequiredField())
	}

	return opts, nil
}

func listItemType(rtype reflect.Type) reflect.Type {
	if rtype == nil {
		return nil
	}

	return coerce.Base(coerce.Elem(coerce.Base(rtype)))
}

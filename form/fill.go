package form

import (
	"cmp"
	"context"
	"fmt"
	"mime/multipart"
	"reflect"
	"slices"

	"golang.org/x/text/language"

	"formbind/binder"
	"formbind/naming"
	"formbind/validation"
)

// Fill returns a copy of the mapping holding the display values of src.
func (m *Mapping) Fill(ctx context.Context, src any, locale language.Tag) (*Mapping, error) {
	return m.FillData(ctx, FormData{Value: src}, locale)
}

// FillData fills from a bind result: fields that failed to convert show the
// rejected input again and every field carries its messages.
func (m *Mapping) FillData(ctx context.Context, data FormData, locale language.Tag) (*Mapping, error) {
	result := data.Result
	if result == nil {
		result = validation.Empty()
	}

	if m.IsList() {
		return m.fillList(ctx, data.Value, result, locale)
	}

	return m.fillObject(ctx, data.Value, result, locale)
}

func (m *Mapping) fillList(ctx context.Context, src any, result *validation.Result, locale language.Tag) (*Mapping, error) {
	c := m.shallow()
	c.filled = src
	c.result = result
	c.elements = nil

	rv := reflect.ValueOf(src)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && !rv.IsNil() {
		rv = rv.Elem()
	}

	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return c, nil
	}

	for i := range rv.Len() {
		row, err := m.item.WithIndexAfterPathPrefix(i, m.path)
		if err != nil {
			return nil, err
		}

		filled, err := row.fillObject(ctx, rv.Index(i).Interface(), result, locale)
		if err != nil {
			return nil, err
		}

		c.elements = append(c.elements, filled)
	}

	m.config.Logger.Debug("form list filled", "path", m.path, "rows", len(c.elements))

	return c, nil
}

func (m *Mapping) fillObject(ctx context.Context, src any, result *validation.Result, locale language.Tag) (*Mapping, error) {
	acc := binder.AccessorsFor(m.dataType)
	obj := reflect.ValueOf(src)

	c := m.shallow()
	c.filled = src
	c.result = result

	for i, n := range m.nested {
		var sub any
		if v, ok := acc.Get(obj, n.Key()); ok {
			sub = v.Interface()
		}

		filled, err := n.FillData(ctx, FormData{Value: sub, Result: result}, locale)
		if err != nil {
			return nil, err
		}

		c.nested[i] = filled
	}

	props := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		props = append(props, f.property)
	}

	extracted := acc.Extract(src, props)

	for i, f := range m.fields {
		nf := f.clone()
		nf.values, nf.display = nil, nil
		nf.messages = result.FieldMessages(f.name)

		if m.secured && f.property == naming.AuthTokenField {
			token, err := m.config.Guard().Issue(ctx, m.path)
			if err != nil {
				return nil, fmt.Errorf("fill %s: %w", m.path, err)
			}

			nf.values, nf.display = []any{token}, []string{token}
			c.fields[i] = nf

			continue
		}

		if v, ok := extracted[f.property]; ok {
			nf.values = items(v)
		}

		if raw, rejected := result.Rejected(f.name); rejected {
			nf.display = raw
		} else {
			display, err := m.display(nf, locale)
			if err != nil {
				return nil, fmt.Errorf("fill %s: %w", f.name, err)
			}

			nf.display = display
		}

		c.fields[i] = nf
	}

	return c, nil
}

func (m *Mapping) display(f *Field, locale language.Tag) ([]string, error) {
	out := make([]string, 0, len(f.values))

	for _, v := range f.values {
		var (
			s   string
			err error
		)

		switch x := v.(type) {
		case *multipart.FileHeader:
			s = x.Filename
		case string:
			s = x
		default:
			if f.formatter != nil {
				s, err = f.formatter.Format(v, f.pattern, locale)
			} else {
				s, err = m.config.Formatters.Format(reflect.ValueOf(v), f.pattern, locale)
			}
		}

		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// items spreads a property value into the values of a field: collection
// items one by one, pointers dereferenced, nil as no value.
func items(v any) []any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}

	if _, ok := v.(*multipart.FileHeader); ok {
		if rv.IsNil() {
			return nil
		}

		return []any{v}
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return items(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			out = append(out, items(rv.Index(i).Interface())...)
		}

		return out
	case reflect.Map:
		keys := make([]any, 0, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			if iter.Value().Kind() == reflect.Bool && !iter.Value().Bool() {
				continue
			}

			keys = append(keys, iter.Key().Interface())
		}

		slices.SortFunc(keys, func(a, b any) int {
			return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
		})

		return keys
	default:
		return []any{v}
	}
}

package coerce

import (
	"fmt"
	"reflect"

	"golang.org/x/text/language"

	"formbind/primitive"
)

var defaultRegistry = primitive.NewRegistry()

// Target describes the property a raw value is converted for.
type Target struct {
	Property  string
	Type      reflect.Type
	Pattern   string
	Sorted    bool
	Formatter primitive.Formatter // overrides the registry when set
}

// Converter turns raw values into typed values. The zero value uses the builtin scalar rules.
type Converter struct {
	Registry *primitive.Registry
	Locale   language.Tag
}

func (c Converter) registry() *primitive.Registry {
	if c.Registry == nil {
		return defaultRegistry
	}

	return c.Registry
}

// Convert coerces raw into t.Type.
//
// Collections are built item by item and keep every item that converts; each
// failed item adds one ParseError. For other targets only the first raw value
// is used. An invalid returned value means "no value": the conversion failed
// and the property must keep what it holds.
func (c Converter) Convert(t Target, raw []any) (reflect.Value, []*ParseError) {
	if Dispatch(t.Type, c.registry()) == ShapeCollection && !alreadyBuilt(t.Type, raw) {
		if kind := KindOf(t.Type, t.Sorted); kind != CollectionNone {
			return c.buildCollection(kind, t, raw)
		}
	}

	if len(raw) == 0 {
		return reflect.Zero(t.Type), nil
	}

	v, perr := c.convertOne(t, t.Type, raw[0])
	if perr != nil {
		return reflect.Value{}, []*ParseError{perr}
	}

	return v, nil
}

func alreadyBuilt(rtype reflect.Type, raw []any) bool {
	return len(raw) == 1 && raw[0] != nil && reflect.TypeOf(raw[0]).AssignableTo(rtype)
}

func (c Converter) convertOne(t Target, target reflect.Type, item any) (reflect.Value, *ParseError) {
	if item == nil {
		return reflect.Zero(target), nil
	}

	rv := reflect.ValueOf(item)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}

	if s, ok := item.(string); ok {
		return c.parseString(t, target, s)
	}

	// *T into T
	if rv.Kind() == reflect.Pointer && rv.Type().Elem().AssignableTo(target) {
		if rv.IsNil() {
			return reflect.Zero(target), nil
		}

		return rv.Elem(), nil
	}

	// T into *T
	if target.Kind() == reflect.Pointer && rv.Type().AssignableTo(target.Elem()) {
		p := reflect.New(target.Elem())
		p.Elem().Set(rv)

		return p, nil
	}

	if isNumber(rv.Type()) && isNumber(target) && rv.Type().ConvertibleTo(target) {
		return rv.Convert(target), nil
	}

	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && Dispatch(target, c.registry()) == ShapeCollection {
		if kind := KindOf(target, t.Sorted); kind != CollectionNone {
			v, errs := c.buildCollection(kind, Target{
				Property:  t.Property,
				Type:      target,
				Pattern:   t.Pattern,
				Sorted:    t.Sorted,
				Formatter: t.Formatter,
			}, []any{item})
			if len(errs) > 0 {
				return reflect.Value{}, errs[0]
			}

			return v, nil
		}
	}

	return reflect.Value{}, &ParseError{
		Property: t.Property,
		Target:   target,
		Raw:      fmt.Sprint(item),
		Category: primitive.CategoryObject,
		Err:      fmt.Errorf("cannot assign %s to %s", rv.Type(), target),
	}
}

func (c Converter) parseString(t Target, target reflect.Type, s string) (reflect.Value, *ParseError) {
	switch {
	case target.Kind() == reflect.Interface && reflect.TypeOf(s).AssignableTo(target):
		return reflect.ValueOf(s), nil
	case target.Kind() == reflect.Pointer && target != FileType:
		if s == "" && primitive.BaseKind(target.Elem()) != primitive.KindString {
			return reflect.Zero(target), nil
		}

		v, perr := c.parseString(t, target.Elem(), s)
		if perr != nil {
			return v, perr
		}

		p := reflect.New(target.Elem())
		p.Elem().Set(v)

		return p, nil
	case s == "" && primitive.BaseKind(target) != primitive.KindString:
		return reflect.Zero(target), nil
	}

	reg := c.registry()

	var (
		v   reflect.Value
		err error
	)

	if t.Formatter != nil {
		v, err = c.parseWith(t.Formatter, target, s, t.Pattern)
	} else {
		v, err = reg.Parse(s, target, t.Pattern, c.Locale)
	}

	if err != nil {
		category := reg.CategoryOf(target)
		if cf, ok := t.Formatter.(primitive.Categorized); ok {
			category = cf.Category()
		}

		return reflect.Value{}, &ParseError{
			Property: t.Property,
			Target:   target,
			Raw:      s,
			Category: category,
			Err:      err,
		}
	}

	return v, nil
}

func (c Converter) parseWith(f primitive.Formatter, target reflect.Type, s, pattern string) (reflect.Value, error) {
	x, err := f.Parse(s, pattern, c.Locale)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %w", primitive.ErrParse, err)
	}

	rv := reflect.ValueOf(x)
	if !rv.IsValid() {
		return reflect.Zero(target), nil
	}

	if !rv.Type().AssignableTo(target) {
		return reflect.Value{}, fmt.Errorf("%w: formatter returned %s for %s", primitive.ErrParse, rv.Type(), target)
	}

	return rv, nil
}

func isNumber(rtype reflect.Type) bool {
	return primitive.BaseKind(rtype).IsNumber()
}

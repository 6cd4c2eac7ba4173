package coerce

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"time"

	"formbind/primitive"
)

type collectionBuilder func(rtype reflect.Type, items []reflect.Value) reflect.Value

var collectionBuilders = [...]collectionBuilder{
	CollectionNone:   nil,
	CollectionLinear: buildLinear,
	CollectionHash:   buildHash,
	CollectionSorted: buildSorted,
}

func (c Converter) buildCollection(kind CollectionKind, t Target, raw []any) (reflect.Value, []*ParseError) {
	elem := Elem(t.Type)
	items := make([]reflect.Value, 0, len(raw))

	var (
		errs []*ParseError
		kept []any
	)

	for _, item := range flatten(raw, elem) {
		if s, ok := item.(string); ok && s == "" && primitive.BaseKind(elem) != primitive.KindString {
			continue
		}

		v, perr := c.convertOne(t, elem, item)
		if perr != nil {
			errs = append(errs, perr)
			continue
		}

		items = append(items, v)
		kept = append(kept, item)
	}

	if t.Type.Kind() == reflect.Array && len(items) > t.Type.Len() {
		errs = append(errs, &ParseError{
			Property: t.Property,
			Target:   t.Type,
			Raw:      fmt.Sprint(kept[t.Type.Len()]),
			Category: primitive.CategoryObject,
			Err:      fmt.Errorf("%w: %d values for %s", ErrTooManyItems, len(items), t.Type),
		})
	}

	return collectionBuilders[kind](t.Type, items), errs
}

// flatten expands already built lists, e.g. the rows of a list mapping, into their items.
func flatten(raw []any, elem reflect.Type) []any {
	out := make([]any, 0, len(raw))

	for _, item := range raw {
		rv := reflect.ValueOf(item)
		if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Type().AssignableTo(elem) {
			out = append(out, item)
			continue
		}

		for i := range rv.Len() {
			out = append(out, rv.Index(i).Interface())
		}
	}

	return out
}

func buildLinear(rtype reflect.Type, items []reflect.Value) reflect.Value {
	if rtype.Kind() == reflect.Array {
		arr := reflect.New(rtype).Elem()
		for i := 0; i < len(items) && i < rtype.Len(); i++ {
			arr.Index(i).Set(items[i])
		}

		return arr
	}

	s := reflect.MakeSlice(rtype, 0, len(items))

	return reflect.Append(s, items...)
}

func buildHash(rtype reflect.Type, items []reflect.Value) reflect.Value {
	m := reflect.MakeMapWithSize(rtype, len(items))

	member := reflect.Zero(rtype.Elem())
	if rtype.Elem() == boolType {
		member = reflect.ValueOf(true)
	}

	for _, item := range items {
		m.SetMapIndex(item, member)
	}

	return m
}

func buildSorted(rtype reflect.Type, items []reflect.Value) reflect.Value {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, compareValues)
	sorted = slices.CompactFunc(sorted, func(a, b reflect.Value) bool {
		return compareValues(a, b) == 0
	})

	return buildLinear(rtype, sorted)
}

func compareValues(a, b reflect.Value) int {
	k := primitive.BaseKind(a.Type())

	switch {
	case k.IsSigned() || k == primitive.KindDuration:
		return cmp.Compare(a.Int(), b.Int())
	case k.IsUnsigned():
		return cmp.Compare(a.Uint(), b.Uint())
	case k.IsFloat():
		return cmp.Compare(a.Float(), b.Float())
	case k == primitive.KindString:
		return cmp.Compare(a.String(), b.String())
	case k == primitive.KindTime:
		return a.Interface().(time.Time).Compare(b.Interface().(time.Time))
	default:
		return 0
	}
}

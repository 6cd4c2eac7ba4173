// Package binder builds objects from flat property values.
//
// A bind resolves a construction method for the target type, converts the
// values consumed as construction arguments, builds the object and assigns
// every remaining value through the type's property table. Conversion
// failures are collected per property and never stop the bind; mis-declared
// types and forms fail it with an error wrapping ErrConfiguration.
package binder

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"formbind/coerce"
	"formbind/naming"
	"formbind/primitive"
)

// Values holds the raw values of a bind keyed by property name.
// Items are strings, uploaded files or already bound nested objects.
type Values map[string][]any

// Hint refines how the value of one property is parsed.
type Hint struct {
	Pattern   string
	Formatter primitive.Formatter
}

// Request is the input of one bind.
type Request struct {
	Type         reflect.Type // struct type; the result is a pointer to it
	Instantiator Instantiator
	Values       Values
	Hints        map[string]Hint
}

// Result is the output of one bind.
type Result struct {
	Value       reflect.Value // non-nil pointer to Request.Type
	Description ConstructionDescription
	Errors      map[string][]*coerce.ParseError
}

// Binder binds values into objects. The zero value uses builtin conversions and declared argument names.
type Binder struct {
	Converter     coerce.Converter
	ArgumentNames ArgumentNameResolver
}

// BindToNewInstance builds a new object, or fills the instance held by an Instance instantiator.
func (b Binder) BindToNewInstance(req Request) (Result, error) {
	rtype := req.Type
	for rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}

	desc, err := Describe(rtype, req.Instantiator, b.ArgumentNames)
	if err != nil {
		return Result{}, err
	}

	acc := AccessorsFor(rtype)
	res := Result{Description: desc, Errors: map[string][]*coerce.ParseError{}}

	var obj reflect.Value

	supplied := desc.Method == nil
	if supplied {
		obj, _ = req.Instantiator.instance()
	} else {
		args, err := b.constructionArgs(desc, acc, req, res.Errors)
		if err != nil {
			return Result{}, err
		}

		obj, err = desc.Method.call(rtype, args)
		if err != nil {
			return Result{}, err
		}
	}

	consumed := make(map[string]bool, len(desc.Args))
	for _, a := range desc.Args {
		consumed[a] = true
	}

	for _, name := range slices.Sorted(maps.Keys(req.Values)) {
		if consumed[name] {
			continue
		}

		prop, ok := acc.Lookup(name)
		if !ok {
			// a supplied instance may hold the value through its own construction
			if supplied || name == naming.AuthTokenField {
				continue
			}

			return Result{}, acc.unknownProperty(name)
		}

		hint := req.Hints[name]
		if hint.Pattern == "" {
			hint.Pattern = prop.Pattern
		}

		v, perrs := b.Converter.Convert(coerce.Target{
			Property:  name,
			Type:      prop.Type,
			Pattern:   hint.Pattern,
			Sorted:    prop.Sorted,
			Formatter: hint.Formatter,
		}, req.Values[name])
		if len(perrs) > 0 {
			res.Errors[name] = append(res.Errors[name], perrs...)
		}

		if !v.IsValid() {
			continue
		}

		if err := acc.Set(obj, name, v); err != nil {
			return Result{}, err
		}
	}

	res.Value = obj

	return res, nil
}

func (b Binder) constructionArgs(
	desc ConstructionDescription,
	acc *Accessors,
	req Request,
	errs map[string][]*coerce.ParseError,
) ([]reflect.Value, error) {
	if desc.Method.IsZero() {
		return nil, nil
	}

	ft := desc.Method.fn.Type()
	args := make([]reflect.Value, len(desc.Args))

	for i, name := range desc.Args {
		raw, ok := req.Values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q of %s", ErrMissingArgument, name, desc.Method.Name)
		}

		prop, _ := acc.Lookup(name)
		hint := req.Hints[name]
		if hint.Pattern == "" {
			hint.Pattern = prop.Pattern
		}

		v, perrs := b.Converter.Convert(coerce.Target{
			Property:  name,
			Type:      ft.In(i),
			Pattern:   hint.Pattern,
			Sorted:    prop.Sorted,
			Formatter: hint.Formatter,
		}, raw)
		if len(perrs) > 0 {
			errs[name] = append(errs[name], perrs...)
		}

		if !v.IsValid() {
			v = reflect.Zero(ft.In(i))
		}

		args[i] = v
	}

	return args, nil
}

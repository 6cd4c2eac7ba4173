package binder

import (
	"fmt"
	"reflect"
	"runtime"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor is a construction method with declared argument names.
// A Constructor without a function builds the zero value.
type Constructor struct {
	Name   string
	Params []string

	fn      reflect.Value
	factory bool
}

// Zero is the zero-argument construction method: a pointer to the zero value.
var Zero = Constructor{Name: "zero value"}

// Func declares fn as a construction method. fn must take exactly one argument
// per declared name and return T or *T, optionally followed by an error.
// Mismatches are programming errors and panic.
func Func(fn any, params ...string) Constructor {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		panic(fmt.Sprintf("constructor must be a function, got %T", fn))
	}

	ft := rv.Type()
	if ft.IsVariadic() || ft.NumIn() != len(params) {
		panic(fmt.Sprintf("constructor %s takes %d arguments but %d names were declared", ft, ft.NumIn(), len(params)))
	}

	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		panic(fmt.Sprintf("constructor %s must return a value and an optional error", ft))
	}

	return Constructor{
		Name:   funcName(rv),
		Params: append([]string(nil), params...),
		fn:     rv,
	}
}

// IsZero reports whether c builds the zero value.
func (c Constructor) IsZero() bool {
	return !c.fn.IsValid()
}

// IsFactory reports whether c was declared through Factories.
func (c Constructor) IsFactory() bool {
	return c.factory
}

// produces reports whether c builds values of rtype.
func (c Constructor) produces(rtype reflect.Type) bool {
	if c.IsZero() {
		return true
	}

	out := c.fn.Type().Out(0)

	return out == rtype || out == reflect.PointerTo(rtype)
}

// call runs c and returns a non-nil pointer to the built value.
func (c Constructor) call(rtype reflect.Type, args []reflect.Value) (reflect.Value, error) {
	if c.IsZero() {
		return reflect.New(rtype), nil
	}

	out := c.fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: %s: %w", ErrConstructorFailed, c.Name, out[1].Interface().(error))
	}

	v := out[0]
	if v.Kind() == reflect.Pointer && v.Type().Elem() == rtype {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: %s returned nil", ErrConstructorFailed, c.Name)
		}

		return v, nil
	}

	p := reflect.New(rtype)
	p.Elem().Set(v)

	return p, nil
}

func funcName(rv reflect.Value) string {
	if f := runtime.FuncForPC(rv.Pointer()); f != nil {
		return f.Name()
	}

	return rv.Type().String()
}

// Instantiator is a construction strategy. The set of strategies is closed:
// ZeroValue, Constructors, Factories and Instance.
type Instantiator interface {
	candidates() []Constructor
	instance() (reflect.Value, bool)
	String() string
}

type scanInstantiator struct {
	label string
	ctors []Constructor
}

func (s scanInstantiator) candidates() []Constructor       { return s.ctors }
func (s scanInstantiator) instance() (reflect.Value, bool) { return reflect.Value{}, false }
func (s scanInstantiator) String() string                  { return s.label }

type instanceInstantiator struct {
	v reflect.Value
}

func (i instanceInstantiator) candidates() []Constructor       { return nil }
func (i instanceInstantiator) instance() (reflect.Value, bool) { return i.v, true }
func (i instanceInstantiator) String() string                  { return "instance " + i.v.Type().String() }

// ZeroValue builds every object as a pointer to its zero value.
func ZeroValue() Instantiator {
	return scanInstantiator{label: "zero value", ctors: []Constructor{Zero}}
}

// Constructors scans ctors in order and picks the one with the most resolvable
// named arguments. Add Zero to allow the zero value as fallback.
func Constructors(ctors ...Constructor) Instantiator {
	return scanInstantiator{label: "constructors", ctors: append([]Constructor(nil), ctors...)}
}

// Factories is Constructors for named factory functions.
func Factories(ctors ...Constructor) Instantiator {
	marked := make([]Constructor, len(ctors))
	for i, c := range ctors {
		c.factory = true
		marked[i] = c
	}

	return scanInstantiator{label: "factories", ctors: marked}
}

// Instance binds into a client-supplied object instead of constructing one.
// v must be a non-nil pointer to a struct; a struct value is copied into a new pointer.
func Instance(v any) Instantiator {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		rv = p
	}

	return instanceInstantiator{v: rv}
}

// ConstructionDescription is the chosen construction method with its resolved argument names.
// Method is nil when an Instance is bound into.
type ConstructionDescription struct {
	Method *Constructor
	Args   []string
}

// Describe picks the construction method for rtype. It is recomputed on every
// bind because the argument-name resolver comes from the current configuration.
func Describe(rtype reflect.Type, inst Instantiator, names ArgumentNameResolver) (ConstructionDescription, error) {
	if inst == nil {
		inst = ZeroValue()
	}

	if names == nil {
		names = DeclaredArgumentNames
	}

	if v, ok := inst.instance(); ok {
		if v.IsNil() || v.Elem().Type() != rtype {
			return ConstructionDescription{}, fmt.Errorf("%w: instance %s does not hold a %s", ErrConfiguration, v.Type(), rtype)
		}

		return ConstructionDescription{}, nil
	}

	var (
		best     *Constructor
		bestArgs []string
	)

	ctors := inst.candidates()
	for i := range ctors {
		c := &ctors[i]
		if !c.produces(rtype) {
			return ConstructionDescription{}, fmt.Errorf("%w: %s does not build %s", ErrConfiguration, c.Name, rtype)
		}

		args, ok := resolveArgs(rtype, c, names)
		if !ok {
			continue
		}

		if best == nil || len(args) > len(bestArgs) {
			best, bestArgs = c, args
		}
	}

	if best == nil {
		return ConstructionDescription{}, fmt.Errorf("%w: %s via %s", ErrNoConstruction, rtype, inst)
	}

	return ConstructionDescription{Method: best, Args: bestArgs}, nil
}

func resolveArgs(rtype reflect.Type, c *Constructor, names ArgumentNameResolver) ([]string, bool) {
	args := make([]string, len(c.Params))

	for pos, declared := range c.Params {
		name, ok := names(rtype, c.Name, pos, declared)
		if !ok {
			return nil, false
		}

		args[pos] = name
	}

	return args, true
}

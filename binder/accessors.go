package binder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"formbind/internal/match"
)

// Struct tags read when building a property table.
const (
	TagForm    = "form"    // property name and options, "-" ignores the field
	TagInput   = "input"   // input type of the auto-derived field
	TagPattern = "pattern" // pattern handed to the formatter
)

// Property is one bindable struct field.
type Property struct {
	Name    string
	Field   string
	Type    reflect.Type
	Index   []int
	Sorted  bool
	Input   string
	Pattern string
}

// Accessors is the property table of one struct type. It is built once per
// type and shared; it never changes after construction.
type Accessors struct {
	rtype  reflect.Type
	props  []Property
	byName map[string]int
}

var accessorCache sync.Map // reflect.Type -> *Accessors

// AccessorsFor returns the property table of rtype (pointers are looked through).
// Non-struct types have an empty table.
func AccessorsFor(rtype reflect.Type) *Accessors {
	for rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}

	if cached, ok := accessorCache.Load(rtype); ok {
		return cached.(*Accessors)
	}

	acc := buildAccessors(rtype)
	actual, _ := accessorCache.LoadOrStore(rtype, acc)

	return actual.(*Accessors)
}

func buildAccessors(rtype reflect.Type) *Accessors {
	acc := &Accessors{rtype: rtype, byName: make(map[string]int)}
	if rtype.Kind() != reflect.Struct {
		return acc
	}

	for _, sf := range reflect.VisibleFields(rtype) {
		if Ignored(sf) || unreachable(rtype, sf.Index) {
			continue
		}

		name, opts := parseFormTag(sf)
		if _, dup := acc.byName[name]; dup {
			continue
		}

		acc.byName[name] = len(acc.props)
		acc.props = append(acc.props, Property{
			Name:    name,
			Field:   sf.Name,
			Type:    sf.Type,
			Index:   sf.Index,
			Sorted:  opts["sorted"],
			Input:   sf.Tag.Get(TagInput),
			Pattern: sf.Tag.Get(TagPattern),
		})
	}

	return acc
}

// Ignored reports whether a struct field is excluded from property tables:
// unexported fields, untagged embedded structs and fields tagged form:"-".
func Ignored(sf reflect.StructField) bool {
	if !sf.IsExported() {
		return true
	}

	tag, tagged := sf.Tag.Lookup(TagForm)
	if tag == "-" {
		return true
	}

	if sf.Anonymous && !tagged {
		t := sf.Type
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		// promoted fields are listed on their own
		return t.Kind() == reflect.Struct
	}

	return false
}

// unreachable reports whether a promoted field sits behind an embedded pointer
// or an unexported embedded struct, where it can be neither read safely nor set.
func unreachable(rtype reflect.Type, index []int) bool {
	t := rtype
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer || !f.IsExported() {
			return true
		}

		t = f.Type
	}

	return false
}

func parseFormTag(sf reflect.StructField) (string, map[string]bool) {
	opts := map[string]bool{}

	tag := sf.Tag.Get(TagForm)
	name, rest, _ := strings.Cut(tag, ",")

	for _, o := range strings.Split(rest, ",") {
		if o != "" {
			opts[o] = true
		}
	}

	if name == "" {
		name = PropertyName(sf.Name)
	}

	return name, opts
}

// FieldPropertyName returns the property name a struct field is bound under.
func FieldPropertyName(sf reflect.StructField) string {
	name, _ := parseFormTag(sf)
	return name
}

// PropertyName derives the default property name of a Go field: lowerCamel, acronyms folded.
// "FirstName" -> "firstName", "URLPath" -> "urlPath", "ID" -> "id".
func PropertyName(field string) string {
	tokens := match.TokenizeIdent(field)
	if len(tokens) == 0 {
		return field
	}

	var b strings.Builder
	b.WriteString(tokens[0])

	for _, t := range tokens[1:] {
		b.WriteString(strings.ToUpper(t[:1]))
		b.WriteString(t[1:])
	}

	return b.String()
}

// Type returns the struct type the table describes.
func (a *Accessors) Type() reflect.Type {
	return a.rtype
}

// Properties returns the properties in declaration order.
func (a *Accessors) Properties() []Property {
	out := make([]Property, len(a.props))
	copy(out, a.props)

	return out
}

// Lookup finds a property by name.
func (a *Accessors) Lookup(name string) (Property, bool) {
	i, ok := a.byName[name]
	if !ok {
		return Property{}, false
	}

	return a.props[i], true
}

// Get reads one property from obj, a struct or a pointer to one.
func (a *Accessors) Get(obj reflect.Value, name string) (reflect.Value, bool) {
	p, ok := a.Lookup(name)
	if !ok {
		return reflect.Value{}, false
	}

	sv, ok := a.structValue(obj)
	if !ok {
		return reflect.Value{}, false
	}

	return sv.FieldByIndex(p.Index), true
}

// Extract reads the whitelisted properties of obj. Unknown names and nil
// objects are skipped, so the result may hold fewer entries than names.
func (a *Accessors) Extract(obj any, names []string) map[string]any {
	out := make(map[string]any, len(names))

	rv := reflect.ValueOf(obj)
	for _, name := range names {
		if v, ok := a.Get(rv, name); ok {
			out[name] = v.Interface()
		}
	}

	return out
}

// Set assigns v to one property of target, which must be a non-nil pointer to the struct.
func (a *Accessors) Set(target reflect.Value, name string, v reflect.Value) error {
	p, ok := a.Lookup(name)
	if !ok {
		return a.unknownProperty(name)
	}

	if target.Kind() != reflect.Pointer || target.IsNil() || target.Elem().Type() != a.rtype {
		return fmt.Errorf("%w: cannot set %q on %s", ErrConfiguration, name, target.Type())
	}

	if !v.Type().AssignableTo(p.Type) {
		return fmt.Errorf("%w: %s is not assignable to %s.%s", ErrConfiguration, v.Type(), a.rtype, p.Field)
	}

	target.Elem().FieldByIndex(p.Index).Set(v)

	return nil
}

func (a *Accessors) structValue(obj reflect.Value) (reflect.Value, bool) {
	for obj.IsValid() && (obj.Kind() == reflect.Pointer || obj.Kind() == reflect.Interface) {
		if obj.IsNil() {
			return reflect.Value{}, false
		}

		obj = obj.Elem()
	}

	if !obj.IsValid() || obj.Type() != a.rtype {
		return reflect.Value{}, false
	}

	return obj, true
}

// unknownProperty reports a missing property with the closest known names.
func (a *Accessors) unknownProperty(name string) error {
	names := make([]string, 0, len(a.props))
	for _, p := range a.props {
		names = append(names, p.Name)
	}

	if hint := match.Suggest(name, names, 3); len(hint) > 0 {
		return fmt.Errorf("%w: %s has no property %q, did you mean %s", ErrMissingSetter, a.rtype, name, strings.Join(hint, ", "))
	}

	return fmt.Errorf("%w: %s has no property %q", ErrMissingSetter, a.rtype, name)
}

package definition

import (
	"fmt"
	"reflect"

	"formbind/binder"
	"formbind/coerce"
	"formbind/form"
	"formbind/diagnostic"
	"formbind/internal/match"
	"formbind/naming"
)

// maxSuggestions bounds the "did you mean" list of a diagnostic.
const maxSuggestions = 3

// Validate checks a definition file. With a nil registry only the
// structure is checked; otherwise type, property, formatter and
// instantiator names are resolved too.
func Validate(f *File, reg *Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("definition_is_nil", "definition file is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported version %q", f.Version), "", "")
	}

	if _, err := f.Config.Options(); err != nil {
		res.AddError("invalid_config", err.Error(), "", "")
	}

	if len(f.Forms) == 0 {
		res.AddWarning("no_forms", "definition declares no forms", "", "")
	}

	seen := map[string]struct{}{}

	for i := range f.Forms {
		def := &f.Forms[i]

		if _, ok := seen[def.Path]; ok && def.Path != "" {
			res.AddError("duplicate_form", fmt.Sprintf("duplicate form %q", def.Path), def.Path, def.Path)
			continue
		}

		seen[def.Path] = struct{}{}

		v := validator{res: res, reg: reg, root: def.Path}
		v.form(def, "", nil, false)
	}

	return res
}

// validator walks one root form.
type validator struct {
	res  *diagnostic.Diagnostics
	reg  *Registry
	root string
}

// form checks def placed under parent. derived is the type implied by the
// parent property, nil for roots or when types are not resolved.
func (v *validator) form(def *Form, parent string, derived reflect.Type, nested bool) {
	if !naming.ValidIdent(def.Path) {
		v.res.AddError("invalid_path", fmt.Sprintf("invalid path %q", def.Path), v.root, parent)
		return
	}

	path := naming.Join(parent, def.Path)

	if nested && def.Secured {
		v.res.AddError("nested_secured", "only root forms can be secured", v.root, path)
	}

	rtype := v.resolveType(def, path, derived, nested)

	if def.Instantiator != "" && v.reg != nil {
		if _, ok := v.reg.Instantiator(def.Instantiator); !ok {
			v.res.AddError("instantiator_not_found", fmt.Sprintf("instantiator %q not registered", def.Instantiator),
				v.root, path, match.Suggest(def.Instantiator, v.reg.InstantiatorNames(), maxSuggestions)...)
		}
	}

	if len(def.Fields)+len(def.Nested)+len(def.Lists) == 0 && !def.Auto {
		v.res.AddWarning("empty_form", "form declares no fields and does not derive them", v.root, path)
	}

	var acc *binder.Accessors
	if rtype != nil {
		acc = binder.AccessorsFor(rtype)
	}

	declared := map[string]struct{}{}
	claim := func(key string) bool {
		if _, ok := declared[key]; ok {
			v.res.AddError("duplicate_property", fmt.Sprintf("%q declared twice", key), v.root, naming.Join(path, key))
			return false
		}

		declared[key] = struct{}{}

		return true
	}

	for i := range def.Fields {
		fd := &def.Fields[i]
		if v.field(fd, path, acc) {
			claim(fd.Name)
		}
	}

	for i := range def.Nested {
		n := &def.Nested[i]
		if naming.ValidIdent(n.Path) && !claim(n.Path) {
			continue
		}

		v.form(n, path, v.childType(acc, n.Path, path, false), true)
	}

	for i := range def.Lists {
		l := &def.Lists[i]
		if naming.ValidIdent(l.Path) && !claim(l.Path) {
			continue
		}

		v.form(l, path, v.childType(acc, l.Path, path, true), true)
	}
}

// resolveType returns the struct type of def, or nil when it is unknown.
func (v *validator) resolveType(def *Form, path string, derived reflect.Type, nested bool) reflect.Type {
	if v.reg == nil {
		return nil
	}

	if def.Type == "" {
		if !nested {
			v.res.AddError("missing_type", "root form must name its type", v.root, path)
		}

		return derived
	}

	rtype, ok := v.reg.Type(def.Type)
	if !ok {
		v.res.AddError("type_not_found", fmt.Sprintf("type %q not registered", def.Type),
			v.root, path, v.typeSuggestions(def.Type, derived)...)

		return nil
	}

	rtype = coerce.Base(rtype)
	if rtype.Kind() != reflect.Struct {
		v.res.AddError("not_struct", fmt.Sprintf("type %q is %s, not a struct", def.Type, rtype), v.root, path)
		return nil
	}

	if derived != nil {
		compat := match.ScoreTypeCompatibility(rtype, derived)
		if compat.Compatibility < match.TypeAssignable {
			v.res.AddError("type_mismatch",
				fmt.Sprintf("type %q does not fit property of type %s: %s", def.Type, derived, compat.Reason), v.root, path)

			return nil
		}
	}

	return rtype
}

// typeSuggestions ranks the registered types by name and, when the form
// sits under a property, drops those that cannot be stored in it.
func (v *validator) typeSuggestions(name string, derived reflect.Type) []string {
	if derived == nil {
		return match.Suggest(name, v.reg.TypeNames(), maxSuggestions)
	}

	var sources []match.Named
	for _, n := range v.reg.TypeNames() {
		t, _ := v.reg.Type(n)
		sources = append(sources, match.Named{Name: n, Type: coerce.Base(t)})
	}

	return match.SuggestTyped(match.Named{Name: name, Type: derived}, sources, maxSuggestions)
}

// field checks one field declaration and reports whether it is well formed.
func (v *validator) field(fd *FieldDef, path string, acc *binder.Accessors) bool {
	name := naming.Join(path, fd.Name)

	switch {
	case fd.Name == "":
		v.res.AddError("missing_field_name", "field must name its property", v.root, path)
		return false
	case fd.Name == naming.AuthTokenField:
		v.res.AddError("reserved_field", fmt.Sprintf("%q is reserved, use secured", fd.Name), v.root, name)
		return false
	case !naming.ValidIdent(fd.Name):
		v.res.AddError("invalid_field_name", fmt.Sprintf("invalid property name %q", fd.Name), v.root, path)
		return false
	}

	if fd.Type != "" {
		if _, err := form.ParseFieldType(fd.Type); err != nil {
			v.res.AddError("invalid_field_type", fmt.Sprintf("unknown field type %q", fd.Type),
				v.root, name, match.Suggest(fd.Type, fieldTypeNames(), maxSuggestions)...)
		}
	}

	if fd.Formatter != "" && v.reg != nil {
		if _, ok := v.reg.Formatter(fd.Formatter); !ok {
			v.res.AddError("formatter_not_found", fmt.Sprintf("formatter %q not registered", fd.Formatter),
				v.root, name, match.Suggest(fd.Formatter, v.reg.FormatterNames(), maxSuggestions)...)
		}
	}

	if acc != nil {
		if _, ok := acc.Lookup(fd.Name); !ok {
			v.unknownProperty(acc, fd.Name, name)
		}
	}

	return true
}

// childType returns the struct type a nested or list form under key binds,
// or nil when it cannot be determined.
func (v *validator) childType(acc *binder.Accessors, key, path string, list bool) reflect.Type {
	if acc == nil || !naming.ValidIdent(key) {
		return nil
	}

	name := naming.Join(path, key)

	prop, ok := acc.Lookup(key)
	if !ok {
		v.unknownProperty(acc, key, name)
		return nil
	}

	if !list {
		if coerce.Dispatch(prop.Type, nil) != coerce.ShapeStruct {
			v.res.AddError("nested_not_struct", fmt.Sprintf("property %q is %s, not a struct", key, prop.Type), v.root, name)
			return nil
		}

		return coerce.Base(prop.Type)
	}

	if coerce.Dispatch(prop.Type, nil) != coerce.ShapeCollection {
		v.res.AddError("list_not_collection", fmt.Sprintf("property %q is %s, not a collection", key, prop.Type), v.root, name)
		return nil
	}

	elem := coerce.Elem(coerce.Base(prop.Type))
	if coerce.Dispatch(elem, nil) != coerce.ShapeStruct {
		v.res.AddError("list_not_struct", fmt.Sprintf("items of %q are %s, not structs", key, elem), v.root, name)
		return nil
	}

	return coerce.Base(elem)
}

func (v *validator) unknownProperty(acc *binder.Accessors, key, name string) {
	props := acc.Properties()

	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name)
	}

	v.res.AddError("unknown_property", fmt.Sprintf("%s has no property %q", acc.Type(), key),
		v.root, name, match.Suggest(key, names, maxSuggestions)...)
}

func fieldTypeNames() []string {
	var names []string
	for t := form.FieldText; t <= form.FieldHidden; t++ {
		names = append(names, t.String())
	}

	return names
}

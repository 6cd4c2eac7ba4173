package binder

import (
	"reflect"

	"formbind/internal/match"
)

// ArgumentNameResolver maps the argument at position of construction method
// ctor to the property it is bound from. ok is false when the argument has no name.
type ArgumentNameResolver func(rtype reflect.Type, ctor string, position int, declared string) (name string, ok bool)

// DeclaredArgumentNames uses the declared names as they are.
func DeclaredArgumentNames(_ reflect.Type, _ string, _ int, declared string) (string, bool) {
	return declared, declared != ""
}

// NormalizedArgumentNames matches declared names to the properties of the
// target type ignoring case and separators, so "first_name" resolves to the
// property "firstName". Names matching no property are used as declared.
func NormalizedArgumentNames(rtype reflect.Type, _ string, _ int, declared string) (string, bool) {
	if declared == "" {
		return "", false
	}

	want := match.NormalizeIdent(declared)
	for _, p := range AccessorsFor(rtype).Properties() {
		if match.NormalizeIdent(p.Name) == want {
			return p.Name, true
		}
	}

	return declared, true
}

package match

import "reflect"

// TypeCompatibility grades how a value of one type reaches a property of
// another. Higher is better.
type TypeCompatibility int

const (
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform: dereference, take the address or rebuild item by item.
	TypeNeedsTransform
	// TypeConvertible: a Go conversion between numbers or between named types.
	TypeConvertible
	TypeAssignable
	TypeIdentical
)

var compatNames = [...]string{"incompatible", "needs_transform", "convertible", "assignable", "identical"}

func (c TypeCompatibility) String() string {
	if c < 0 || int(c) >= len(compatNames) {
		return "unknown"
	}

	return compatNames[c]
}

type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string
}

// ScoreTypeCompatibility grades how a value of source can be stored in a property of target.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	switch {
	case source == target:
		return TypeCompatibilityResult{TypeIdentical, "types are identical"}
	case source.AssignableTo(target):
		return TypeCompatibilityResult{TypeAssignable, source.String() + " is assignable to " + target.String()}
	case convertible(source, target):
		return TypeCompatibilityResult{TypeConvertible, source.String() + " converts to " + target.String()}
	case needsTransform(source, target):
		return TypeCompatibilityResult{TypeNeedsTransform, source.String() + " needs a transform to " + target.String()}
	default:
		return TypeCompatibilityResult{TypeIncompatible, source.String() + " cannot become " + target.String()}
	}
}

// convertible leaves out conversions Go allows but no form value should
// take, like integers to strings.
func convertible(source, target reflect.Type) bool {
	return source.ConvertibleTo(target) &&
		isNumeric(source) == isNumeric(target) &&
		source.Kind() != reflect.Pointer && target.Kind() != reflect.Pointer
}

func needsTransform(source, target reflect.Type) bool {
	sp, tp := source.Kind() == reflect.Pointer, target.Kind() == reflect.Pointer

	switch {
	case sp && !tp:
		return ScoreTypeCompatibility(source.Elem(), target).Compatibility >= TypeConvertible
	case !sp && tp:
		return ScoreTypeCompatibility(source, target.Elem()).Compatibility >= TypeConvertible
	case isList(source) && isList(target):
		return ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform
	default:
		return false
	}
}

func isList(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func isNumeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

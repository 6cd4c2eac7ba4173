// Package coerce converts raw request values (strings, uploaded files or
// already bound nested objects) into the declared type of a property.
//
// Every target type falls into one Shape. Collections are further split into a
// closed set of CollectionKind variants, each with its own builder.
// Malformed input never fails a conversion: it yields a ParseError
// attached to the property instead.
package coerce

import (
	"mime/multipart"
	"reflect"

	"formbind/primitive"
)

//go:generate go tool stringer -type=Shape -trimprefix=Shape -output=shape_string.go
//go:generate go tool stringer -type=CollectionKind -trimprefix=Collection -output=collectionkind_string.go

type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeScalar
	ShapeInterface
	ShapeCollection
	ShapeStruct
	ShapeFile
)

type CollectionKind int

const (
	CollectionNone   CollectionKind = iota
	CollectionLinear                // slice or array, input order kept
	CollectionHash                  // map[K]struct{} or map[K]bool set
	CollectionSorted                // slice sorted ascending with duplicates removed
)

// FileType is the type of an uploaded file value.
var FileType = reflect.TypeOf((*multipart.FileHeader)(nil))

var (
	emptyStructType = reflect.TypeOf(struct{}{})
	boolType        = reflect.TypeOf(false)
)

// Dispatch classifies rtype. Pointers are looked through, except for FileType.
// A nil registry means only the builtin scalar rules apply.
func Dispatch(rtype reflect.Type, reg *primitive.Registry) Shape {
	if rtype == nil {
		return ShapeUnknown
	}

	if rtype == FileType {
		return ShapeFile
	}

	rtype = Base(rtype)

	if rtype.Kind() == reflect.Interface {
		return ShapeInterface
	}

	if isScalar(rtype, reg) {
		return ShapeScalar
	}

	switch rtype.Kind() {
	case reflect.Slice, reflect.Array:
		return ShapeCollection
	case reflect.Map:
		if isSet(rtype) {
			return ShapeCollection
		}

		return ShapeUnknown
	case reflect.Struct:
		return ShapeStruct
	default:
		return ShapeUnknown
	}
}

// KindOf returns the collection variant for rtype. Sorted is honored only for
// slices of ordered scalars.
func KindOf(rtype reflect.Type, sorted bool) CollectionKind {
	if rtype == nil {
		return CollectionNone
	}

	switch rtype.Kind() {
	case reflect.Slice:
		if sorted && isOrdered(rtype.Elem()) {
			return CollectionSorted
		}

		return CollectionLinear
	case reflect.Array:
		return CollectionLinear
	case reflect.Map:
		if isSet(rtype) {
			return CollectionHash
		}
	}

	return CollectionNone
}

// Base strips every pointer level from rtype.
func Base(rtype reflect.Type) reflect.Type {
	for rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}

	return rtype
}

// Elem returns the item type of a collection type.
func Elem(rtype reflect.Type) reflect.Type {
	if rtype.Kind() == reflect.Map {
		return rtype.Key()
	}

	return rtype.Elem()
}

func isScalar(rtype reflect.Type, reg *primitive.Registry) bool {
	if reg != nil {
		return reg.CanHandle(rtype)
	}

	return primitive.Supports(rtype)
}

func isSet(rtype reflect.Type) bool {
	return rtype.Kind() == reflect.Map && (rtype.Elem() == emptyStructType || rtype.Elem() == boolType)
}

func isOrdered(rtype reflect.Type) bool {
	k := primitive.BaseKind(rtype)
	return k.IsNumber() || k == primitive.KindString || k == primitive.KindTime || k == primitive.KindDuration
}

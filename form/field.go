package form

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"formbind/coerce"
	"formbind/naming"
	"formbind/primitive"
	"formbind/validation"
)

//go:generate go tool stringer -type=FieldType -trimprefix=Field -output=fieldtype_string.go

// FieldType tells the renderer which input a field is shown as.
type FieldType int

const (
	FieldText FieldType = iota
	FieldTextArea
	FieldPassword
	FieldNumber
	FieldDate
	FieldCheckbox
	FieldSelect
	FieldFile
	FieldHidden
)

// ParseFieldType resolves a field type by its case-insensitive name.
func ParseFieldType(s string) (FieldType, error) {
	for t := FieldText; t <= FieldHidden; t++ {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}

	return FieldText, fmt.Errorf("%w: unknown field type %q", ErrConfiguration, s)
}

// Field is a leaf of a mapping: one input with its filled values and messages.
// Fields are owned by one mapping and never change once built.
type Field struct {
	name      string
	property  string
	typ       FieldType
	pattern   string
	formatter primitive.Formatter
	order     int
	required  bool

	values   []any
	display  []string
	messages []validation.Message
}

// FieldOption refines a declared field.
type FieldOption func(*Field)

func WithType(t FieldType) FieldOption {
	return func(f *Field) { f.typ = t }
}

// WithPattern sets the parse and display pattern, e.g. a time layout.
func WithPattern(pattern string) FieldOption {
	return func(f *Field) { f.pattern = pattern }
}

// WithFormatter overrides the registry for this field.
func WithFormatter(fm primitive.Formatter) FieldOption {
	return func(f *Field) { f.formatter = fm }
}

// WithOrder places the field among its siblings; lower comes first.
func WithOrder(order int) FieldOption {
	return func(f *Field) { f.order = order }
}

func RequiredField() FieldOption {
	return func(f *Field) { f.required = true }
}

// Name returns the full name, e.g. "person-address-street".
func (f *Field) Name() string { return f.name }

// PropertyName returns the simple property name the field binds to.
func (f *Field) PropertyName() string { return f.property }

func (f *Field) Type() FieldType { return f.typ }

func (f *Field) Pattern() string { return f.pattern }

func (f *Field) Formatter() primitive.Formatter { return f.formatter }

func (f *Field) Order() int { return f.order }

func (f *Field) IsRequired() bool { return f.required }

// LabelKey returns the translation key shared by every row of a list.
func (f *Field) LabelKey() string { return naming.LabelKey(f.name) }

// Values returns the filled values.
func (f *Field) Values() []any { return slices.Clone(f.values) }

// DisplayValues returns the filled values formatted for display.
// After a failed bind they hold the rejected input instead.
func (f *Field) DisplayValues() []string { return slices.Clone(f.display) }

// Value returns the first display value, or "".
func (f *Field) Value() string {
	if len(f.display) == 0 {
		return ""
	}

	return f.display[0]
}

// Messages returns the validation messages of the field.
func (f *Field) Messages() []validation.Message { return slices.Clone(f.messages) }

func (f *Field) clone() *Field {
	c := *f
	c.values = slices.Clone(f.values)
	c.display = slices.Clone(f.display)
	c.messages = slices.Clone(f.messages)

	return &c
}

func (f *Field) renamed(name string) *Field {
	c := f.clone()
	c.name = name

	return c
}

// defaultFieldType derives the input type from a property type.
func defaultFieldType(rtype reflect.Type, input string, reg *primitive.Registry) (FieldType, error) {
	if input != "" {
		return ParseFieldType(input)
	}

	switch coerce.Dispatch(rtype, reg) {
	case coerce.ShapeFile:
		return FieldFile, nil
	case coerce.ShapeCollection:
		if coerce.Dispatch(coerce.Elem(coerce.Base(rtype)), reg) == coerce.ShapeFile {
			return FieldFile, nil
		}

		return FieldSelect, nil
	case coerce.ShapeScalar:
	default:
		return FieldText, nil
	}

	switch reg.CategoryOf(coerce.Base(rtype)) {
	case primitive.CategoryLogical:
		return FieldCheckbox, nil
	case primitive.CategoryNumber, primitive.CategoryDecimal:
		return FieldNumber, nil
	case primitive.CategoryDate:
		return FieldDate, nil
	default:
		return FieldText, nil
	}
}

package coerce

import (
	"errors"
	"fmt"
	"reflect"

	"formbind/primitive"
)

// ErrTooManyItems marks more values than a fixed size array can hold.
var ErrTooManyItems = errors.New("too many values")

// ParseError is a recoverable conversion failure for one property.
// Raw keeps the user's original text so it can be shown again.
type ParseError struct {
	Property string
	Target   reflect.Type
	Raw      string
	Category primitive.Category
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("property %q: cannot convert %q to %s (%s)", e.Property, e.Raw, e.Target, e.Category.Name())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

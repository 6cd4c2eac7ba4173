package binder

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks mis-declared forms and types. These are never caused by user input.
var ErrConfiguration = errors.New("binder configuration error")

var (
	ErrNoConstruction  = fmt.Errorf("%w: no usable construction method", ErrConfiguration)
	ErrMissingArgument = fmt.Errorf("%w: missing construction argument", ErrConfiguration)
	ErrMissingSetter   = fmt.Errorf("%w: missing setter", ErrConfiguration)

	// ErrConstructorFailed wraps an error returned by a construction method.
	ErrConstructorFailed = errors.New("construction method failed")
)

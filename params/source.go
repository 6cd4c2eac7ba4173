// Package params adapts request parameters to the flat name to values view the form layer binds from.
package params

import (
	"errors"
	"fmt"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// DefaultMaxMemory is the multipart memory limit used by FromRequest when none is given.
const DefaultMaxMemory = 32 << 20

// Source is a read-only view of request parameters.
type Source interface {
	// Names returns every parameter and file name, sorted.
	Names() []string
	// Values returns the text values of name.
	Values(name string) []string
	// Files returns the uploaded files of name.
	Files(name string) []*multipart.FileHeader
	// Err returns the error met while reading the request, if any.
	Err() error
}

// ErrorKind classifies a RequestError.
type ErrorKind int

const (
	KindFailed ErrorKind = iota
	KindSizeExceeded
)

// RequestError is a failure to read request parameters.
type RequestError struct {
	Kind ErrorKind
	Err  error
}

func (e *RequestError) Error() string {
	if e.Kind == KindSizeExceeded {
		return fmt.Sprintf("request size exceeded: %v", e.Err)
	}

	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsSizeExceeded reports whether err is a RequestError of kind KindSizeExceeded.
func IsSizeExceeded(err error) bool {
	var re *RequestError

	return errors.As(err, &re) && re.Kind == KindSizeExceeded
}

type source struct {
	values url.Values
	files  map[string][]*multipart.FileHeader
	err    error
}

// FromValues returns a source over plain values.
func FromValues(values url.Values) Source {
	return &source{values: values}
}

// FromMultipart returns a source over a parsed multipart form.
func FromMultipart(form *multipart.Form) Source {
	if form == nil {
		return &source{}
	}

	return &source{values: form.Value, files: form.File}
}

// FromError returns an empty source carrying err.
func FromError(err error) Source {
	return &source{err: classify(err)}
}

// FromRequest parses the form of r. A failure is not returned but kept in the source's Err.
func FromRequest(r *http.Request, maxMemory int64) Source {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}

	s := &source{values: r.Form}
	if r.MultipartForm != nil {
		s.files = r.MultipartForm.File
	}

	if err != nil {
		s.err = classify(err)
	}

	return s
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/")
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	var re *RequestError
	if errors.As(err, &re) {
		return err
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return &RequestError{Kind: KindSizeExceeded, Err: err}
	}

	return &RequestError{Kind: KindFailed, Err: err}
}

func (s *source) Names() []string {
	names := make(map[string]struct{}, len(s.values)+len(s.files))
	for k := range s.values {
		names[k] = struct{}{}
	}

	for k := range s.files {
		names[k] = struct{}{}
	}

	return slices.Sorted(maps.Keys(names))
}

func (s *source) Values(name string) []string {
	return slices.Clone(s.values[name])
}

func (s *source) Files(name string) []*multipart.FileHeader {
	return slices.Clone(s.files[name])
}

func (s *source) Err() error {
	return s.err
}

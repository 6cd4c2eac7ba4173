// Package naming composes, prefixes and indexes the full names of form fields.
//
// A full name joins the property names from the root mapping down to the
// field with Separator, e.g. "person-address-street". Rows of a list mapping
// carry a bracketed index right after the list's own path:
// "person-addresses[2]-street".
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// Separator joins path segments.
	Separator = "-"

	// AuthTokenField is the reserved property name of the CSRF token field.
	AuthTokenField = "formAuthToken"

	// MultiValueSuffix is appended by clients that submit repeated values as "name[]".
	MultiValueSuffix = "[]"
)

var (
	// ErrPathPrefixed is returned when a path already carries the requested prefix.
	ErrPathPrefixed = errors.New("path already prefixed")

	// ErrIndexOutsidePrefix is returned when a path does not start with the prefix to index.
	ErrIndexOutsidePrefix = errors.New("path does not start with index prefix")

	indexPattern = regexp.MustCompile(`\[[0-9]*\]`)
)

// Prefix returns prefix + Separator + path.
// It fails when path equals prefix or already starts with prefix + Separator.
func Prefix(path, prefix string) (string, error) {
	if prefix == "" {
		return path, nil
	}

	if path == prefix || strings.HasPrefix(path, prefix+Separator) {
		return "", fmt.Errorf("%w: %q with %q", ErrPathPrefixed, path, prefix)
	}

	if path == "" {
		return prefix, nil
	}

	return prefix + Separator + path, nil
}

// WithIndex inserts "[index]" immediately after prefix in path.
func WithIndex(path string, index int, prefix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("%w: %q does not start with %q", ErrIndexOutsidePrefix, path, prefix)
	}

	return prefix + "[" + strconv.Itoa(index) + "]" + path[len(prefix):], nil
}

// LabelKey strips every bracketed index so repeated list rows share one translation key.
func LabelKey(path string) string {
	return indexPattern.ReplaceAllString(path, "")
}

// Join concatenates non-empty segments with Separator.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))

	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, Separator)
}

// Last returns the last segment of path.
func Last(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[i+len(Separator):]
	}

	return path
}

// IsRoot reports whether path is a single segment.
func IsRoot(path string) bool {
	return !strings.Contains(path, Separator)
}

// ValidIdent checks that s is usable as a single path segment:
// a letter or underscore followed by letters, digits or underscores.
func ValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			// First character must be letter or underscore
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

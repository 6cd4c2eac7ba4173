package form

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"golang.org/x/text/language"

	"formbind/params"
	"formbind/validation"
)

// FormData pairs a bound or filled value with its validation result.
type FormData struct {
	Value  any
	Result *validation.Result
}

// Valid reports whether the result carries no messages.
func (d FormData) Valid() bool {
	return d.Result.IsValid()
}

// BindAs binds a single-object mapping of T.
func BindAs[T any](ctx context.Context, m *Mapping, src params.Source, existing *T, locale language.Tag, groups ...string) (*T, *validation.Result, error) {
	var ex any
	if existing != nil {
		ex = existing
	}

	fd, err := m.Bind(ctx, src, ex, locale, groups...)
	if err != nil {
		return nil, nil, err
	}

	v, ok := fd.Value.(*T)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s binds %T, not %s", ErrConfiguration, m, fd.Value, reflect.TypeFor[*T]())
	}

	return v, fd.Result, nil
}

// BindListAs binds a list mapping of T.
func BindListAs[T any](ctx context.Context, m *Mapping, src params.Source, existing []*T, locale language.Tag, groups ...string) ([]*T, *validation.Result, error) {
	var ex any
	if existing != nil {
		ex = existing
	}

	fd, err := m.Bind(ctx, src, ex, locale, groups...)
	if err != nil {
		return nil, nil, err
	}

	v, ok := fd.Value.([]*T)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s binds %T, not %s", ErrConfiguration, m, fd.Value, reflect.TypeFor[[]*T]())
	}

	return v, fd.Result, nil
}

// BindRequest binds the form parameters of r in the locale the client prefers.
func (m *Mapping) BindRequest(r *http.Request, existing any, groups ...string) (FormData, error) {
	return m.Bind(r.Context(), params.FromRequest(r, 0), existing, RequestLocale(r, m.config.Locale), groups...)
}

// RequestLocale returns the first language of the Accept-Language header of r, or fallback.
func RequestLocale(r *http.Request, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return fallback
	}

	return tags[0]
}

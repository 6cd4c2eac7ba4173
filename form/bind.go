package form

import (
	"context"
	"fmt"
	"maps"
	"math"
	"mime/multipart"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"formbind/binder"
	"formbind/naming"
	"formbind/params"
	"formbind/validation"
)

// bindRequest is the state of one Bind call, shared by every node it visits.
type bindRequest struct {
	ctx    context.Context
	src    params.Source
	names  []string
	known  map[string]bool
	reqErr error
	locale language.Tag
	groups []string
}

// Bind builds the object of the mapping from src. Nested mappings are bound
// first and their results become property values of this level. When
// existing is not nil it is filled instead of constructing a new object.
//
// Conversion failures and constraint violations end up in the result; the
// returned error is reserved for configuration errors and, on secured
// mappings, for a missing or invalid authentication token.
func (m *Mapping) Bind(ctx context.Context, src params.Source, existing any, locale language.Tag, groups ...string) (FormData, error) {
	names := src.Names()

	r := &bindRequest{
		ctx:    ctx,
		src:    src,
		names:  names,
		known:  make(map[string]bool, len(names)),
		reqErr: src.Err(),
		locale: locale,
		groups: groups,
	}

	for _, n := range names {
		r.known[n] = true
	}

	if r.reqErr != nil {
		m.config.Logger.Warn("form request failed", "path", m.path, "error", r.reqErr)
	}

	return m.bind(r, existing)
}

func (m *Mapping) bind(r *bindRequest, existing any) (FormData, error) {
	if m.IsList() {
		return m.bindList(r, existing)
	}

	return m.bindObject(r, existing)
}

func (m *Mapping) bindObject(r *bindRequest, existing any) (FormData, error) {
	cfg := m.config
	if isNil(existing) {
		existing = nil
	}

	values := binder.Values{}
	hints := map[string]binder.Hint{}

	for _, f := range m.fields {
		if raw, ok := m.rawValues(r, f); ok {
			values[f.property] = raw
		}

		if f.pattern != "" || f.formatter != nil {
			hints[f.property] = binder.Hint{Pattern: f.pattern, Formatter: f.formatter}
		}
	}

	acc := binder.AccessorsFor(m.dataType)
	results := make([]*validation.Result, 0, len(m.nested)+1)

	for _, n := range m.nested {
		fd, err := n.bind(r, nestedExisting(acc, existing, n.Key()))
		if err != nil {
			return FormData{}, err
		}

		values[n.Key()] = []any{fd.Value}
		results = append(results, fd.Result)
	}

	if m.secured && !params.IsSizeExceeded(r.reqErr) {
		token, _ := firstString(values[naming.AuthTokenField])
		if err := cfg.Guard().Verify(r.ctx, m.path, token); err != nil {
			cfg.Logger.Warn("form token rejected", "path", m.path, "error", err)
			return FormData{}, err
		}
	}

	inst := m.instantiator
	if existing != nil {
		inst = binder.Instance(existing)
	}

	res, err := cfg.Binder(r.locale).BindToNewInstance(binder.Request{
		Type:         m.dataType,
		Instantiator: inst,
		Values:       values,
		Hints:        hints,
	})
	if err != nil {
		return FormData{}, fmt.Errorf("bind %s: %w", m.path, err)
	}

	seed := validation.NewBuilder()
	if r.reqErr != nil {
		seed.AddGlobal(requestMessage(r.reqErr))
	}

	for _, prop := range slices.Sorted(maps.Keys(res.Errors)) {
		path := naming.Join(m.path, prop)
		for _, perr := range res.Errors[prop] {
			seed.AddField(path, validation.ParseMessage(perr.Category))
		}

		seed.Reject(path, rawStrings(values[prop])...)
	}

	obj := res.Value.Interface()
	results = append(results, cfg.Validator.Validate(obj, m.path, seed.Build(), r.locale, r.groups...))

	cfg.Logger.Debug("form bound", "path", m.path, "type", m.dataType.String(), "parse_errors", len(res.Errors))

	return FormData{Value: obj, Result: validation.Merge(results...)}, nil
}

func (m *Mapping) bindList(r *bindRequest, existing any) (FormData, error) {
	cfg := m.config
	maxIndex := r.maxIndex(m.path)

	capped := validation.NewBuilder()
	if cfg.CapsIndex(maxIndex) {
		cfg.Logger.Warn("form list index above cap", "path", m.path, "index", maxIndex, "max", cfg.MaxListIndex)
		capped.AddGlobal(validation.TooManyRowsMessage(m.path, cfg.MaxListIndex))
		maxIndex = cfg.MaxListIndex
	}

	rows := reflect.MakeSlice(reflect.SliceOf(reflect.PointerTo(m.dataType)), 0, 0)

	var results []*validation.Result

	for i := 0; i <= maxIndex; i++ {
		row, err := m.item.WithIndexAfterPathPrefix(i, m.path)
		if err != nil {
			return FormData{}, err
		}

		fd, err := row.bindObject(r, elementAt(existing, i))
		if err != nil {
			return FormData{}, err
		}

		rows = reflect.Append(rows, reflect.ValueOf(fd.Value))
		results = append(results, fd.Result)
	}

	results = append(results, capped.Build())

	cfg.Logger.Debug("form list bound", "path", m.path, "rows", rows.Len())

	return FormData{Value: rows.Interface(), Result: validation.Merge(results...)}, nil
}

// rawValues collects the submitted values of f: the exact name first, then
// the name with MultiValueSuffix. ok is false when neither was submitted.
func (m *Mapping) rawValues(r *bindRequest, f *Field) ([]any, bool) {
	for _, name := range []string{f.name, f.name + naming.MultiValueSuffix} {
		if !r.known[name] {
			continue
		}

		var raw []any
		for _, s := range r.src.Values(name) {
			if m.config.TrimInput {
				s = strings.TrimSpace(s)
			}

			raw = append(raw, s)
		}

		for _, fh := range r.src.Files(name) {
			raw = append(raw, fh)
		}

		return raw, true
	}

	return nil, false
}

// rowIndex matches the index that opens the rest of a row parameter name.
var rowIndex = regexp.MustCompile(`^\[(\d+)\]`)

// maxIndex returns the greatest row index submitted for the list at path, or -1.
func (r *bindRequest) maxIndex(path string) int {
	maxIndex := -1
	for _, name := range r.names {
		rest, ok := strings.CutPrefix(name, path)
		if !ok {
			continue
		}

		sm := rowIndex.FindStringSubmatch(rest)
		if sm == nil {
			continue
		}

		i, err := strconv.Atoi(sm[1])
		if err != nil {
			i = math.MaxInt
		}

		maxIndex = max(maxIndex, i)
	}

	return maxIndex
}

func requestMessage(err error) validation.Message {
	if params.IsSizeExceeded(err) {
		return validation.SizeExceededMessage()
	}

	return validation.RequestFailedMessage(err)
}

func firstString(raw []any) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	s, ok := raw[0].(string)

	return s, ok
}

func rawStrings(raw []any) []string {
	out := make([]string, 0, len(raw))

	for _, v := range raw {
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case *multipart.FileHeader:
			out = append(out, x.Filename)
		default:
			out = append(out, fmt.Sprint(x))
		}
	}

	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}

// objectRef returns v as something binder.Instance can fill in place.
func objectRef(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}

		return v.Interface()
	case reflect.Struct:
		if v.CanAddr() {
			return v.Addr().Interface()
		}

		return v.Interface()
	default:
		return nil
	}
}

func nestedExisting(acc *binder.Accessors, existing any, key string) any {
	if existing == nil {
		return nil
	}

	v, ok := acc.Get(reflect.ValueOf(existing), key)
	if !ok {
		return nil
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}

		return v.Interface()
	}

	return objectRef(v)
}

func elementAt(list any, i int) any {
	rv := reflect.ValueOf(list)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || i >= rv.Len() {
		return nil
	}

	return objectRef(rv.Index(i))
}

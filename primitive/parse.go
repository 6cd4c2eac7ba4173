package primitive

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// DefaultDateLayout is used for time.Time values when a field declares no pattern.
const DefaultDateLayout = "2006-01-02"

// ErrParse marks every failure to turn a string into a typed value.
var ErrParse = errors.New("parse error")

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// Supports reports whether Parse can produce values of rtype.
func Supports(rtype reflect.Type) bool {
	if rtype == nil {
		return false
	}

	if FromReflectType(rtype) != 0 {
		return true
	}

	return reflect.PointerTo(rtype).Implements(textUnmarshalerType)
}

// Parse converts s into a value of rtype. Pattern is a time layout for
// time.Time, a unit such as "m" or "ms" for time.Duration and a fmt verb for
// numbers; other kinds ignore it.
func Parse(rtype reflect.Type, s, pattern string) (reflect.Value, error) {
	if k := FromReflectType(rtype); (k == 0 || k == KindPrimitiveEnum) &&
		reflect.PointerTo(rtype).Implements(textUnmarshalerType) {
		ptr := reflect.New(rtype)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %s: %w", ErrParse, rtype, err)
		}

		return ptr.Elem(), nil
	}

	kind := BaseKind(rtype)

	var (
		v   any
		err error
	)

	switch {
	case kind.IsSigned():
		v, err = strconv.ParseInt(strings.TrimSpace(s), 10, kind.Bits())
	case kind.IsUnsigned():
		v, err = strconv.ParseUint(strings.TrimSpace(s), 10, kind.Bits())
	case kind.IsFloat():
		v, err = strconv.ParseFloat(strings.TrimSpace(s), kind.Bits())
	case kind == KindBool:
		v, err = parseBool(s)
	case kind == KindString:
		v = s
	case kind == KindTime:
		v, err = parseTime(s, pattern)
	case kind == KindDuration:
		v, err = parseDuration(s, pattern)
	default:
		return reflect.Value{}, fmt.Errorf("%w: unsupported type %s", ErrParse, rtype)
	}

	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %q as %s: %w", ErrParse, s, rtype, err)
	}

	return reflect.ValueOf(v).Convert(rtype), nil
}

// Format renders v for display. Pattern mirrors Parse.
func Format(v reflect.Value, pattern string) (string, error) {
	if !v.IsValid() {
		return "", nil
	}

	rtype := v.Type()
	switch BaseKind(rtype) {
	case KindTime:
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "", nil
		}

		if pattern == "" {
			pattern = DefaultDateLayout
		}

		return t.Format(pattern), nil
	case KindDuration:
		return formatDuration(time.Duration(v.Int()), pattern), nil
	}

	if rtype.Implements(textMarshalerType) {
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", err
		}

		return string(b), nil
	}

	kind := BaseKind(rtype)
	switch {
	case kind.IsSigned():
		if pattern != "" {
			return fmt.Sprintf(pattern, v.Int()), nil
		}
		return strconv.FormatInt(v.Int(), 10), nil
	case kind.IsUnsigned():
		if pattern != "" {
			return fmt.Sprintf(pattern, v.Uint()), nil
		}
		return strconv.FormatUint(v.Uint(), 10), nil
	case kind.IsFloat():
		if pattern != "" {
			return fmt.Sprintf(pattern, v.Float()), nil
		}
		return strconv.FormatFloat(v.Float(), 'f', -1, kind.Bits()), nil
	case kind == KindBool:
		return strconv.FormatBool(v.Bool()), nil
	case kind == KindString:
		return v.String(), nil
	}

	if rtype.Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String(), nil
	}

	return fmt.Sprint(v.Interface()), nil
}

var durationUnits = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
}

// parseDuration accepts any time.ParseDuration text and, with a unit
// pattern, a bare number of that unit.
func parseDuration(s, unit string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if u, ok := durationUnits[unit]; ok {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Duration(n) * u, nil
		}
	}

	return time.ParseDuration(s)
}

// formatDuration writes d in the pattern unit ("90m") when it is a whole
// number of that unit, else in the canonical form ("1h30m0s").
func formatDuration(d time.Duration, unit string) string {
	if u, ok := durationUnits[unit]; ok && d%u == 0 {
		return strconv.FormatInt(int64(d/u), 10) + unit
	}

	return d.String()
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1", "checked":
		return true, nil
	case "false", "off", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

func parseTime(s, pattern string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if pattern != "" {
		return time.Parse(pattern, s)
	}

	t, err := time.Parse(DefaultDateLayout, s)
	if err == nil {
		return t, nil
	}

	if t, rfcErr := time.Parse(time.RFC3339, s); rfcErr == nil {
		return t, nil
	}

	return time.Time{}, err
}

package primitive

import (
	"errors"
	"net/netip"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type level int

type upper string

type upperFormatter struct{}

func (upperFormatter) Parse(s, _ string, _ language.Tag) (any, error) {
	if s == "" {
		return nil, errors.New("empty")
	}
	return upper(strings.ToUpper(s)), nil
}

func (upperFormatter) Format(v any, _ string, _ language.Tag) (string, error) {
	return strings.ToLower(string(v.(upper))), nil
}

func (upperFormatter) Category() Category { return CategoryCharacter }

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		rtype   reflect.Type
		input   string
		pattern string
		want    any
	}{
		{name: "int", rtype: reflect.TypeOf(0), input: " 42 ", want: 42},
		{name: "int8", rtype: reflect.TypeOf(int8(0)), input: "-8", want: int8(-8)},
		{name: "uint16", rtype: reflect.TypeOf(uint16(0)), input: "65535", want: uint16(65535)},
		{name: "float", rtype: reflect.TypeOf(0.0), input: "1.5", want: 1.5},
		{name: "bool on", rtype: reflect.TypeOf(false), input: "on", want: true},
		{name: "bool no", rtype: reflect.TypeOf(false), input: "No", want: false},
		{name: "string", rtype: reflect.TypeOf(""), input: " kept ", want: " kept "},
		{name: "enum", rtype: reflect.TypeOf(level(0)), input: "3", want: level(3)},
		{name: "duration", rtype: reflect.TypeOf(time.Duration(0)), input: "2h45m", want: 2*time.Hour + 45*time.Minute},
		{
			name: "date default layout", rtype: reflect.TypeOf(time.Time{}), input: "2024-02-29",
			want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "date pattern", rtype: reflect.TypeOf(time.Time{}), input: "29.02.2024", pattern: "02.01.2006",
			want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{name: "text unmarshaler", rtype: reflect.TypeOf(netip.Addr{}), input: "10.0.0.1", want: netip.MustParseAddr("10.0.0.1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.rtype, tt.input, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, tc := range []struct {
		rtype reflect.Type
		input string
	}{
		{reflect.TypeOf(0), "x"},
		{reflect.TypeOf(int8(0)), "300"},
		{reflect.TypeOf(uint(0)), "-1"},
		{reflect.TypeOf(false), "maybe"},
		{reflect.TypeOf(time.Time{}), "yesterday"},
		{reflect.TypeOf(struct{}{}), "x"},
	} {
		_, err := Parse(tc.rtype, tc.input, "")
		require.ErrorIs(t, err, ErrParse, "%s %q", tc.rtype, tc.input)
	}
}

func TestFormat(t *testing.T) {
	format := func(v any, pattern string) string {
		s, err := Format(reflect.ValueOf(v), pattern)
		require.NoError(t, err)
		return s
	}

	assert.Equal(t, "42", format(42, ""))
	assert.Equal(t, "0042", format(42, "%04d"))
	assert.Equal(t, "1.25", format(1.25, ""))
	assert.Equal(t, "true", format(true, ""))
	assert.Equal(t, "2024-02-29", format(time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), ""))
	assert.Equal(t, "", format(time.Time{}, ""))
	assert.Equal(t, "1m30s", format(90*time.Second, ""))
	assert.Equal(t, "90m", format(90*time.Minute, "m"))
	assert.Equal(t, "1m30s", format(90*time.Second, "m"))
	assert.Equal(t, "10.0.0.1", format(netip.MustParseAddr("10.0.0.1"), ""))
	assert.Equal(t, "3", format(level(3), ""))
}

func TestParseFormat_DurationUnit(t *testing.T) {
	rtype := reflect.TypeOf(time.Duration(0))

	for _, input := range []string{"90m", "45s", "2h", "1500ms"} {
		unit := strings.TrimLeft(input, "0123456789")

		v, err := Parse(rtype, input, unit)
		require.NoError(t, err)

		s, err := Format(v, unit)
		require.NoError(t, err)
		assert.Equal(t, input, s)
	}

	v, err := Parse(rtype, "15", "m")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, v.Interface())

	v, err = Parse(rtype, "1h30m", "m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, v.Interface())

	_, err = Parse(rtype, "15", "")
	require.ErrorIs(t, err, ErrParse)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	rtype := reflect.TypeOf(upper(""))

	assert.True(t, r.CanHandle(reflect.TypeOf(0)))
	assert.False(t, r.CanHandle(reflect.TypeOf(struct{}{})))
	assert.Equal(t, CategoryText, r.CategoryOf(rtype))

	r.Register(rtype, upperFormatter{})
	assert.Equal(t, CategoryCharacter, r.CategoryOf(rtype))

	v, err := r.Parse("abc", rtype, "", language.English)
	require.NoError(t, err)
	assert.Equal(t, upper("ABC"), v.Interface())

	s, err := r.Format(v, "", language.English)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	_, err = r.Parse("", rtype, "", language.English)
	require.ErrorIs(t, err, ErrParse)

	assert.Panics(t, func() { r.Register(rtype, nil) })
}

package form

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formbind/naming"
)

func fieldNames(m *Mapping) []string {
	var names []string
	for _, f := range m.Fields() {
		names = append(names, f.Name())
	}

	return names
}

func TestBuild_Paths(t *testing.T) {
	addr := mustBuild(t, For[address]("address").Field("street").Field("city"))
	m := mustBuild(t, For[person]("person").Field("fullName").Field("age").Nested(addr))

	assert.Equal(t, "person", m.Path())
	assert.Equal(t, reflect.TypeFor[person](), m.DataType())
	assert.Equal(t, []string{"person-fullName", "person-age"}, fieldNames(m))

	nested, ok := m.NestedMapping("address")
	require.True(t, ok)
	assert.Equal(t, "person-address", nested.Path())
	assert.Equal(t, "address", nested.Key())
	assert.Equal(t, []string{"person-address-street", "person-address-city"}, fieldNames(nested))

	// the declared mapping keeps its own paths
	assert.Equal(t, []string{"address-street", "address-city"}, fieldNames(addr))

	age, ok := m.Field("age")
	require.True(t, ok)
	assert.Equal(t, FieldNumber, age.Type())
	assert.Equal(t, "age", age.PropertyName())
	assert.Equal(t, "person-age", age.LabelKey())

	_, ok = m.Field("nope")
	assert.False(t, ok)
}

func TestWithPathPrefix(t *testing.T) {
	m := mustBuild(t, For[address]("address").Field("street"))

	moved, err := m.WithPathPrefix("home")
	require.NoError(t, err)
	assert.Equal(t, "home-address", moved.Path())
	assert.Equal(t, []string{"home-address-street"}, fieldNames(moved))

	_, err = moved.WithPathPrefix("home")
	require.ErrorIs(t, err, ErrConfiguration)
	require.ErrorIs(t, err, naming.ErrPathPrefixed)

	_, err = m.WithPathPrefix("address")
	require.ErrorIs(t, err, naming.ErrPathPrefixed)

	// a placed mapping cannot be nested again
	_, err = For[person]("person").Nested(moved).Build()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestWithIndexAfterPathPrefix(t *testing.T) {
	m := mustBuild(t, For[person]("person").List(mustBuild(t, For[address]("addresses").Field("street"))))

	rows, ok := m.NestedMapping("addresses")
	require.True(t, ok)
	require.True(t, rows.IsList())

	item, ok := rows.Item()
	require.True(t, ok)

	row, err := item.WithIndexAfterPathPrefix(3, rows.Path())
	require.NoError(t, err)
	assert.Equal(t, "person-addresses[3]", row.Path())
	assert.Equal(t, []string{"person-addresses[3]-street"}, fieldNames(row))
	assert.Equal(t, "person-addresses-street", row.Fields()[0].LabelKey())

	_, err = item.WithIndexAfterPathPrefix(0, "other")
	require.ErrorIs(t, err, naming.ErrIndexOutsidePrefix)
}

func TestBuild_Order(t *testing.T) {
	m := mustBuild(t, For[person]("p").
		Field("fullName").
		Field("age", WithOrder(-1), RequiredField()).
		Field("tags", WithType(FieldText), WithPattern("x")).
		Secured())

	assert.Equal(t, []string{"p-age", "p-fullName", "p-tags", "p-formAuthToken"}, fieldNames(m))

	age, _ := m.Field("age")
	assert.True(t, age.IsRequired())

	tags, _ := m.Field("tags")
	assert.Equal(t, FieldText, tags.Type())
	assert.Equal(t, "x", tags.Pattern())

	token, _ := m.Field(naming.AuthTokenField)
	assert.Equal(t, FieldHidden, token.Type())
	assert.True(t, m.IsSecured())
}

func TestBuild_Errors(t *testing.T) {
	addr := mustBuild(t, For[address]("address").Field("street"))
	secured := mustBuild(t, For[address]("address").Field("street").Secured())
	securedRows := mustBuild(t, For[address]("addresses").Field("street").Secured())

	tests := []struct {
		name string
		b    *Builder
	}{
		{"reserved field", For[person]("p").Field(naming.AuthTokenField)},
		{"invalid property", For[person]("p").Field("full-name")},
		{"duplicate field", For[person]("p").Field("age").Field("age")},
		{"duplicate nested", For[person]("p").Nested(addr).Nested(addr)},
		{"secured nested", For[person]("p").Nested(secured)},
		{"secured list rows", For[person]("p").List(securedRows)},
		{"nil nested", For[person]("p").Nested(nil)},
		{"not a struct", New("p", 5)},
		{"no type", New("p", nil)},
		{"invalid path", For[person]("p-q")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

type node struct {
	Name string
	Next *node
}

type tree struct {
	Label    string
	Children []tree
}

func TestAutoFields(t *testing.T) {
	m := mustBuild(t, For[person]("p").AutoFields())

	assert.Equal(t, []string{"p-fullName", "p-age", "p-tags"}, fieldNames(m))

	tags, _ := m.Field("tags")
	assert.Equal(t, FieldSelect, tags.Type())

	addr, ok := m.NestedMapping("address")
	require.True(t, ok)
	assert.False(t, addr.IsList())
	assert.Equal(t, []string{"p-address-street", "p-address-city"}, fieldNames(addr))

	rows, ok := m.NestedMapping("addresses")
	require.True(t, ok)
	assert.True(t, rows.IsList())

	// declared fields win over derived ones
	m = mustBuild(t, For[person]("p").Field("age", WithType(FieldText)).AutoFields())
	assert.Equal(t, []string{"p-age", "p-fullName", "p-tags"}, fieldNames(m))
	age, _ := m.Field("age")
	assert.Equal(t, FieldText, age.Type())
}

func TestAutoFields_Cycles(t *testing.T) {
	_, err := For[node]("n").AutoFields().Build()
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = For[tree]("t").AutoFields().Build()
	require.ErrorIs(t, err, ErrConfiguration)

	// without derivation the type is fine
	_, err = For[node]("n").Field("name").Build()
	require.NoError(t, err)
}

func TestParseFieldType(t *testing.T) {
	ft, err := ParseFieldType("password")
	require.NoError(t, err)
	assert.Equal(t, FieldPassword, ft)

	ft, err = ParseFieldType("TEXTAREA")
	require.NoError(t, err)
	assert.Equal(t, FieldTextArea, ft)

	_, err = ParseFieldType("slider")
	require.True(t, errors.Is(err, ErrConfiguration))
}

func TestWithConfig(t *testing.T) {
	cfg := testConfig()
	m := personMapping(t, nil)

	assert.False(t, m.HasUserConfig())

	c := m.WithConfig(cfg)
	assert.Same(t, cfg, c.Config())
	assert.True(t, c.HasUserConfig())

	nested, _ := c.NestedMapping("address")
	assert.Same(t, cfg, nested.Config())
	assert.False(t, nested.HasUserConfig())

	// the original keeps its configuration
	assert.NotSame(t, cfg, m.Config())
}

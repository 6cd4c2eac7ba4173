package definition

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"formbind/form"
	"formbind/primitive"
)

type address struct {
	Street string
	City   string
}

type phone struct {
	Number string
	Kind   string
}

type person struct {
	FullName string
	Age      int
	Password string
	Address  address
	Phones   []phone
	Tags     []string
}

type upper struct{}

func (upper) Parse(s, _ string, _ language.Tag) (any, error) { return s, nil }
func (upper) Format(v any, _ string, _ language.Tag) (string, error) { return v.(string), nil }

var _ primitive.Formatter = upper{}

const personYAML = `
config:
  max_list_index: 20
forms:
  - path: person
    type: Person
    secured: true
    fields:
      - fullName
      - name: age
        type: number
        order: -1
      - name: password
        type: password
        required: true
    nested:
      - path: address
        auto: true
    lists:
      - path: phones
        fields: [number, kind]
`

func registry() *Registry {
	reg := NewRegistry().AddFormatter("upper", upper{})
	return RegisterType[person](reg, "Person")
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(personYAML))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, f.Version)
	require.NotNil(t, f.Config)
	require.NotNil(t, f.Config.MaxListIndex)
	assert.Equal(t, 20, *f.Config.MaxListIndex)

	def, ok := f.Find("person")
	require.True(t, ok)
	assert.True(t, def.Secured)
	require.Len(t, def.Fields, 3)

	// shorthand
	assert.Equal(t, FieldDef{Name: "fullName"}, def.Fields[0])

	assert.Equal(t, "number", def.Fields[1].Type)
	require.NotNil(t, def.Fields[1].Order)
	assert.Equal(t, -1, *def.Fields[1].Order)
	assert.True(t, def.Fields[2].Required)

	require.Len(t, def.Nested, 1)
	assert.True(t, def.Nested[0].Auto)
	require.Len(t, def.Lists, 1)
	assert.Equal(t, []FieldDef{{Name: "number"}, {Name: "kind"}}, def.Lists[0].Fields)

	_, ok = f.Find("nobody")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("forms: [{path: p, fields: [[a]]}]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected field name or map")

	_, err = Parse([]byte("forms: {"))
	require.Error(t, err)
}

func TestWriteFile_LoadFile(t *testing.T) {
	f, err := Parse([]byte(personYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "forms.yaml")
	require.NoError(t, WriteFile(f, path))

	data, err := Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- fullName\n")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate_Valid(t *testing.T) {
	f, err := Parse([]byte(personYAML))
	require.NoError(t, err)

	res := Validate(f, registry())
	assert.True(t, res.IsValid(), "unexpected errors: %v", res.Err())

	// without a registry only the structure is checked
	res = Validate(f, nil)
	assert.True(t, res.IsValid(), "unexpected errors: %v", res.Err())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		codes []string
	}{
		{
			name:  "invalid path",
			yaml:  "forms: [{path: 1person, type: Person, fields: [fullName]}]",
			codes: []string{"invalid_path"},
		},
		{
			name:  "duplicate form",
			yaml:  "forms: [{path: p, type: Person, fields: [age]}, {path: p, type: Person, fields: [age]}]",
			codes: []string{"duplicate_form"},
		},
		{
			name:  "missing type",
			yaml:  "forms: [{path: p, fields: [age]}]",
			codes: []string{"missing_type"},
		},
		{
			name:  "unknown type",
			yaml:  "forms: [{path: p, type: Persn, fields: [age]}]",
			codes: []string{"type_not_found"},
		},
		{
			name:  "unknown property",
			yaml:  "forms: [{path: p, type: Person, fields: [fullname]}]",
			codes: []string{"unknown_property"},
		},
		{
			name:  "reserved field",
			yaml:  "forms: [{path: p, type: Person, fields: [formAuthToken]}]",
			codes: []string{"reserved_field"},
		},
		{
			name:  "duplicate property",
			yaml:  "forms: [{path: p, type: Person, fields: [age, age]}]",
			codes: []string{"duplicate_property"},
		},
		{
			name:  "field type",
			yaml:  "forms: [{path: p, type: Person, fields: [{name: password, type: passwd}]}]",
			codes: []string{"invalid_field_type"},
		},
		{
			name:  "formatter",
			yaml:  "forms: [{path: p, type: Person, fields: [{name: fullName, formatter: uper}]}]",
			codes: []string{"formatter_not_found"},
		},
		{
			name:  "instantiator",
			yaml:  "forms: [{path: p, type: Person, instantiator: NewPerson, fields: [age]}]",
			codes: []string{"instantiator_not_found"},
		},
		{
			name:  "nested secured",
			yaml:  "forms: [{path: p, type: Person, nested: [{path: address, secured: true, auto: true}]}]",
			codes: []string{"nested_secured"},
		},
		{
			name:  "nested scalar",
			yaml:  "forms: [{path: p, type: Person, nested: [{path: age, auto: true}]}]",
			codes: []string{"nested_not_struct"},
		},
		{
			name:  "list of scalars",
			yaml:  "forms: [{path: p, type: Person, lists: [{path: tags, auto: true}]}]",
			codes: []string{"list_not_struct"},
		},
		{
			name:  "list of struct",
			yaml:  "forms: [{path: p, type: Person, lists: [{path: address, auto: true}]}]",
			codes: []string{"list_not_collection"},
		},
		{
			name:  "nested type mismatch",
			yaml:  "forms: [{path: p, type: Person, nested: [{path: address, type: Person, auto: true}]}]",
			codes: []string{"type_mismatch"},
		},
		{
			name:  "nested field of nested type",
			yaml:  "forms: [{path: p, type: Person, nested: [{path: address, fields: [street, zip]}]}]",
			codes: []string{"unknown_property"},
		},
		{
			name:  "config",
			yaml:  "config: {locale: '!!'}\nforms: [{path: p, type: Person, fields: [age]}]",
			codes: []string{"invalid_config"},
		},
		{
			name:  "version",
			yaml:  "version: '9'\nforms: [{path: p, type: Person, fields: [age]}]",
			codes: []string{"unsupported_version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			res := Validate(f, registry())
			assert.Equal(t, tt.codes, res.Codes(), "errors: %v", res.Err())
		})
	}
}

func TestValidate_Suggestions(t *testing.T) {
	f, err := Parse([]byte("forms: [{path: p, type: Person, fields: [fullname, {name: password, type: passwrd}]}]"))
	require.NoError(t, err)

	res := Validate(f, registry())
	require.Len(t, res.Errors, 2)

	assert.Equal(t, "p-fullname", res.Errors[0].FieldPath)
	assert.Equal(t, []string{"fullName"}, res.Errors[0].Suggestions)
	assert.Equal(t, []string{"Password"}, res.Errors[1].Suggestions)
}

func TestValidate_TypeSuggestions(t *testing.T) {
	reg := registry()
	RegisterType[address](reg, "Address")
	RegisterType[phone](reg, "Adress")

	f, err := Parse([]byte("forms: [{path: p, type: Person, nested: [{path: address, type: Adres, auto: true}]}]"))
	require.NoError(t, err)

	res := Validate(f, reg)
	require.Equal(t, []string{"type_not_found"}, res.Codes())
	assert.Equal(t, []string{"Address"}, res.Errors[0].Suggestions)

	f, err = Parse([]byte("forms: [{path: p, type: Adres, auto: true}]"))
	require.NoError(t, err)

	res = Validate(f, reg)
	require.Equal(t, []string{"type_not_found"}, res.Codes())
	assert.Equal(t, []string{"Adress", "Address"}, res.Errors[0].Suggestions)
}

func TestValidate_Warnings(t *testing.T) {
	f, err := Parse([]byte("forms: [{path: p, type: Person}]"))
	require.NoError(t, err)

	res := Validate(f, registry())
	assert.True(t, res.IsValid())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "empty_form", res.Warnings[0].Code)

	res = Validate(&File{Version: CurrentVersion}, nil)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "no_forms", res.Warnings[0].Code)

	assert.Equal(t, []string{"definition_is_nil"}, Validate(nil, nil).Codes())
}

func TestBuild(t *testing.T) {
	f, err := Parse([]byte(personYAML))
	require.NoError(t, err)

	mappings, err := Build(f, registry())
	require.NoError(t, err)
	require.Len(t, mappings, 1)

	m := mappings["person"]
	require.NotNil(t, m)
	assert.True(t, m.IsSecured())
	assert.Equal(t, 20, m.Config().MaxListIndex)

	var names []string
	for _, fld := range m.Fields() {
		names = append(names, fld.Name())
	}
	assert.Equal(t, []string{"person-age", "person-fullName", "person-password", "person-formAuthToken"}, names)

	age, ok := m.Field("age")
	require.True(t, ok)
	assert.Equal(t, form.FieldNumber, age.Type())

	pw, _ := m.Field("password")
	assert.Equal(t, form.FieldPassword, pw.Type())
	assert.True(t, pw.IsRequired())

	addr, ok := m.NestedMapping("address")
	require.True(t, ok)
	assert.Equal(t, "person-address", addr.Path())
	street, ok := addr.Field("street")
	require.True(t, ok)
	assert.Equal(t, "person-address-street", street.Name())
	assert.Equal(t, 20, addr.Config().MaxListIndex)

	phones, ok := m.NestedMapping("phones")
	require.True(t, ok)
	require.True(t, phones.IsList())

	item, _ := phones.Item()
	number, ok := item.Field("number")
	require.True(t, ok)
	assert.Equal(t, "person-phones-number", number.Name())
}

func TestBuild_Formatter(t *testing.T) {
	f, err := Parse([]byte("forms: [{path: p, type: Person, fields: [{name: fullName, formatter: upper, pattern: x}]}]"))
	require.NoError(t, err)

	mappings, err := Build(f, registry())
	require.NoError(t, err)

	name, ok := mappings["p"].Field("fullName")
	require.True(t, ok)
	assert.Equal(t, upper{}, name.Formatter())
	assert.Equal(t, "x", name.Pattern())
}

func TestBuild_Invalid(t *testing.T) {
	f, err := Parse([]byte("forms: [{path: p, type: Person, fields: [fullname]}]"))
	require.NoError(t, err)

	_, err = Build(f, registry())
	require.ErrorIs(t, err, form.ErrConfiguration)
	assert.Contains(t, err.Error(), "unknown_property")

	_, err = Build(f, nil)
	require.ErrorIs(t, err, form.ErrConfiguration)
}

func TestOutline(t *testing.T) {
	f, err := Parse([]byte(personYAML))
	require.NoError(t, err)

	def, _ := f.Find("person")

	var lines []string
	for _, e := range Outline(def) {
		lines = append(lines, string(e.Kind)+" "+e.Name+" "+e.LabelKey)
	}

	assert.Equal(t, []string{
		"form person person",
		"field person-fullName person-fullName",
		"field person-age person-age",
		"field person-password person-password",
		"nested person-address person-address",
		"list person-phones person-phones",
		"field person-phones[0]-number person-phones-number",
		"field person-phones[0]-kind person-phones-kind",
		"field person-formAuthToken person-formAuthToken",
	}, lines)
}

package definition_test

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/text/language"

	"formbind/definition"
	"formbind/params"
)

type signup struct {
	Email string
	Age   int
}

const signupYAML = `
forms:
  - path: signup
    type: Signup
    fields:
      - email
      - name: age
        type: number
`

func ExampleBuild() {
	f, err := definition.Parse([]byte(signupYAML))
	if err != nil {
		panic(err)
	}

	reg := definition.RegisterType[signup](definition.NewRegistry(), "Signup")

	mappings, err := definition.Build(f, reg)
	if err != nil {
		panic(err)
	}

	m := mappings["signup"]
	for _, fld := range m.Fields() {
		fmt.Println(fld.Name(), fld.Type())
	}

	fd, err := m.Bind(context.Background(), params.FromValues(url.Values{
		"signup-email": {"ann@example.com"},
		"signup-age":   {"x"},
	}), nil, language.English)
	if err != nil {
		panic(err)
	}

	s := fd.Value.(*signup)
	fmt.Println(s.Email, s.Age, fd.Result.HasErrors("signup-age"))
	// Output:
	// signup-email Text
	// signup-age Number
	// ann@example.com 0 true
}

func ExampleValidate() {
	f, err := definition.Parse([]byte(`forms: [{path: signup, type: Signup, fields: [emial]}]`))
	if err != nil {
		panic(err)
	}

	reg := definition.RegisterType[signup](definition.NewRegistry(), "Signup")

	for _, d := range definition.Validate(f, reg).Errors {
		fmt.Println(d)
	}
	// Output:
	// [signup] signup-emial: [unknown_property] definition_test.signup has no property "emial" (did you mean email?)
}

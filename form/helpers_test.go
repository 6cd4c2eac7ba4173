package form

import (
	"context"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"formbind/csrf"
	"formbind/options"
	"formbind/params"
)

type address struct {
	Street string
	City   string
}

type person struct {
	Name      string `form:"fullName" validate:"required"`
	Age       int    `validate:"gte=0,lte=150"`
	Tags      []string
	Address   address
	Addresses []address
}

var en = language.English

func testConfig(opts ...options.Option) *options.Config {
	base := []options.Option{
		options.WithTokenStore(csrf.NewMemoryStore()),
		options.WithLogger(slog.New(slog.DiscardHandler)),
	}

	return options.New(append(base, opts...)...)
}

func mustBuild(t *testing.T, b *Builder) *Mapping {
	t.Helper()

	m, err := b.Build()
	require.NoError(t, err)

	return m
}

// personMapping declares person with a nested address and an address list.
func personMapping(t *testing.T, cfg *options.Config) *Mapping {
	t.Helper()

	addr := mustBuild(t, For[address]("address").Field("street").Field("city"))
	rows := mustBuild(t, For[address]("addresses").Field("street"))

	return mustBuild(t, For[person]("person").
		Config(cfg).
		Field("fullName").
		Field("age").
		Field("tags").
		Nested(addr).
		List(rows))
}

func bindValues(t *testing.T, m *Mapping, values url.Values) FormData {
	t.Helper()

	fd, err := m.Bind(context.Background(), params.FromValues(values), nil, en)
	require.NoError(t, err)

	return fd
}

package options

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"formbind/csrf"
)

func TestNew_Defaults(t *testing.T) {
	c := New()

	assert.False(t, c.TrimInput)
	assert.Equal(t, DefaultMaxListIndex, c.MaxListIndex)
	assert.Equal(t, language.English, c.Locale)
	assert.NotNil(t, c.Formatters)
	assert.NotNil(t, c.ArgumentNames)
	assert.NotNil(t, c.Validator)
	assert.Equal(t, csrf.DefaultTTL, c.TokenTTL)
	assert.Same(t, slog.Default(), c.Logger)
	assert.Same(t, Default(), Default())
}

func TestNew_Options(t *testing.T) {
	store := csrf.NewMemoryStore()
	c := New(WithTrimInput(true), WithMaxListIndex(3), WithLocale(language.German), WithTokenStore(store), WithTokenTTL(time.Minute))

	assert.True(t, c.TrimInput)
	assert.Equal(t, language.German, c.Locale)
	assert.Same(t, store, c.Guard().Store)
	assert.Equal(t, time.Minute, c.Guard().TTL)

	assert.False(t, c.CapsIndex(3))
	assert.True(t, c.CapsIndex(4))
	assert.False(t, c.CapsIndex(-1))
	assert.False(t, New(WithMaxListIndex(-1)).CapsIndex(1<<30))
}

func TestParse(t *testing.T) {
	cf, err := Parse([]byte(`
trim_input: true
max_list_index: 20
locale: de-CH
token_ttl: 30m
argument_names: normalized
`))
	require.NoError(t, err)

	opts, err := cf.Options()
	require.NoError(t, err)

	c := New(opts...)
	assert.True(t, c.TrimInput)
	assert.Equal(t, 20, c.MaxListIndex)
	assert.Equal(t, language.MustParse("de-CH"), c.Locale)
	assert.Equal(t, 30*time.Minute, c.TokenTTL)

	name, ok := c.ArgumentNames(nil, "", 0, "")
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  string
	}{
		{"bad yaml", "trim_input: [", "failed to parse config YAML"},
		{"bad locale", "locale: '!!'", "invalid locale"},
		{"bad ttl", "token_ttl: soon", "invalid token_ttl"},
		{"bad resolver", "argument_names: guess", "unknown argument_names"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_list_index: 5\n"), 0o600))

	cf, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, cf.MaxListIndex)
	assert.Equal(t, 5, *cf.MaxListIndex)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

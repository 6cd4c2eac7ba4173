package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const valid = `
forms:
  - path: person
    secured: true
    fields:
      - fullName
      - name: age
        type: number
    lists:
      - path: phones
        fields: [number]
  - path: login
    fields: [user]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRun(t *testing.T) {
	path := writeFile(t, "forms.yaml", valid)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--form", "person", path}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stderr.String())
	assert.Equal(t, path+": ok (2 forms, 0 errors, 0 warnings)\n"+
		"person [form]\n"+
		"  person-fullName\n"+
		"  person-age [number]\n"+
		"  person-phones [list]\n"+
		"    person-phones[0]-number label=person-phones-number\n"+
		"  person-formAuthToken [hidden]\n", stdout.String())
}

func TestRun_Invalid(t *testing.T) {
	path := writeFile(t, "forms.yaml", "forms: [{path: p, fields: [formAuthToken, {name: age, type: numbr}]}]")

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "[reserved_field]")
	assert.Contains(t, stderr.String(), "did you mean Number?")
	assert.Contains(t, stdout.String(), "failed (1 forms, 2 errors, 0 warnings)")
	assert.NotContains(t, stdout.String(), "p-age")
}

func TestRun_Strict(t *testing.T) {
	path := writeFile(t, "forms.yaml", "forms: [{path: p}]")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-q", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "[empty_form]")
	assert.Empty(t, stdout.String())

	assert.Equal(t, 1, run([]string{"-q", "-W", path}, &stdout, &stderr))
}

func TestRun_Config(t *testing.T) {
	good := writeFile(t, "good.yaml", "max_list_index: 10\n")
	bad := writeFile(t, "bad.yaml", "token_ttl: soon\n")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--config", good}, &stdout, &stderr))
	assert.Equal(t, good+": ok\n", stdout.String())

	assert.Equal(t, 1, run([]string{"--config", bad}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid token_ttl")
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "no definition files given")

	assert.Equal(t, 2, run([]string{"--bogus"}, &stdout, &stderr))

	stdout.Reset()
	assert.Equal(t, 0, run([]string{"--version"}, &stdout, &stderr))
	assert.Equal(t, "dev\n", stdout.String())

	assert.Equal(t, 1, run([]string{filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr))
}

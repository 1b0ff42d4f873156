package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mensura/catalog"
	"github.com/katalvlaran/mensura/converter"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestConvertCommand(t *testing.T) {
	out, err := run(t, "convert", "1", "Mile", "KILOMETER")
	require.NoError(t, err)
	assert.Equal(t, "1.609344\n", out)
}

func TestConvertCommand_Errors(t *testing.T) {
	_, err := run(t, "convert", "abc", "meter", "mile")
	assert.ErrorContains(t, err, "invalid value")

	_, err = run(t, "convert", "1", "meter", "parsec")
	assert.ErrorIs(t, err, converter.ErrUnitNotFound)

	_, err = run(t, "convert", "1", "meter", "gram")
	assert.ErrorIs(t, err, converter.ErrConversionFailed)

	_, err = run(t, "convert", "1", "meter")
	assert.Error(t, err)
}

func TestPathCommand(t *testing.T) {
	out, err := run(t, "path", "yard", "inch")
	require.NoError(t, err)
	assert.Equal(t, "yard -> foot -> inch\n1 yard = 36 inch\n", out)
}

func TestUnitsCommand_WithCatalogOnly(t *testing.T) {
	path := writeFile(t, "units.yaml", "version: 1\nrules:\n  - {src: Furlong, dest: chain, factor: 10}\n")

	out, err := run(t, "--no-builtin", "--catalog", path, "units")
	require.NoError(t, err)
	assert.Equal(t, "chain\nfurlong\n", out)
}

func TestCatalogCommand_MergesOverBuiltins(t *testing.T) {
	path := writeFile(t, "units.yaml", "version: 1\nrules:\n  - {src: furlong, dest: meter, factor: 201.168}\n")

	out, err := run(t, "--catalog", path, "catalog")
	require.NoError(t, err)

	rules, err := catalog.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, rules, len(catalog.Default())+1)
	assert.Equal(t, "furlong", rules[len(rules)-1].Src)

	out, err = run(t, "--catalog", path, "convert", "1", "furlong", "kilometer")
	require.NoError(t, err)
	assert.Equal(t, "0.201168\n", out)
}

func TestStrictFlag_RejectsRedefinition(t *testing.T) {
	path := writeFile(t, "units.yaml", "version: 1\nrules:\n  - {src: foot, dest: inch, factor: 11}\n")

	_, err := run(t, "--catalog", path, "units")
	require.NoError(t, err)

	_, err = run(t, "--strict", "--catalog", path, "units")
	assert.ErrorIs(t, err, converter.ErrDuplicateRule)
}

func TestConfigFile(t *testing.T) {
	cat := writeFile(t, "units.yaml", "version: 1\nrules:\n  - {src: a, dest: b, factor: 4}\n")
	cfg := writeFile(t, "mensura.yaml", "catalog: "+cat+"\nbuiltin: false\nlog_level: debug\n")

	out, err := run(t, "--config", cfg, "convert", "2", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)

	_, err = run(t, "--config", cfg, "convert", "1", "meter", "foot")
	assert.ErrorIs(t, err, converter.ErrUnitNotFound)
}

func TestConfigFile_Invalid(t *testing.T) {
	cfg := writeFile(t, "mensura.yaml", "log_level: loud\n")
	_, err := run(t, "--config", cfg, "units")
	assert.ErrorContains(t, err, "invalid config")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "units")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNoRules(t *testing.T) {
	_, err := run(t, "--no-builtin", "units")
	assert.ErrorContains(t, err, "no rules")
}

func TestServe_WatchNeedsCatalog(t *testing.T) {
	_, err := run(t, "serve", "--watch", "--addr", "127.0.0.1:0")
	assert.ErrorContains(t, err, "--watch needs a catalog file")
}

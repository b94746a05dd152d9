package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/iliyamo/skyblock-shop/internal/catalog"
)

func runCatalog(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := catalogCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogCmd_Builtin(t *testing.T) {
	out, err := runCatalog(t)
	require.NoError(t, err)

	assert.Equal(t, "USD", gjson.Get(out, "currency").String())
	assert.Equal(t, int64(4), gjson.Get(out, "coins.#").Int())
	assert.Equal(t, int64(3), gjson.Get(out, "accounts.#").Int())
	assert.Equal(t, "c2", gjson.Get(out, "coins.#(best_value==true).id").String())
}

func TestCatalogCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("coins:\n  - id: only\n    price_usd: 1\n"), 0o644))

	out, err := runCatalog(t, "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "only", gjson.Get(out, "coins.0.id").String())
	assert.Equal(t, "[]", gjson.Get(out, "accounts").Raw)
}

func TestCatalogCmd_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("coins:\n  - id: x\n    price_usd: -1\n"), 0o644))

	_, err := runCatalog(t, "--file", path)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestLoadCatalog_Source(t *testing.T) {
	_, source, err := loadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, "builtin", source)
}

package openapi_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gobd/apispec/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWrite_JSON(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	doc.Info.Description = `Prices in <b>EUR</b> & cents, spelled \u0026 in JSON`
	path := filepath.Join(t.TempDir(), "nested", "dir", "openapi.json")

	require.NoError(t, openapi.Write(doc, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "{\n    \""), "four-space indent")
	assert.Contains(t, string(raw), `"/api/products/{product}"`)
	assert.Contains(t, string(raw), `Prices in <b>EUR</b> & cents, spelled \\u0026 in JSON`)

	var back map[string]any
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "3.0.0", back["openapi"])
	assert.Equal(t, `Prices in <b>EUR</b> & cents, spelled \u0026 in JSON`, back["info"].(map[string]any)["description"])
}

func TestWrite_YAML(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	doc.Info.Version = "1.0"
	path := filepath.Join(t.TempDir(), "openapi.yml")

	require.NoError(t, openapi.Write(doc, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "openapi: 3.0.0\n")
	assert.NotContains(t, string(raw), "{\"")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &back))
	assert.Equal(t, "1.0", back["info"].(map[string]any)["version"], "strings that look like numbers stay strings")
	assert.Contains(t, back["paths"], "/api/products")
}

func TestWrite_Failure(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	path := filepath.Join(blocker, "openapi.json")

	err := openapi.Write(doc, path)
	require.ErrorIs(t, err, openapi.ErrWrite)
	assert.Contains(t, err.Error(), path)

	b, err := os.ReadFile(blocker)
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}

func TestWrite_ReplacesWhole(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	path := filepath.Join(t.TempDir(), "openapi.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale ", 10000)), 0o600))

	require.NoError(t, openapi.Write(doc, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "stale")
	assert.True(t, json.Valid(raw))
}

func TestIsYAML(t *testing.T) {
	assert.True(t, openapi.IsYAML("docs/api.yaml"))
	assert.True(t, openapi.IsYAML("docs/API.YML"))
	assert.False(t, openapi.IsYAML("docs/api.json"))
	assert.False(t, openapi.IsYAML("docs/yaml"))
}

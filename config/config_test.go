package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/foliage-labs/wisp/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFillsExpectedValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, ".", cfg.TemplateDir)
	assert.Equal(t, "html", cfg.Escape)
	assert.Equal(t, ".mustache", cfg.Ext)
	assert.Empty(t, cfg.PartialDir)
	assert.Empty(t, cfg.Watch)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadParsesTOMLAndFillsUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".wisp.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
template_dir = "templates"
escape = "none"
watch = ["data/*.yaml"]
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "templates", cfg.TemplateDir)
	assert.Equal(t, "none", cfg.Escape)
	assert.Equal(t, ".mustache", cfg.Ext)
	assert.Equal(t, "templates", cfg.PartialDir, "empty partial_dir falls back to template_dir")
	assert.Equal(t, []string{"data/*.yaml"}, cfg.Watch)
}

func TestLoadHonorsExplicitPartialDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".wisp.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
template_dir = "templates"
partial_dir = "partials"
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "partials", cfg.PartialDir)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".wisp.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not = valid [[ toml"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

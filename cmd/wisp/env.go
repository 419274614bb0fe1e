package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/foliage-labs/wisp"
	"github.com/foliage-labs/wisp/config"
	"github.com/foliage-labs/wisp/escape"
	"github.com/foliage-labs/wisp/value"
	"gopkg.in/yaml.v3"
)

// buildEnvironment wires a wisp.Environment whose loader reads
// <dir>/<name><ext> for both the named template and any partial it
// references, per cfg's template_dir/partial_dir/ext settings.
func buildEnvironment(cfg *config.Config) *wisp.Environment {
	env := wisp.New()
	if cfg.Escape == "none" {
		env.Escaper = escape.None
	}
	env.SetLoader(func(name string) (string, error) {
		for _, dir := range []string{cfg.TemplateDir, cfg.PartialDir} {
			path := filepath.Join(dir, name+cfg.Ext)
			if b, err := os.ReadFile(path); err == nil {
				return string(b), nil
			}
		}
		return "", fmt.Errorf("template %q not found under %q or %q", name, cfg.TemplateDir, cfg.PartialDir)
	})
	return env
}

// loadData reads a YAML (or JSON, a subset of YAML) file into a
// value.Value rooted at its top-level mapping.
func loadData(path string) (value.Value, error) {
	if path == "" {
		return value.FromMap(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return value.Value{}, fmt.Errorf("parsing data file %s: %w", path, err)
	}
	return value.FromAny(data), nil
}

// Package config loads the project-level settings for the wisp CLI: which
// directories hold templates and partials, the default escaper, and
// watch-mode behavior.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the parsed contents of a .wisp.toml project file.
type Config struct {
	// TemplateDir is where named templates are looked up. A relative path
	// is kept as written, so it resolves against the working directory.
	// Defaults to "." if unset.
	TemplateDir string `toml:"template_dir"`
	// PartialDir is where {{>name}}/{{<name}} partials are looked up. If
	// empty, TemplateDir is also used for partials.
	PartialDir string `toml:"partial_dir"`
	// Escape selects the built-in escaper for {{x}} interpolation: "html"
	// (default) or "none".
	Escape string `toml:"escape"`
	// Ext is the file extension templates and partials are loaded with,
	// including the leading dot. Defaults to ".mustache".
	Ext string `toml:"ext"`
	// Watch lists additional globs (beyond the template/partial dirs) the
	// CLI's watch subcommand should also track.
	Watch []string `toml:"watch"`
}

// Default returns the configuration used when no .wisp.toml is found.
func Default() *Config {
	return &Config{
		TemplateDir: ".",
		Escape:      "html",
		Ext:         ".mustache",
	}
}

// Load reads and parses the TOML config file at path, filling in defaults
// for any field the file leaves unset.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.Ext == "" {
		cfg.Ext = ".mustache"
	}
	if cfg.PartialDir == "" {
		cfg.PartialDir = cfg.TemplateDir
	}
	return cfg, nil
}

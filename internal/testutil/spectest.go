// Package testutil provides test-only helpers shared across wisp's
// packages: a loader for Mustache-spec-style YAML test fixtures and a
// small diff helper for failure output.
package testutil

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Case is one test case from a spec file: a template rendered against
// data, with partials available by name, expected to produce Expected.
type Case struct {
	Name     string         `yaml:"name"`
	Desc     string         `yaml:"desc"`
	Data     map[string]any `yaml:"data"`
	Template string         `yaml:"template"`
	Expected string         `yaml:"expected"`
	Partials map[string]string `yaml:"partials"`
}

// Suite is one YAML spec file: a named group of overview text plus cases,
// the same top-level shape the reference Mustache spec test suite uses.
type Suite struct {
	Overview string `yaml:"overview"`
	Tests    []Case `yaml:"tests"`
}

// LoadSuite reads and parses a YAML spec file at path.
func LoadSuite(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Suite
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("testutil: parsing %s: %w", path, err)
	}
	return &s, nil
}

// Diff renders a compact expected-vs-actual block for a failing case,
// marking a missing trailing newline explicitly since Mustache spec
// fixtures are newline-sensitive.
func Diff(expected, actual string) string {
	if expected == actual {
		return ""
	}
	var b strings.Builder
	b.WriteString("--- expected ---\n")
	b.WriteString(expected)
	if !strings.HasSuffix(expected, "\n") {
		b.WriteString("⏎\n")
	}
	b.WriteString("--- actual ---\n")
	b.WriteString(actual)
	if !strings.HasSuffix(actual, "\n") {
		b.WriteString("⏎\n")
	}
	return b.String()
}

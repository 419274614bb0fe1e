package wisp

import (
	"fmt"
	"io"
	"sync"

	"github.com/foliage-labs/wisp/ast"
	"github.com/foliage-labs/wisp/escape"
	"github.com/foliage-labs/wisp/parser"
	"github.com/foliage-labs/wisp/value"
)

// LoaderFunc fetches a template's source by name when it isn't already
// registered, letting an Environment back onto a filesystem, an embed.FS,
// or a remote store without the rendering core knowing the difference.
type LoaderFunc func(name string) (string, error)

// Environment is a named template registry plus the defaults (escaper,
// unresolved-variable policy) every Render through it should share. The
// zero value is not usable; construct with New.
type Environment struct {
	mu        sync.RWMutex
	templates map[string]*ast.Template

	loader LoaderFunc

	// Escaper is applied to every escaped ({{x}}) variable. Defaults to
	// escape.HTML.
	Escaper escape.Escaper
	// Undefined, if set, supplies a value for variable keys that resolve
	// to nothing. A nil Undefined renders such misses as nothing,
	// matching the reference Mustache implementations.
	Undefined UnresolvedVariable
}

// New returns an empty Environment with no registered templates and the
// default HTML escaper.
func New() *Environment {
	return &Environment{
		templates: make(map[string]*ast.Template),
		Escaper:   escape.HTML,
	}
}

// SetLoader installs fn as the fallback used by GetTemplate when a name
// isn't already registered via AddTemplate.
func (e *Environment) SetLoader(fn LoaderFunc) { e.loader = fn }

// AddTemplate parses src under name and registers it, replacing any
// earlier template of the same name.
func (e *Environment) AddTemplate(name, src string) error {
	tmpl, err := parser.Parse(src, name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.templates[name] = tmpl
	e.mu.Unlock()
	return nil
}

// GetTemplate returns the named template, consulting the loader (and
// caching the result) on a registry miss.
func (e *Environment) GetTemplate(name string) (*ast.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}
	if e.loader == nil {
		return nil, fmt.Errorf("wisp: template %q is not registered and no loader is set", name)
	}
	src, err := e.loader(name)
	if err != nil {
		return nil, fmt.Errorf("wisp: loading template %q: %w", name, err)
	}
	if err := e.AddTemplate(name, src); err != nil {
		return nil, err
	}
	e.mu.RLock()
	tmpl = e.templates[name]
	e.mu.RUnlock()
	return tmpl, nil
}

// RemoveTemplate drops name from the registry; it has no effect on
// templates already mid-render.
func (e *Environment) RemoveTemplate(name string) {
	e.mu.Lock()
	delete(e.templates, name)
	e.mu.Unlock()
}

func (e *Environment) partialLookup() PartialLookup {
	return func(name string) (*ast.Template, bool) {
		tmpl, err := e.GetTemplate(name)
		if err != nil {
			return nil, false
		}
		return tmpl, true
	}
}

// Render looks up name and renders it against data, writing escaped
// variable output through e.Escaper (HTML by default) and everything else
// straight to w.
func (e *Environment) Render(w io.Writer, name string, data value.Value) error {
	tmpl, err := e.GetTemplate(name)
	if err != nil {
		return err
	}
	return e.RenderTemplate(w, tmpl, data)
}

// RenderTemplate renders an already-parsed template — the entry point for
// callers who built tmpl themselves (e.g. parser.Parse'd it directly)
// rather than registering it by name. A panicking lazy value/format
// callback is recovered here and turned into a *RenderError: the core
// itself never recovers its own panics.
func (e *Environment) RenderTemplate(w io.Writer, tmpl *ast.Template, data value.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			err = &RenderError{Template: tmpl.Name, Cause: cause}
		}
	}()
	esc := e.Escaper
	if esc == nil {
		esc = escape.HTML
	}
	escOut := escape.NewWriter(w, esc)
	if rerr := Render(w, escOut, tmpl, data, e.partialLookup(), e.Undefined); rerr != nil {
		return &RenderError{Template: tmpl.Name, Cause: rerr}
	}
	return nil
}

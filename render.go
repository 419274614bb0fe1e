package wisp

import (
	"io"

	"github.com/foliage-labs/wisp/ast"
	"github.com/foliage-labs/wisp/value"
)

// PartialLookup and UnresolvedVariable are declared in visitor.go, next to
// the visitor fields that hold them.

// Render walks tmpl against data, writing escaped variable output to
// escOut and everything else — literal text, raw ({{{x}}}/{{&x}}) variable
// output, and partial expansions — to rawOut. Callers that don't need the
// two streams kept separate, the common case, pass the same io.Writer (or
// an escape.Writer wrapping it) for both; see Environment.Render for the
// usual construction.
//
// partials resolves {{>name}}/{{<name}} references and may be nil if tmpl
// uses none. unresolved is consulted only for variable misses, never for
// section-key misses; nil means every miss renders nothing.
func Render(rawOut, escOut io.Writer, tmpl *ast.Template, data value.Value, partials PartialLookup, unresolved UnresolvedVariable) error {
	view, ok := tmpl.View().(ast.View)
	if !ok {
		return nil
	}

	root, ok := data.AsObject()
	if !ok {
		root = value.DefaultObject()
	}
	if partials == nil {
		partials = func(string) (*ast.Template, bool) { return nil, false }
	}

	v := &visitor{
		ctx:        view.Ctx,
		scope:      &scope{data: root},
		cursor:     data,
		rawOut:     rawOut,
		escOut:     escOut,
		partials:   partials,
		unresolved: unresolved,
	}
	v.expand(view.Contents)
	return v.err
}

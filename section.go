package wisp

import (
	"github.com/foliage-labs/wisp/ast"
	"github.com/foliage-labs/wisp/value"
)

// handleSection is the section interpreter's dispatch table. An inverted
// section is unconditionally falsy over a lazy value or lazy format: the
// thunk is never invoked and the body never renders. Every other tag
// re-enters a lazy value against this section's own view until it yields
// a strict value (null, atom, object, or list), and only then does the
// tag decide how that strict value is read.
func (v *visitor) handleSection(tag ast.BlockTag, contents ast.ContentList, val value.Value) {
	if v.err != nil {
		return
	}
	switch val.Kind() {
	case value.KindLazyValue:
		if tag == ast.Inversion {
			// An inverted section over a lazy value is unconditionally
			// falsy: the thunk is never invoked and the body never renders.
			return
		}
		lv, _ := val.AsLazyValue()
		lv.CallValue(ast.View{Ctx: v.ctx, Contents: contents}, func(next value.Value) {
			v.handleSection(tag, contents, next)
		})
		return
	case value.KindLazyFormat:
		if tag == ast.Inversion {
			return
		}
		lf, _ := val.AsLazyFormat()
		v.handleLazyFormat(tag, contents, lf)
		return
	}
	switch tag {
	case ast.Inversion:
		if !truthy(val) {
			v.expandOnValue(contents, val)
		}
	case ast.Filter:
		if truthy(val) {
			v.expandOnValue(contents, val)
		}
	case ast.Loop:
		if l, ok := val.AsList(); ok {
			v.expandList(contents, l)
			return
		}
		if truthy(val) {
			v.expandOnValue(contents, val)
		}
	default: // ast.Section
		v.expandSection(contents, val)
	}
}

// expandSection is the "as-is" dispatch for a plain {{#key}}: the resolved
// value's own kind decides what happens, with no tag-driven coercion.
func (v *visitor) expandSection(contents ast.ContentList, val value.Value) {
	switch val.Kind() {
	case value.KindNull:
		// falsy; nothing to render
	case value.KindAtom:
		a, _ := val.AsAtom()
		if a.Test() {
			v.expandOnValue(contents, val)
		}
	case value.KindObject:
		v.expandOnValue(contents, val)
	case value.KindList:
		if l, ok := val.AsList(); ok {
			v.expandList(contents, l)
			return
		}
		// list kind without an Iterate capability: treated as one
		// opaque value: a list kind without an Iterate capability.
		v.expandOnValue(contents, val)
	}
}

// expandList renders contents once per element (cursor bound to the
// element, plus a fresh scope frame when the element is itself an
// object). An empty list renders zero times.
func (v *visitor) expandList(contents ast.ContentList, l value.List) {
	l.Iterate(func(elem value.Value) {
		if v.err != nil {
			return
		}
		v.expandOnValue(contents, elem)
	})
}

// handleLazyFormat handles a section value that yields a Format, for a
// tag other than Inversion (the caller already filtered that out: an
// inverted lazy format is unconditionally falsy and never invokes the
// thunk). Filter never invokes the thunk either: the section's own
// contents are re-rendered verbatim in the current environment, the same
// as printValue's variable-position case. Every other tag re-enters the
// thunk with this section's own view and renders whatever format it
// hands back.
func (v *visitor) handleLazyFormat(tag ast.BlockTag, contents ast.ContentList, lf value.LazyFormat) {
	if tag == ast.Filter {
		v.expand(contents)
		return
	}
	fmtVal := lf.CallFormat(ast.View{Ctx: v.ctx, Contents: contents})
	v.renderFormat(fmtVal)
}

// truthy generalizes Atom.Test across every strict kind, for the tags
// (inversion, filter, and loop's non-list fallback) that need a yes/no
// reading of a value whose kind they don't otherwise dispatch on. Objects
// are always truthy, matching the reference Mustache implementations.
func truthy(val value.Value) bool {
	switch val.Kind() {
	case value.KindAtom:
		a, _ := val.AsAtom()
		return a.Test()
	case value.KindObject:
		return true
	case value.KindList:
		l, ok := val.AsList()
		if !ok {
			return true
		}
		nonEmpty := false
		l.Iterate(func(value.Value) { nonEmpty = true })
		return nonEmpty
	default:
		return false
	}
}

package wisp

import (
	"io"

	"github.com/foliage-labs/wisp/ast"
	"github.com/foliage-labs/wisp/value"
)

// PartialLookup resolves a partial's key to a parsed template, or reports
// it missing via ok=false — a missing partial is silently skipped, not an
// error.
type PartialLookup func(key string) (*ast.Template, bool)

// UnresolvedVariable is invoked only for unresolved *variable* references
// (never for section keys) and may return value.Null().
type UnresolvedVariable func(key string) value.Value

// visitor is the content visitor: the one piece of mutable state a render
// walks the AST with. A visitor is built fresh for every Render call and is
// not reentrant with respect to itself — concurrent renders of the same
// template must each get their own.
type visitor struct {
	ctx    *ast.Context
	scope  *scope
	cursor value.Value
	chain  []ast.OverrideMap

	indent      []byte
	needsIndent bool

	rawOut io.Writer
	escOut io.Writer

	partials   PartialLookup
	unresolved UnresolvedVariable

	err error
}

// writeRaw writes p to the raw sink, short-circuiting once a prior write
// has failed — a sink refusing output is how a caller cancels a render.
func (v *visitor) writeRaw(p []byte) {
	if v.err != nil || len(p) == 0 {
		return
	}
	_, v.err = v.rawOut.Write(p)
}

func (v *visitor) writeRawString(s string) {
	if v.err != nil || s == "" {
		return
	}
	_, v.err = io.WriteString(v.rawOut, s)
}

// printValue prints val in variable position: lazy values recurse until
// they yield a strict value and that value's Print is invoked; lazy
// formats render their yielded template inline, in the current
// environment, so indent state carries through exactly as if its contents
// were spliced in place.
func (v *visitor) printValue(w io.Writer, val value.Value) {
	if v.err != nil {
		return
	}
	switch val.Kind() {
	case value.KindLazyValue:
		lv, _ := val.AsLazyValue()
		lv.CallValue(nil, func(next value.Value) { v.printValue(w, next) })
	case value.KindLazyFormat:
		lf, _ := val.AsLazyFormat()
		v.renderFormat(lf.CallFormat(nil))
	case value.KindNull:
		// nothing to print
	default:
		a, ok := val.AsAtom()
		if !ok {
			return
		}
		if err := a.Print(w); err != nil && v.err == nil {
			v.err = err
		}
	}
}

// renderFormat walks a value.Format's view using this same visitor, the
// mechanism both printValue and the lazy_format section case share.
func (v *visitor) renderFormat(fmtVal value.Format) {
	if fmtVal == nil {
		return
	}
	view, ok := fmtVal.View().(ast.View)
	if !ok {
		return
	}
	oldCtx := v.ctx
	v.ctx = view.Ctx
	for _, c := range view.Contents {
		if v.err != nil {
			break
		}
		view.Ctx.Visit(v, c)
	}
	v.ctx = oldCtx
}

// expand walks a content list with the current ctx.
func (v *visitor) expand(contents ast.ContentList) {
	for _, c := range contents {
		if v.err != nil {
			return
		}
		v.ctx.Visit(v, c)
	}
}

// expandOnObject pushes data as a new innermost scope frame, renders
// contents, and restores the prior scope — push and restore are always
// paired, so a scope frame never outlives the body that pushed it.
func (v *visitor) expandOnObject(contents ast.ContentList, data value.Object) {
	old := v.scope
	v.scope = &scope{parent: old, data: data}
	v.expand(contents)
	v.scope = old
}

// expandOnValue renders contents with val bound as the cursor: val always
// becomes the new cursor (so a bare "." inside the body resolves to it),
// and a scope frame is pushed only when val is itself an object.
func (v *visitor) expandOnValue(contents ast.ContentList, val value.Value) {
	oldCursor := v.cursor
	v.cursor = val
	if obj, ok := val.AsObject(); ok {
		v.expandOnObject(contents, obj)
	} else {
		v.expand(contents)
	}
	v.cursor = oldCursor
}

// --- ast.Visitor -----------------------------------------------------------

func (v *visitor) VisitText(t *ast.Text) { v.emitText(t.Bytes) }

func (v *visitor) VisitVariable(n *ast.Variable) {
	v.resolveAndHandle(n.Key, func(string) value.Value { return v.unresolvedValue(n.Key) }, func(val value.Value) {
		v.handleVariable(n, val)
	})
}

func (v *visitor) unresolvedValue(key string) value.Value {
	if v.unresolved == nil {
		return value.Null()
	}
	return v.unresolved(key)
}

func (v *visitor) handleVariable(n *ast.Variable, val value.Value) {
	if v.needsIndent {
		v.writeRaw(v.indent)
		v.needsIndent = false
	}
	out := v.escOut
	if n.Tag == ast.Raw {
		out = v.rawOut
	}
	v.printValue(out, val)
}

func (v *visitor) VisitBlock(b *ast.Block) {
	if b.Tag == ast.Inheritance {
		contents := v.findOverride(b.Key)
		if contents == nil {
			contents = b.Contents
		}
		v.expand(contents)
		return
	}
	v.resolveAndHandle(b.Key, nil, func(val value.Value) {
		v.handleSection(b.Tag, b.Contents, val)
	})
}

// findOverride scans the override chain top-down, innermost partial
// first, so the closest enclosing override wins.
func (v *visitor) findOverride(key string) ast.ContentList {
	for i := len(v.chain) - 1; i >= 0; i-- {
		if c, ok := v.chain[i][key]; ok {
			return c
		}
	}
	return nil
}

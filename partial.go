package wisp

import "github.com/foliage-labs/wisp/ast"

// VisitPartial expands a {{>name}}/{{<name}} reference: an unresolved
// partial is silently skipped, an empty partial is a no-op, and otherwise
// its contents are rendered in the partial's own AST context with the
// outer scope chain, cursor and override chain still in force — a partial
// does not start a fresh render, it splices one in.
func (v *visitor) VisitPartial(p *ast.Partial) {
	if v.err != nil {
		return
	}
	tmpl, ok := v.partials(p.Key)
	if !ok || tmpl == nil {
		return
	}
	view, ok := tmpl.View().(ast.View)
	if !ok || len(view.Contents) == 0 {
		return
	}

	oldIndent := v.indent
	if p.IndentPrefix != "" {
		combined := make([]byte, 0, len(oldIndent)+len(p.IndentPrefix))
		combined = append(combined, oldIndent...)
		combined = append(combined, p.IndentPrefix...)
		v.indent = combined
		v.needsIndent = true
	}

	pushed := len(p.Overriders) > 0
	if pushed {
		v.chain = append(v.chain, p.Overriders)
	}

	oldCtx := v.ctx
	v.ctx = view.Ctx
	v.expand(view.Contents)
	v.ctx = oldCtx

	if pushed {
		v.chain = v.chain[:len(v.chain)-1]
	}
	v.indent = oldIndent
}

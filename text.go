package wisp

import "bytes"

// emitText is indent-aware text emission. An active indent prefix is
// written once per line, immediately before that line's first byte;
// needsIndent carries the obligation forward across node boundaries (a
// Text node ending mid-line leaves it for whichever node emits next —
// another Text, a Variable, or a Partial's first line).
//
// emitText sets needsIndent true only when indent is non-empty; the one
// other place that sets it is VisitPartial, on entering a partial with a
// non-empty indent prefix. Entering a partial never clears an obligation
// the caller's own text already owes.
func (v *visitor) emitText(b []byte) {
	for len(b) > 0 {
		if v.err != nil {
			return
		}
		if v.needsIndent {
			v.writeRaw(v.indent)
			v.needsIndent = false
		}
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			v.writeRaw(b)
			return
		}
		v.writeRaw(b[:i+1])
		b = b[i+1:]
		if len(v.indent) > 0 {
			v.needsIndent = true
		}
	}
}

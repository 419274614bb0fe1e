package parser

import (
	"strings"

	"github.com/foliage-labs/wisp/ast"
)

// Parse lexes src and builds the ast.Template the rendering core walks,
// applying Mustache's standalone-tag whitespace rule along the way. name
// is recorded on the returned template and used to prefix any *ParseError.
func Parse(src, name string) (*ast.Template, error) {
	items, err := Lex(src)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.WithName(name).WithSource(src)
		}
		return nil, err
	}
	trimStandalone(items, src)

	contents, err := build(items, src, name)
	if err != nil {
		return nil, err
	}
	return ast.NewTemplate(name, ast.NewContext(), contents), nil
}

// isVariableTag reports whether sig is one of the two interpolation
// forms, which are never eligible for standalone trimming.
func isVariableTag(sig sigil) bool {
	return sig == sigilVar || sig == sigilRawAmp || sig == sigilRawBrace
}

// trimStandalone finds every non-variable tag that is the only
// non-whitespace content on its source line and removes that line's
// surrounding whitespace and trailing newline from the neighboring text
// items, recording a partial's leading indentation before it disappears.
func trimStandalone(items []item, src string) {
	for i := range items {
		it := &items[i]
		if it.kind != itemTag || isVariableTag(it.sig) {
			continue
		}

		before := ""
		beforeIdx := -1
		if i > 0 && items[i-1].kind == itemText {
			before = items[i-1].text
			beforeIdx = i - 1
		}
		after := ""
		afterIdx := -1
		if i+1 < len(items) && items[i+1].kind == itemText {
			after = items[i+1].text
			afterIdx = i + 1
		}

		// A tag sharing its line with another tag (no text item between
		// them at all) never qualifies: the line doesn't consist of only
		// this tag and whitespace, even though the literal gap between
		// the two tags' delimiters is empty.
		if beforeIdx < 0 && i > 0 {
			continue
		}
		if afterIdx < 0 && i+1 < len(items) {
			continue
		}
		// Likewise when only newline-free text separates this tag from a
		// neighboring tag. The original source span is checked, since
		// trimming an earlier tag may already have shortened the text item.
		if beforeIdx > 0 && !strings.Contains(src[items[beforeIdx].start:items[beforeIdx].end], "\n") {
			continue
		}
		if afterIdx >= 0 && afterIdx+1 < len(items) && !strings.Contains(src[items[afterIdx].start:items[afterIdx].end], "\n") {
			continue
		}

		linePrefix, prefixIsWS := trailingLineWhitespace(before)
		lineSuffix, suffixIsWS := leadingLineWhitespace(after)
		if !prefixIsWS || !suffixIsWS {
			continue
		}

		if it.sig == sigilPartial || it.sig == sigilBlockPart {
			it.indent = linePrefix
		}
		if beforeIdx >= 0 {
			items[beforeIdx].text = before[:len(before)-len(linePrefix)]
		}
		if afterIdx >= 0 {
			items[afterIdx].text = after[len(lineSuffix):]
		}
	}
}

// trailingLineWhitespace returns the whitespace run at the end of s back
// to (but not including) the previous newline, and whether that whole run
// — i.e. everything since the previous newline — is whitespace.
func trailingLineWhitespace(s string) (ws string, ok bool) {
	nl := strings.LastIndexByte(s, '\n')
	tail := s[nl+1:]
	if strings.TrimSpace(tail) != "" {
		return "", false
	}
	return tail, true
}

// leadingLineWhitespace returns the whitespace-plus-newline run at the
// start of s, and whether the text up to and including the next newline
// (or EOF if s has none) is whitespace-only.
func leadingLineWhitespace(s string) (ws string, ok bool) {
	nl := strings.IndexByte(s, '\n')
	var head string
	if nl < 0 {
		head = s
	} else {
		head = s[:nl+1]
	}
	if strings.TrimSpace(head) != "" {
		return "", false
	}
	return head, true
}

// frame is one entry of the block stack the builder maintains while
// walking items left to right.
type frame struct {
	key      string
	tag      ast.BlockTag
	isPart   bool // true for a {{<name}}...{{/name}} block-partial
	indent   string
	start    int // byte offset of the opening tag, for unclosed-block errors
	contents ast.ContentList
}

func build(items []item, src, name string) (ast.ContentList, error) {
	var root ast.ContentList
	var stack []*frame

	emit := func(n ast.Content) {
		if len(stack) == 0 {
			root = append(root, n)
			return
		}
		top := stack[len(stack)-1]
		top.contents = append(top.contents, n)
	}

	for _, it := range items {
		if it.kind == itemText {
			if it.text == "" {
				continue
			}
			emit(&ast.Text{Bytes: []byte(it.text)})
			continue
		}

		switch it.sig {
		case sigilVar, sigilRawAmp, sigilRawBrace:
			if it.key == "" {
				return nil, werr(errKindEmptyTag, src, name, it.start, "")
			}
			tag := ast.Escape
			if it.sig != sigilVar {
				tag = ast.Raw
			}
			emit(&ast.Variable{Key: it.key, Tag: tag})

		case sigilComment:
			// discarded

		case sigilDelim:
			// already applied during Lex; no AST node

		case sigilPartial:
			if it.key == "" {
				return nil, werr(errKindEmptyTag, src, name, it.start, "")
			}
			emit(&ast.Partial{Key: it.key, IndentPrefix: it.indent})

		case sigilSection, sigilInversion, sigilInheritance, sigilBlockPart:
			if it.key == "" {
				return nil, werr(errKindEmptyTag, src, name, it.start, "")
			}
			f := &frame{key: it.key, start: it.start, indent: it.indent, isPart: it.sig == sigilBlockPart}
			switch it.sig {
			case sigilSection:
				f.tag = ast.Section
			case sigilInversion:
				f.tag = ast.Inversion
			case sigilInheritance:
				f.tag = ast.Inheritance
			}
			stack = append(stack, f)

		case sigilClose:
			if len(stack) == 0 {
				return nil, werr(errKindDanglingClose, src, name, it.start, it.key)
			}
			top := stack[len(stack)-1]
			if it.key != "" && it.key != top.key {
				return nil, werr(errKindMismatchedBlock, src, name, it.start, top.key+" / "+it.key)
			}
			stack = stack[:len(stack)-1]

			var node ast.Content
			if top.isPart {
				overriders, err := collectOverriders(top.contents)
				if err != nil {
					return nil, werr(errKindBadPartialContents, src, name, top.start, top.key)
				}
				node = &ast.Partial{Key: top.key, IndentPrefix: top.indent, Overriders: overriders}
			} else {
				node = &ast.Block{Key: top.key, Tag: top.tag, Contents: top.contents}
			}
			if len(stack) == 0 {
				root = append(root, node)
			} else {
				parent := stack[len(stack)-1]
				parent.contents = append(parent.contents, node)
			}
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, werr(errKindUnclosedBlock, src, name, top.start, top.key)
	}
	return root, nil
}

// collectOverriders validates that a block-partial's body is nothing but
// whitespace-only text and {{$key}} inheritance blocks, and turns the
// latter into the ast.OverrideMap the rendering core's partial expansion
// consults.
func collectOverriders(contents ast.ContentList) (ast.OverrideMap, error) {
	overriders := make(ast.OverrideMap)
	for _, c := range contents {
		switch n := c.(type) {
		case *ast.Text:
			if strings.TrimSpace(string(n.Bytes)) != "" {
				return nil, errBadPartial
			}
		case *ast.Block:
			if n.Tag != ast.Inheritance {
				return nil, errBadPartial
			}
			overriders[n.Key] = n.Contents
		default:
			return nil, errBadPartial
		}
	}
	return overriders, nil
}

var errBadPartial = &ParseError{Kind: errKindBadPartialContents}

func werr(kind ParseErrorKind, src, name string, pos int, msg string) *ParseError {
	line, col := lineCol(src, pos)
	return newParseError(kind, line, col, msg).WithName(name).WithSource(src)
}

// Package parser turns Mustache template source into the ast.ContentList
// the rendering core walks. It is deliberately separate from that core: a
// dedicated lexer stage produces a flat token stream, consumed by a
// separate stack-based builder.
package parser

import (
	"fmt"
	"strings"
)

const (
	defaultOpen  = "{{"
	defaultClose = "}}"
)

// itemKind distinguishes a literal text run from a recognized tag.
type itemKind int

const (
	itemText itemKind = iota
	itemTag
)

// sigil identifies which of Mustache's tag forms a tag item is.
type sigil byte

const (
	sigilVar         sigil = 0   // {{key}}
	sigilRawAmp      sigil = '&' // {{&key}}
	sigilRawBrace    sigil = '{' // {{{key}}}
	sigilSection     sigil = '#'
	sigilInversion   sigil = '^'
	sigilInheritance sigil = '$'
	sigilBlockPart   sigil = '<'
	sigilPartial     sigil = '>'
	sigilClose       sigil = '/'
	sigilComment     sigil = '!'
	sigilDelim       sigil = '='
)

// item is one lexical unit: either a literal text run or a tag occurrence
// with its delimiters already stripped. start/end are byte offsets into
// the original source, used for both standalone-whitespace trimming and
// error position reporting.
type item struct {
	kind   itemKind
	text   string // set when kind == itemText
	sig    sigil
	key    string // trimmed tag body, set when kind == itemTag
	indent string // leading whitespace of the tag's line, set only for a standalone partial tag
	start  int
	end    int
}

// Lex tokenizes src into a flat run of text and tag items, handling
// delimiter changes ({{=<% %>=}}) inline as it encounters them — a later
// tag is scanned with whatever delimiters are active at that point in the
// source, so lexing cannot be separated from a left-to-right scan.
func Lex(src string) ([]item, error) {
	var items []item
	open, close := defaultOpen, defaultClose
	pos := 0
	for {
		idx := strings.Index(src[pos:], open)
		if idx < 0 {
			if pos < len(src) {
				items = append(items, item{kind: itemText, text: src[pos:], start: pos, end: len(src)})
			}
			return items, nil
		}
		idx += pos
		if idx > pos {
			items = append(items, item{kind: itemText, text: src[pos:idx], start: pos, end: idx})
		}

		tagStart := idx
		rest := src[idx+len(open):]

		var sig sigil
		var bodyOffset int
		switch {
		case open == defaultOpen && strings.HasPrefix(rest, "{"):
			sig, bodyOffset = sigilRawBrace, 1
		case strings.HasPrefix(rest, "="):
			sig, bodyOffset = sigilDelim, 1
		case len(rest) > 0 && strings.IndexByte("&#^$</>!", rest[0]) >= 0:
			sig, bodyOffset = sigil(rest[0]), 1
		default:
			sig, bodyOffset = sigilVar, 0
		}

		effClose := close
		if sig == sigilRawBrace {
			effClose = "}" + close
		} else if sig == sigilDelim {
			effClose = "=" + close
		}

		body := rest[bodyOffset:]
		endIdx := strings.Index(body, effClose)
		if endIdx < 0 {
			line, col := lineCol(src, tagStart)
			return nil, newParseError(errKindUnclosedTag, line, col, fmt.Sprintf("%q has no matching %q", open, effClose))
		}
		content := body[:endIdx]
		newPos := idx + len(open) + bodyOffset + endIdx + len(effClose)

		if sig == sigilDelim {
			var err error
			open, close, err = parseDelimiters(content)
			if err != nil {
				line, col := lineCol(src, tagStart)
				return nil, newParseError(errKindBadDelimiters, line, col, err.Error())
			}
		}

		items = append(items, item{kind: itemTag, sig: sig, key: strings.TrimSpace(content), start: tagStart, end: newPos})
		pos = newPos
	}
}

func parseDelimiters(s string) (open, close string, err error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("expected two delimiters, got %q", s)
	}
	if fields[0] == "" || fields[1] == "" {
		return "", "", fmt.Errorf("delimiters must be non-empty")
	}
	return fields[0], fields[1], nil
}

func lineCol(src string, pos int) (line, col int) {
	line = 1
	lastNL := -1
	for i := 0; i < pos && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lastNL = i
		}
	}
	return line, pos - lastNL
}

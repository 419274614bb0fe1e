// Package ast defines the tree the rendering core walks: text runs,
// variable interpolations, sections (and their inverted/loop/filter/
// inheritance variants), and partial includes. It is produced by
// parser.Parse and consumed only through a narrow surface — ContentList,
// Context.Visit, and the node accessors below — so the core stays
// ignorant of how the tree was built.
package ast

// VarTag distinguishes the two interpolation forms: {{x}} (escaped) and
// {{{x}}} / {{&x}} (raw).
type VarTag int

const (
	Escape VarTag = iota
	Raw
)

// BlockTag distinguishes the five block forms a {{#..}}..{{/..}} (or
// {{$..}}) span can take.
type BlockTag int

const (
	Section     BlockTag = iota // {{#key}}
	Inversion                   // {{^key}}
	Loop                        // reserved for loader-side explicit loop sections
	Filter                      // reserved for lambda-as-filter sections
	Inheritance                 // {{$key}} (template-inheritance block)
)

func (t BlockTag) String() string {
	switch t {
	case Section:
		return "section"
	case Inversion:
		return "inversion"
	case Loop:
		return "loop"
	case Filter:
		return "filter"
	case Inheritance:
		return "inheritance"
	default:
		return "unknown"
	}
}

// Content is any node that can appear in a ContentList: *Text, *Variable,
// *Block, or *Partial. It carries no methods of its own — dispatch happens
// through Context.Visit's type switch, a vtable-free AST.
type Content interface{}

// ContentList is a run of sibling nodes — a template body, a section body,
// or an override's replacement content.
type ContentList []Content

// Text is a non-empty literal run. The parser guarantees Text nodes are
// never empty; an empty Text node reaching the renderer is a parser bug.
type Text struct {
	Bytes []byte
}

// Variable is a {{key}} / {{{key}}} / {{&key}} interpolation.
type Variable struct {
	Key string
	Tag VarTag
}

// OverrideMap maps an inheritance block's key to the content list that
// should replace its default contents — the payload a partial carries when
// it is being used to "extend" another template.
type OverrideMap map[string]ContentList

// Block is a {{#key}}...{{/key}}, {{^key}}...{{/key}}, or {{$key}}...{{/key}}
// span. The parser never populates a Block's Overriders: the replacements
// a {{<name}}...{{/name}} block-partial collects are stored on
// Partial.Overriders instead, and the renderer does not read this field.
type Block struct {
	Key        string
	Tag        BlockTag
	Contents   ContentList
	Overriders OverrideMap
}

// Partial is a {{>name}} or {{<name}}...{{/name}} include. IndentPrefix is
// the literal whitespace that preceded the tag on its line, captured by the
// parser's standalone-tag handling so the renderer can reproduce it on
// every line the partial emits. Overriders holds the
// inheritance-block replacements a {{<name}}...{{/name}} block-partial
// collected from its body; a plain {{>name}} include always has an empty
// Overriders.
type Partial struct {
	Key          string
	IndentPrefix string
	Overriders   OverrideMap
}

// View is a non-owning reference to a parsed template: its dispatch
// context plus its top-level content list. It is the concrete type behind
// the value.Format interface's View() method.
type View struct {
	Ctx      *Context
	Contents ContentList
}

// Template is the parsed-format surface exposed to the rendering core: it
// holds a View for the renderer to walk.
type Template struct {
	Name string
	view View
}

// NewTemplate builds a Template from a parsed content list. ctx is shared
// across every Template produced by one parse (it carries no per-template
// state).
func NewTemplate(name string, ctx *Context, contents ContentList) *Template {
	return &Template{Name: name, view: View{Ctx: ctx, Contents: contents}}
}

// View implements value.Format.
func (t *Template) View() any { return t.view }

// Visitor is implemented by the rendering core's content visitor. Context.Visit
// dispatches a single Content node to the matching method.
type Visitor interface {
	VisitText(*Text)
	VisitVariable(*Variable)
	VisitBlock(*Block)
	VisitPartial(*Partial)
}

// Context performs the node-kind dispatch a parsed template shares across
// every render of it. It holds no per-render state; a single Context value
// can (and should) be reused across concurrent renders of its template.
type Context struct{}

// NewContext returns a fresh dispatch context.
func NewContext() *Context { return &Context{} }

// Visit dispatches node to the matching Visitor method. Malformed content
// (a node type outside the four above) is a parser bug and is silently
// ignored: the parser is responsible for only ever producing these four
// node types.
func (c *Context) Visit(v Visitor, node Content) {
	switch n := node.(type) {
	case *Text:
		v.VisitText(n)
	case *Variable:
		v.VisitVariable(n)
	case *Block:
		v.VisitBlock(n)
	case *Partial:
		v.VisitPartial(n)
	}
}

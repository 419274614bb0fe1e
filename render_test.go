package wisp_test

import (
	"strings"
	"testing"

	wisp "github.com/foliage-labs/wisp"
	"github.com/foliage-labs/wisp/ast"
	"github.com/foliage-labs/wisp/parser"
	"github.com/foliage-labs/wisp/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Template {
	t.Helper()
	tmpl, err := parser.Parse(src, "test")
	require.NoError(t, err)
	return tmpl
}

func render(t *testing.T, src string, data value.Value, partials wisp.PartialLookup) string {
	t.Helper()
	tmpl := mustParse(t, src)
	var buf strings.Builder
	err := wisp.Render(&buf, &buf, tmpl, data, partials, nil)
	require.NoError(t, err)
	return buf.String()
}

func TestRenderEscapesByDefault(t *testing.T) {
	data := value.FromMap(map[string]value.Value{"name": value.FromString("<b>Tom</b>")})
	tmpl := mustParse(t, "Hi {{name}}")
	var buf strings.Builder
	esc := &htmlEscapeWriter{w: &buf}
	err := wisp.Render(&buf, esc, tmpl, data, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi &lt;b&gt;Tom&lt;/b&gt;", buf.String())
}

func TestRenderRawVariableBypassesEscaping(t *testing.T) {
	data := value.FromMap(map[string]value.Value{"name": value.FromString("<b>Tom</b>")})
	out := render(t, "Hi {{{name}}}", data, nil)
	assert.Equal(t, "Hi <b>Tom</b>", out)
}

func TestRenderSectionOnObjectPushesScope(t *testing.T) {
	data := value.FromMap(map[string]value.Value{
		"user": value.FromMap(map[string]value.Value{"name": value.FromString("Ada")}),
	})
	out := render(t, "{{#user}}Hello {{name}}{{/user}}", data, nil)
	assert.Equal(t, "Hello Ada", out)
}

func TestRenderSectionFalsyAtomSkipsBody(t *testing.T) {
	data := value.FromMap(map[string]value.Value{"ok": value.FromBool(false)})
	out := render(t, "[{{#ok}}shown{{/ok}}]", data, nil)
	assert.Equal(t, "[]", out)
}

func TestRenderInversionRendersOnFalsy(t *testing.T) {
	data := value.FromMap(map[string]value.Value{"items": value.FromSlice(nil)})
	out := render(t, "{{^items}}empty{{/items}}", data, nil)
	assert.Equal(t, "empty", out)
}

func TestRenderInversionBindsCursorToOwnFalsyValue(t *testing.T) {
	data := value.FromMap(map[string]value.Value{"flag": value.FromBool(false)})
	out := render(t, "{{^flag}}[{{.}}]{{/flag}}", data, nil)
	assert.Equal(t, "[false]", out)
}

func TestRenderInversionOverLazyValueNeverInvokesThunk(t *testing.T) {
	calls := 0
	data := value.FromMap(map[string]value.Value{
		"greeting": value.FromLazyValue(countingFalseLazyValue{calls: &calls}),
	})
	out := render(t, "{{^greeting}}shown{{/greeting}}", data, nil)
	assert.Equal(t, 0, calls, "inverted section must never invoke a lazy value's thunk")
	assert.Empty(t, out, "inverted section over a lazy value must never render its body")
}

func TestRenderListIteratesAndBindsCursor(t *testing.T) {
	data := value.FromMap(map[string]value.Value{
		"items": value.FromSlice([]value.Value{value.FromString("a"), value.FromString("b")}),
	})
	out := render(t, "{{#items}}({{.}}){{/items}}", data, nil)
	assert.Equal(t, "(a)(b)", out)
}

func TestRenderDottedKeyNestedResolution(t *testing.T) {
	data := value.FromMap(map[string]value.Value{
		"user": value.FromMap(map[string]value.Value{
			"profile": value.FromMap(map[string]value.Value{"city": value.FromString("Lagos")}),
		}),
	})
	out := render(t, "{{user.profile.city}}", data, nil)
	assert.Equal(t, "Lagos", out)
}

func TestRenderScopeChainFallsThroughToOuter(t *testing.T) {
	data := value.FromMap(map[string]value.Value{
		"title": value.FromString("Outer"),
		"inner": value.FromMap(map[string]value.Value{}),
	})
	out := render(t, "{{#inner}}{{title}}{{/inner}}", data, nil)
	assert.Equal(t, "Outer", out)
}

func TestRenderUnresolvedVariableUsesCallback(t *testing.T) {
	tmpl := mustParse(t, "{{missing}}")
	var buf strings.Builder
	err := wisp.Render(&buf, &buf, tmpl, value.FromMap(nil), nil, func(key string) value.Value {
		return value.FromString("[" + key + "]")
	})
	require.NoError(t, err)
	assert.Equal(t, "[missing]", buf.String())
}

func TestRenderPartialIndentPropagation(t *testing.T) {
	partials := map[string]*ast.Template{
		"item": mustParse(t, "- item\n"),
	}
	lookup := func(name string) (*ast.Template, bool) {
		tmpl, ok := partials[name]
		return tmpl, ok
	}
	data := value.FromMap(nil)
	out := render(t, "  {{>item}}", data, lookup)
	assert.Equal(t, "  - item\n", out)
}

func TestRenderUnresolvedPartialIsSkipped(t *testing.T) {
	out := render(t, "before{{>missing}}after", value.FromMap(nil), nil)
	assert.Equal(t, "beforeafter", out)
}

func TestRenderInheritanceOverride(t *testing.T) {
	layout := mustParse(t, "<{{$title}}default{{/title}}>")
	partials := map[string]*ast.Template{"layout": layout}
	lookup := func(name string) (*ast.Template, bool) {
		tmpl, ok := partials[name]
		return tmpl, ok
	}
	out := render(t, "{{<layout}}{{$title}}custom{{/title}}{{/layout}}", value.FromMap(nil), lookup)
	assert.Equal(t, "<custom>", out)
}

func TestRenderLazyValueReentry(t *testing.T) {
	shout := lazyUpper{}
	data := value.FromMap(map[string]value.Value{"name": value.FromLazyValue(shout)})
	out := render(t, "{{name}}", data, nil)
	assert.Equal(t, "HELLO", out)
}

// htmlEscapeWriter is a minimal stand-in for escape.Writer so render_test.go
// doesn't need to import the escape package just to prove escOut and
// rawOut are genuinely distinct sinks.
type htmlEscapeWriter struct{ w *strings.Builder }

func (h *htmlEscapeWriter) Write(p []byte) (int, error) {
	s := string(p)
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	h.w.WriteString(s)
	return len(p), nil
}

// lazyUpper is a LazyValue that yields a fixed atom regardless of view,
// exercising printValue's lazy-value path in variable position.
type lazyUpper struct{}

func (lazyUpper) CallValue(_ any, handle value.Handle) {
	handle(value.FromString("HELLO"))
}

// countingFalseLazyValue is a LazyValue that yields a falsy atom and counts
// how many times its thunk was invoked, so a test can assert an inverted
// section never enters it at all.
type countingFalseLazyValue struct{ calls *int }

func (c countingFalseLazyValue) CallValue(_ any, handle value.Handle) {
	*c.calls++
	handle(value.FromBool(false))
}

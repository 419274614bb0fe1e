package wisp_test

import (
	"errors"
	"strings"
	"testing"

	wisp "github.com/foliage-labs/wisp"
	"github.com/foliage-labs/wisp/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentAddAndRenderTemplate(t *testing.T) {
	env := wisp.New()
	require.NoError(t, env.AddTemplate("greeting", "Hi {{name}}"))

	var buf strings.Builder
	data := value.FromMap(map[string]value.Value{"name": value.FromString("Ada")})
	require.NoError(t, env.Render(&buf, "greeting", data))
	assert.Equal(t, "Hi Ada", buf.String())
}

func TestEnvironmentMissingTemplateWithoutLoaderErrors(t *testing.T) {
	env := wisp.New()
	var buf strings.Builder
	err := env.Render(&buf, "nope", value.Null())
	require.Error(t, err)
}

func TestEnvironmentLoaderFallbackCachesResult(t *testing.T) {
	env := wisp.New()
	calls := 0
	env.SetLoader(func(name string) (string, error) {
		calls++
		return "loaded:" + name, nil
	})

	var buf strings.Builder
	require.NoError(t, env.Render(&buf, "page", value.Null()))
	assert.Equal(t, "loaded:page", buf.String())

	buf.Reset()
	require.NoError(t, env.Render(&buf, "page", value.Null()))
	assert.Equal(t, "loaded:page", buf.String())
	assert.Equal(t, 1, calls, "loader should only be consulted once; the second render hits the cache")
}

func TestEnvironmentRemoveTemplateForcesReload(t *testing.T) {
	env := wisp.New()
	require.NoError(t, env.AddTemplate("x", "one"))
	env.RemoveTemplate("x")

	var buf strings.Builder
	err := env.Render(&buf, "x", value.Null())
	require.Error(t, err)
}

func TestEnvironmentDefaultEscaperIsHTML(t *testing.T) {
	env := wisp.New()
	require.NoError(t, env.AddTemplate("t", "{{x}}"))
	var buf strings.Builder
	data := value.FromMap(map[string]value.Value{"x": value.FromString("<b>")})
	require.NoError(t, env.Render(&buf, "t", data))
	assert.Equal(t, "&lt;b&gt;", buf.String())
}

func TestEnvironmentCustomUndefinedCallback(t *testing.T) {
	env := wisp.New()
	env.Undefined = func(key string) value.Value { return value.FromString("??" + key + "??") }
	require.NoError(t, env.AddTemplate("t", "{{missing}}"))

	var buf strings.Builder
	require.NoError(t, env.Render(&buf, "t", value.FromMap(nil)))
	assert.Equal(t, "??missing??", buf.String())
}

// panickyObject panics whenever Get is invoked, standing in for a
// misbehaving user-supplied collaborator whose panic must surface as a
// *wisp.RenderError rather than crash the caller.
type panickyObject struct{}

func (panickyObject) Get(_ string, _ value.Handle) { panic("boom") }

func TestEnvironmentRenderTemplateRecoversPanicIntoRenderError(t *testing.T) {
	env := wisp.New()
	require.NoError(t, env.AddTemplate("t", "{{#thing}}{{x}}{{/thing}}"))

	data := value.FromMap(map[string]value.Value{"thing": value.FromObject(panickyObject{})})
	var buf strings.Builder
	err := env.Render(&buf, "t", data)
	require.Error(t, err)

	var rerr *wisp.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "t", rerr.Template)
}

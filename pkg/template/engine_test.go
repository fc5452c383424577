package template

import (
	"testing"

	"github.com/arthur-debert/petridish/pkg/errors"
	"github.com/arthur-debert/petridish/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	ctx := types.Context{
		"project": "alice",
		"age":     float64(42),
		"ratio":   1.5,
		"private": true,
		"tags":    []string{"go", "cli"},
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain text is untouched", "no markers here", "no markers here"},
		{"bare name", "{{ project }}", "alice"},
		{"dot name", "{{ .project }}", "alice"},
		{"inside path", "demo/{{ project }}/x.txt", "demo/alice/x.txt"},
		{"whole number float", "{{ age }}", "42"},
		{"fractional float", "{{ ratio }}", "1.5"},
		{"bool", "{{ private }}", "true"},
		{"conditional", "{{ if private }}secret{{ else }}open{{ end }}", "secret"},
		{"helper pipeline", "{{ project | upper }}", "ALICE"},
		{"join list", `{{ tags | join ", " }}`, "go, cli"},
		{"range list", "{{ range tags }}[{{ . }}]{{ end }}", "[go][cli]"},
	}

	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Render("test", tt.text, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	ctx := types.Context{"a": "1", "b": "2", "c": []string{"x", "y"}}
	text := "{{ a }}-{{ b }}-{{ range $k, $v := . }}{{ $k }}{{ end }}"

	e := NewEngine()
	first, err := e.Render("t", text, ctx)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := e.Render("t", text, ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRenderUndefinedVariable(t *testing.T) {
	e := NewEngine()
	ctx := types.Context{"project": "alice"}

	t.Run("bare name fails at parse", func(t *testing.T) {
		_, err := e.Render("demo/{{ nope }}.txt", "{{ nope }}", ctx)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateParse))
		details := errors.GetErrorDetails(err)
		assert.Equal(t, `undefined variable "nope"`, details[errors.DetailDetail])
		assert.Equal(t, "demo/{{ nope }}.txt", details[errors.DetailPath])
	})

	t.Run("dot name fails at execution", func(t *testing.T) {
		_, err := e.Render("x", "{{ .nope }}", ctx)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateExecute))
		assert.Equal(t, `undefined variable "nope"`, errors.GetErrorDetails(err)[errors.DetailDetail])
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := e.Render("x", "{{ project ", ctx)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateParse))
	})
}

func TestRenderDoesNotMutateContext(t *testing.T) {
	ctx := types.Context{"project": "alice", "tags": []string{"a"}}
	before := ctx.Clone()

	_, err := NewEngine().Render("x", "{{ project | upper }} {{ tags | join \",\" }}", ctx)
	require.NoError(t, err)
	assert.Equal(t, before, ctx)
}

func TestVariableShadowsHelper(t *testing.T) {
	got, err := NewEngine().Render("x", "{{ title }}", types.Context{"title": "My Book"})
	require.NoError(t, err)
	assert.Equal(t, "My Book", got)
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("project_name"))
	assert.True(t, IsValidName("_x1"))
	assert.False(t, IsValidName("1x"))
	assert.False(t, IsValidName("my-var"))
	assert.False(t, IsValidName("range"))
	assert.False(t, IsValidName(""))
}

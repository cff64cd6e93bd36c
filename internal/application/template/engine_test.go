package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/prana/internal/application/template"
)

func TestEngine_WholeStringExpressionPreservesNativeType(t *testing.T) {
	e := template.NewEngine()
	ctx := map[string]any{"input": map[string]any{"main": map[string]any{"count": 5}}}

	out, err := e.Render(map[string]any{"value": "{{ input.main.count > 3 }}"}, ctx)
	require.NoError(t, err)

	b, ok := out["value"].(bool)
	require.True(t, ok, "whole-expression template must return a native bool, got %T", out["value"])
	assert.True(t, b)
}

func TestEngine_InterpolationStringifiesIntoSurroundingText(t *testing.T) {
	e := template.NewEngine()
	ctx := map[string]any{"input": map[string]any{"main": map[string]any{"name": "prana"}}}

	out, err := e.Render(map[string]any{"greeting": "hello {{ input.main.name }}!"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello prana!", out["greeting"])
}

func TestEngine_LiteralValuesPassThrough(t *testing.T) {
	e := template.NewEngine()
	out, err := e.Render(map[string]any{"n": 42, "items": []any{1, 2}}, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 42, out["n"])
	assert.Equal(t, []any{1, 2}, out["items"])
}

func TestEngine_NestedMapsAndSlicesResolveRecursively(t *testing.T) {
	e := template.NewEngine()
	ctx := map[string]any{"vars": map[string]any{"x": 7}}

	out, err := e.Render(map[string]any{
		"nested": map[string]any{"value": "{{ vars.x }}"},
		"list":   []any{"{{ vars.x }}", "literal"},
	}, ctx)
	require.NoError(t, err)

	nested, ok := out["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 7, nested["value"])

	list, ok := out["list"].([]any)
	require.True(t, ok)
	assert.Equal(t, 7, list[0])
	assert.Equal(t, "literal", list[1])
}

func TestEngine_InvalidExpressionReturnsError(t *testing.T) {
	e := template.NewEngine()
	_, err := e.Render(map[string]any{"bad": "{{ 1 + }}"}, map[string]any{})
	assert.Error(t, err)
}

func TestEngine_CachesCompiledPrograms(t *testing.T) {
	e := template.NewEngine()
	ctx := map[string]any{"vars": map[string]any{"x": 1}}

	for i := 0; i < 3; i++ {
		out, err := e.Render(map[string]any{"v": "{{ vars.x }}"}, ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, out["v"])
	}
}

func TestHasTemplates(t *testing.T) {
	assert.True(t, template.HasTemplates("hello {{ x }}"))
	assert.False(t, template.HasTemplates("hello x"))
}

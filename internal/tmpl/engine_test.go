package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, text string, ctx map[string]any) string {
	t.Helper()
	e := NewEngine()
	require.NoError(t, e.Register("t", text))
	out, err := e.Render("t", ctx)
	require.NoError(t, err)
	return out
}

func TestVariableSubstitution(t *testing.T) {
	out := render(t, "Hello, {{name}}!", map[string]any{"name": "world"})
	assert.Equal(t, "Hello, world!", out)
}

func TestUnresolvedTokenStaysVerbatim(t *testing.T) {
	out := render(t, "a {{missing}} b {{x.y}} c", map[string]any{})
	assert.Equal(t, "a {{missing}} b {{x.y}} c", out)
}

func TestDottedPath(t *testing.T) {
	ctx := map[string]any{
		"model": map[string]any{"name": "User", "meta": map[string]any{"table": "users"}},
	}
	out := render(t, "{{model.name}}/{{model.meta.table}}", ctx)
	assert.Equal(t, "User/users", out)
}

func TestIfTruthyAndFalsy(t *testing.T) {
	tmplText := "{{#if flag}}on{{/if}}"
	cases := []struct {
		val  any
		want string
	}{
		{true, "on"},
		{false, ""},
		{nil, ""},
		{"", ""},
		{"x", "on"},
		{0, ""},
		{1, "on"},
		{[]any{}, ""},
		{[]any{1}, "on"},
	}
	for _, c := range cases {
		out := render(t, tmplText, map[string]any{"flag": c.val})
		assert.Equal(t, c.want, out, "value %#v", c.val)
	}
}

func TestIfHasNoElseBranch(t *testing.T) {
	e := NewEngine()
	err := e.Register("t", "{{#if a}}x{{else}}y{{/if}}")
	require.NoError(t, err)
	// {{else}} — не конструкция, а обычный неразрешённый токен
	out, err := e.Render("t", map[string]any{"a": true})
	require.NoError(t, err)
	assert.Equal(t, "x{{else}}y", out)
}

func TestEachOverList(t *testing.T) {
	ctx := map[string]any{
		"fields": []map[string]any{
			{"name": "id"},
			{"name": "email"},
		},
	}
	out := render(t, "{{#each fields}}{{name}};{{/each}}", ctx)
	assert.Equal(t, "id;email;", out)
}

func TestEachThisAlias(t *testing.T) {
	out := render(t, "{{#each items}}[{{this}}]{{/each}}", map[string]any{
		"items": []string{"a", "b"},
	})
	assert.Equal(t, "[a][b]", out)
}

func TestEachOverNonListRendersNothing(t *testing.T) {
	for _, v := range []any{nil, "str", 42, map[string]any{"k": 1}} {
		out := render(t, "x{{#each items}}y{{/each}}z", map[string]any{"items": v})
		assert.Equal(t, "xz", out, "value %#v", v)
	}
}

func TestEachElementShadowsOuterContext(t *testing.T) {
	ctx := map[string]any{
		"name": "outer",
		"rows": []map[string]any{{"name": "inner"}, {}},
	}
	out := render(t, "{{#each rows}}{{name}},{{/each}}", ctx)
	// второй элемент без собственного name видит внешний
	assert.Equal(t, "inner,outer,", out)
}

func TestWhitespacePreservedExactly(t *testing.T) {
	text := "line1\n  {{a}}\n\nline3\n"
	out := render(t, text, map[string]any{"a": "X"})
	assert.Equal(t, "line1\n  X\n\nline3\n", out)
}

func TestRenderUnknownTemplate(t *testing.T) {
	e := NewEngine()
	_, err := e.Render("nope", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRegisterOverwrites(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Register("t", "v1"))
	require.NoError(t, e.Register("t", "v2"))
	out, err := e.Render("t", nil)
	require.NoError(t, err)
	assert.Equal(t, "v2", out)
}

func TestUnclosedBlockFails(t *testing.T) {
	e := NewEngine()
	assert.Error(t, e.Register("t", "{{#if a}}never closed"))
	assert.Error(t, e.Register("t2", "{{#each a}}never closed"))
	assert.Error(t, e.Register("t3", "no opener{{/if}}"))
}

func TestBuiltinLibraryLoaded(t *testing.T) {
	e := NewEngine()
	names := e.Names()
	assert.Contains(t, names, TemplateRecord)
	assert.Contains(t, names, TemplateRepository)
	assert.Contains(t, names, TemplateSchema)
}

func TestRenderIsRepeatable(t *testing.T) {
	e := NewEngine()
	text := "{{#if ts}}import x;{{/if}}\n{{#each items}}- {{name}}: {{val}}\n{{/each}}{{title}}"
	require.NoError(t, e.Register("t", text))

	ctx := map[string]any{
		"ts":    true,
		"title": "done",
		"items": []map[string]any{
			{"name": "a", "val": 1},
			{"name": "b", "val": 2},
		},
	}

	first, err := e.Render("t", ctx)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Render("t", ctx)
		require.NoError(t, err)
		// рендер не имеет состояния: тот же шаблон и контекст — тот же байт в байт результат
		assert.Equal(t, first, again)
	}
}

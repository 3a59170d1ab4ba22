package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zodchiy/internal/ir"
)

func file(lang, content string) ir.GeneratedFile {
	return ir.GeneratedFile{Path: "f", Content: content, Kind: ir.KindSource, Language: lang}
}

func TestJSONPrettyPrint(t *testing.T) {
	out := File(file("json", `{"b":1,"a":{"c":[1,2]}}`), nil)
	assert.Equal(t, "{\n  \"a\": {\n    \"c\": [\n      1,\n      2\n    ]\n  },\n  \"b\": 1\n}\n", out.Content)
}

func TestJSONIndentOption(t *testing.T) {
	out := File(file("json", `{"a":1}`), &Options{Indent: 4})
	assert.Equal(t, "{\n    \"a\": 1\n}\n", out.Content)
}

func TestInvalidJSONFallsBackToOriginal(t *testing.T) {
	src := `{"a": oops`
	out := File(file("json", src), nil)
	assert.Equal(t, src+"\n", out.Content)
}

func TestJSONLargeNumbersSurvive(t *testing.T) {
	out := File(file("json", `{"n": 9007199254740993}`), nil)
	assert.Contains(t, out.Content, "9007199254740993")
}

func TestYAMLCanonicalized(t *testing.T) {
	out := File(file("yaml", "b: 1\na:\n  - x\n  - y\n"), nil)
	assert.Contains(t, out.Content, "a:\n  - x\n  - y\n")
}

func TestInvalidYAMLFallsBack(t *testing.T) {
	src := "a: [unclosed"
	out := File(file("yaml", src), nil)
	assert.Equal(t, src+"\n", out.Content)
}

func TestEnvNormalized(t *testing.T) {
	src := "  PORT = 3000  \n\n# comment\nDATABASE_URL=postgres://x\n"
	out := File(file("env", src), nil)
	assert.Equal(t, "PORT=3000\n\n# comment\nDATABASE_URL=postgres://x\n", out.Content)
}

func TestEnvBadLineReturnsWholeOriginal(t *testing.T) {
	src := "PORT=3000\nnot an assignment\nA=1"
	out := File(file("env", src), nil)
	// одна кривая строка — и весь файл уходит как был
	assert.Equal(t, src+"\n", out.Content)
}

func TestSQLKeywordsUppercased(t *testing.T) {
	out := File(file("sql", "create table if not exists users (\n  id uuid primary key\n);"), nil)
	assert.Contains(t, out.Content, "CREATE TABLE IF NOT EXISTS users (")
	assert.Contains(t, out.Content, "UUID PRIMARY KEY")
}

func TestSQLQuotedLiteralsUntouched(t *testing.T) {
	out := File(file("sql", "insert into t values ('select from where');"), nil)
	assert.Contains(t, out.Content, "'select from where'")
	assert.Contains(t, out.Content, "INSERT INTO t VALUES")
}

func TestSQLConstraintClausesIndented(t *testing.T) {
	out := File(file("sql", "CREATE TABLE t (\nPRIMARY KEY (a, b)\n);"), nil)
	assert.Contains(t, out.Content, "\n  PRIMARY KEY (a, b)\n")
}

func TestMarkdownHeadingSpacing(t *testing.T) {
	out := File(file("markdown", "intro\n#Title\nbody\n\n\n\nmore"), nil)
	assert.Contains(t, out.Content, "intro\n\n# Title\n")
	assert.NotContains(t, out.Content, "\n\n\n")
}

func TestMarkdownCodeFencePreserved(t *testing.T) {
	src := "# Doc\n\n```bash\n#not a heading\n\n\n\nkeep\n```\n"
	out := File(file("markdown", src), nil)
	assert.Contains(t, out.Content, "#not a heading")
	assert.Contains(t, out.Content, "\n\n\n\nkeep")
}

func TestUnknownLanguagePassesThrough(t *testing.T) {
	out := File(file("typescript", "const x = 1;   "), nil)
	assert.Equal(t, "const x = 1;\n", out.Content, "only whitespace normalization applies")
}

func TestTrailingNewlineExactlyOne(t *testing.T) {
	for _, src := range []string{"x", "x\n", "x\n\n\n"} {
		out := File(file("text", src), nil)
		assert.Equal(t, "x\n", out.Content)
	}
}

func TestFormattingIsIdempotent(t *testing.T) {
	inputs := []ir.GeneratedFile{
		file("json", `{"b":1,"a":2}`),
		file("yaml", "b: 1\na: 2\n"),
		file("env", "A = 1\nB=2"),
		file("sql", "create table t (id uuid);"),
		file("markdown", "#T\nbody"),
	}
	for _, in := range inputs {
		once := File(in, nil)
		twice := File(once, nil)
		assert.Equal(t, once.Content, twice.Content, in.Language)
	}
}

func TestFilesKeepsOrderAndInputUntouched(t *testing.T) {
	in := []ir.GeneratedFile{file("json", `{"a":1}`), file("text", "x")}
	out := Files(in, nil)
	require.Len(t, out, 2)
	assert.Equal(t, `{"a":1}`, in[0].Content, "input slice is not mutated")
	assert.Equal(t, "x\n", out[1].Content)
}

func TestCheckBalancedSource(t *testing.T) {
	ok := Check(file("typescript", "function f() { return [1, 2]; }\n"))
	assert.True(t, ok.Valid)

	bad := Check(file("typescript", "function f() { return [1, 2];\n"))
	assert.False(t, bad.Valid)
	require.NotEmpty(t, bad.Errors)
	assert.Contains(t, bad.Errors[0], "unbalanced")
}

func TestCheckIgnoresBracesInStrings(t *testing.T) {
	ok := Check(file("javascript", "const s = '}}}';\nconst t = \"((\";\n"))
	assert.True(t, ok.Valid)
}

func TestCheckJSON(t *testing.T) {
	assert.True(t, Check(file("json", `{"a":1}`)).Valid)
	assert.False(t, Check(file("json", `{"a":`)).Valid)
}

func TestCheckSQL(t *testing.T) {
	assert.True(t, Check(file("sql", "CREATE TABLE t (id uuid);\nALTER TABLE t ADD COLUMN a uuid;")).Valid)
	assert.False(t, Check(file("sql", "banana with cheese;")).Valid)
}

func TestCheckUnknownLanguageAlwaysValid(t *testing.T) {
	assert.True(t, Check(file("markdown", "{{{{")).Valid)
}

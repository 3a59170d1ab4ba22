package format

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"zodchiy/internal/ir"
)

// Форматирование best-effort: артефакт с неразбираемым содержимым уходит
// дальше нетронутым, паники здесь недопустимы. Диспетчеризация — по языковой
// метке; незнакомая метка значит pass-through.

// Options — настройки форматирования.
type Options struct {
	Indent int // единица отступа для структурированного текста
}

func defaultOptions() Options { return Options{Indent: 2} }

// File форматирует один артефакт. Функция чистая: вход не мутируется.
func File(f ir.GeneratedFile, opts *Options) ir.GeneratedFile {
	o := defaultOptions()
	if opts != nil && opts.Indent > 0 {
		o = *opts
	}

	content := f.Content
	switch f.Language {
	case "json":
		content = formatJSON(content, o.Indent)
	case "yaml":
		content = formatYAML(content, o.Indent)
	case "env":
		content = formatEnv(content)
	case "sql":
		content = formatSQL(content)
	case "markdown":
		content = formatMarkdown(content)
	}

	f.Content = normalizeWhitespace(content)
	return f
}

// Files форматирует список с одними настройками, сохраняя порядок.
func Files(files []ir.GeneratedFile, opts *Options) []ir.GeneratedFile {
	out := make([]ir.GeneratedFile, len(files))
	for i, f := range files {
		out[i] = File(f, opts)
	}
	return out
}

// formatJSON — канонический вложенный pretty-print; при ошибке разбора
// оригинал возвращается как есть.
func formatJSON(content string, indent int) string {
	var v any
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return content
	}
	raw, err := json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	if err != nil {
		return content
	}
	return string(raw)
}

func formatYAML(content string, indent int) string {
	var v any
	if err := yaml.Unmarshal([]byte(content), &v); err != nil {
		return content
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return content
	}
	_ = enc.Close()
	return buf.String()
}

// formatEnv — строгий построчный разбор KEY=VALUE; любая неразбираемая
// строка откатывает файл к оригиналу.
func formatEnv(content string) string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out = append(out, trimmed)
			continue
		}
		eq := strings.Index(trimmed, "=")
		if eq <= 0 {
			return content
		}
		key := strings.TrimSpace(trimmed[:eq])
		val := strings.TrimSpace(trimmed[eq+1:])
		if key == "" || strings.ContainsAny(key, " \t") {
			return content
		}
		out = append(out, key+"="+val)
	}
	return strings.Join(out, "\n")
}

// normalizeWhitespace: хвостовые пробелы долой, ровно один перевод строки
// в конце.
func normalizeWhitespace(content string) string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	out := strings.Join(lines, "\n")
	out = strings.TrimRight(out, "\n")
	return out + "\n"
}

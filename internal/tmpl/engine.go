package tmpl

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrTemplateNotFound возвращается при рендере незарегистрированного имени.
var ErrTemplateNotFound = errors.New("template not found")

// Движок намеренно сохраняет две "кривые" семантики, на которые опираются
// вызывающие с частичным контекстом:
//   - неразрешённый токен {{x}} / {{a.b}} уходит в вывод дословно;
//   - {{#each}} по отсутствующему или не-списковому значению не рендерит ничего.
// Пробелы и переводы строк сохраняются ровно как в исходнике шаблона.

type nodeKind int

const (
	nodeText nodeKind = iota
	nodeVar           // {{name}}
	nodePath          // {{a.b.c}}
	nodeIf            // {{#if flag}}...{{/if}}, без else
	nodeEach          // {{#each list}}...{{/each}}
)

type node struct {
	kind nodeKind
	text string // literal для nodeText; сырой токен для verbatim-отката
	name string // имя переменной/флага/списка или путь с точками
	body []node
}

// Template — разобранный шаблон.
type Template struct {
	name  string
	nodes []node
}

// Engine — реестр именованных шаблонов. Заполняется на старте процесса и
// далее читается; конкурентная регистрация во время рендера не поддерживается
// (синхронизация — забота вызывающего).
type Engine struct {
	templates map[string]*Template
}

// NewEngine создаёт движок с предзагруженной библиотекой шаблонов
// первичных артефактов (см. library.go).
func NewEngine() *Engine {
	e := &Engine{templates: make(map[string]*Template)}
	for name, text := range library {
		// библиотека фиксирована, ошибка парсинга здесь — баг сборки
		if err := e.Register(name, text); err != nil {
			panic(fmt.Sprintf("tmpl: builtin %q: %v", name, err))
		}
	}
	return e
}

// Register разбирает и сохраняет шаблон. Повторная регистрация имени
// перезаписывает предыдущий шаблон.
func (e *Engine) Register(name, text string) error {
	nodes, rest, err := parse(text, "")
	if err != nil {
		return fmt.Errorf("template %q: %w", name, err)
	}
	if rest != "" {
		return fmt.Errorf("template %q: unexpected closing tag", name)
	}
	e.templates[name] = &Template{name: name, nodes: nodes}
	return nil
}

// Names возвращает имена зарегистрированных шаблонов (для меты/отладки).
func (e *Engine) Names() []string {
	out := make([]string, 0, len(e.templates))
	for n := range e.templates {
		out = append(out, n)
	}
	return out
}

// Render рендерит шаблон против контекста.
func (e *Engine) Render(name string, ctx map[string]any) (string, error) {
	t, ok := e.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	var sb strings.Builder
	renderNodes(&sb, t.nodes, ctx)
	return sb.String(), nil
}

// ==== парсер ====

// parse читает узлы до закрывающего тега closing (пусто = до конца текста).
// Возвращает остаток текста после закрывающего тега.
func parse(text, closing string) ([]node, string, error) {
	var nodes []node
	for text != "" {
		open := strings.Index(text, "{{")
		if open < 0 {
			nodes = append(nodes, node{kind: nodeText, text: text})
			return nodes, "", closingErr(closing)
		}
		if open > 0 {
			nodes = append(nodes, node{kind: nodeText, text: text[:open]})
			text = text[open:]
		}
		end := strings.Index(text, "}}")
		if end < 0 {
			// незакрытый токен — оставляем как литерал
			nodes = append(nodes, node{kind: nodeText, text: text})
			return nodes, "", closingErr(closing)
		}
		raw := text[:end+2]
		inner := strings.TrimSpace(text[2:end])
		text = text[end+2:]

		switch {
		case inner == "/"+closing && closing != "":
			return nodes, text, nil
		case strings.HasPrefix(inner, "/"):
			return nil, "", fmt.Errorf("unmatched {{%s}}", inner)
		case strings.HasPrefix(inner, "#if "):
			name := strings.TrimSpace(strings.TrimPrefix(inner, "#if "))
			body, rest, err := parse(text, "if")
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, node{kind: nodeIf, name: name, body: body})
			text = rest
		case strings.HasPrefix(inner, "#each "):
			name := strings.TrimSpace(strings.TrimPrefix(inner, "#each "))
			body, rest, err := parse(text, "each")
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, node{kind: nodeEach, name: name, body: body})
			text = rest
		case strings.Contains(inner, "."):
			nodes = append(nodes, node{kind: nodePath, name: inner, text: raw})
		default:
			nodes = append(nodes, node{kind: nodeVar, name: inner, text: raw})
		}
	}
	return nodes, "", closingErr(closing)
}

func closingErr(closing string) error {
	if closing == "" {
		return nil
	}
	return fmt.Errorf("missing {{/%s}}", closing)
}

// ==== рендер ====

func renderNodes(sb *strings.Builder, nodes []node, ctx map[string]any) {
	for _, n := range nodes {
		switch n.kind {
		case nodeText:
			sb.WriteString(n.text)
		case nodeVar:
			if v, ok := ctx[n.name]; ok {
				sb.WriteString(stringify(v))
			} else {
				sb.WriteString(n.text) // verbatim
			}
		case nodePath:
			if v, ok := lookupPath(ctx, n.name); ok {
				sb.WriteString(stringify(v))
			} else {
				sb.WriteString(n.text) // verbatim
			}
		case nodeIf:
			if truthy(ctx[n.name]) {
				renderNodes(sb, n.body, ctx)
			}
		case nodeEach:
			for _, item := range listItems(ctx[n.name]) {
				renderNodes(sb, n.body, iterContext(ctx, item))
			}
		}
	}
}

// iterContext — внешний контекст, перекрытый собственными свойствами
// элемента, плюс алиас this.
func iterContext(outer map[string]any, item any) map[string]any {
	ctx := make(map[string]any, len(outer)+2)
	for k, v := range outer {
		ctx[k] = v
	}
	if m, ok := item.(map[string]any); ok {
		for k, v := range m {
			ctx[k] = v
		}
	}
	ctx["this"] = item
	return ctx
}

// listItems приводит значение к списку; не-список даёт пустую итерацию.
func listItems(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return nil
}

func lookupPath(ctx map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = ctx
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

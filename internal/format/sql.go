package format

import (
	"strings"
)

// Нормализация SQL: ключевые слова в верхний регистр, фиксированный отступ
// по виду клаузы. Строковые литералы не трогаем.

var sqlKeywords = map[string]string{
	"create": "CREATE", "table": "TABLE", "if": "IF", "not": "NOT", "exists": "EXISTS",
	"null": "NULL", "unique": "UNIQUE", "primary": "PRIMARY", "key": "KEY",
	"default": "DEFAULT", "references": "REFERENCES", "on": "ON", "delete": "DELETE",
	"cascade": "CASCADE", "restrict": "RESTRICT", "alter": "ALTER", "add": "ADD",
	"column": "COLUMN", "constraint": "CONSTRAINT", "foreign": "FOREIGN",
	"index": "INDEX", "drop": "DROP", "trigger": "TRIGGER", "before": "BEFORE",
	"update": "UPDATE", "for": "FOR", "each": "EACH", "row": "ROW", "execute": "EXECUTE",
	"function": "FUNCTION", "returns": "RETURNS", "begin": "BEGIN", "end": "END",
	"return": "RETURN", "language": "LANGUAGE", "replace": "REPLACE", "or": "OR",
	"insert": "INSERT", "into": "INTO", "values": "VALUES", "select": "SELECT",
	"from": "FROM", "where": "WHERE",
}

// клаузы, получающие отступ внутри CREATE TABLE
var indentedPrefixes = []string{"PRIMARY KEY", "FOREIGN KEY", "CONSTRAINT", "UNIQUE ("}

func formatSQL(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		upper := upperKeywordsOutsideQuotes(line)
		trimmed := strings.TrimSpace(upper)
		indented := false
		for _, p := range indentedPrefixes {
			if strings.HasPrefix(trimmed, p) {
				indented = true
				break
			}
		}
		if indented {
			lines[i] = "  " + trimmed
			continue
		}
		// прочие строки сохраняют авторский отступ
		lines[i] = upper
	}
	return strings.Join(lines, "\n")
}

// upperKeywordsOutsideQuotes поднимает регистр слов из таблицы, не залезая
// в одинарные кавычки.
func upperKeywordsOutsideQuotes(line string) string {
	var sb strings.Builder
	var word strings.Builder
	inQuote := false

	flush := func() {
		w := word.String()
		word.Reset()
		if w == "" {
			return
		}
		if up, ok := sqlKeywords[strings.ToLower(w)]; ok && !inQuote {
			sb.WriteString(up)
			return
		}
		sb.WriteString(w)
	}

	for _, r := range line {
		switch {
		case r == '\'':
			flush()
			inQuote = !inQuote
			sb.WriteRune(r)
		case !inQuote && (r == ' ' || r == '\t' || r == '(' || r == ')' || r == ',' || r == ';'):
			flush()
			sb.WriteRune(r)
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return sb.String()
}

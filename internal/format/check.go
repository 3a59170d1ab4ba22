package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"zodchiy/internal/ir"
)

// CheckResult — результат поверхностной проверки артефакта.
type CheckResult struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

// Check — дымовая проверка: ловит грубую порчу, не компиляцию.
// Исходники — баланс скобок; json/env — строгий разбор; sql — каждая
// инструкция начинается с известного ключевого слова.
func Check(f ir.GeneratedFile) CheckResult {
	var errs []string
	switch f.Language {
	case "typescript", "javascript":
		errs = checkBalanced(f.Content)
	case "json":
		var v any
		if err := json.Unmarshal([]byte(f.Content), &v); err != nil {
			errs = append(errs, fmt.Sprintf("invalid json: %v", err))
		}
	case "env":
		if !envParses(f.Content) {
			errs = append(errs, "invalid env file")
		}
	case "sql":
		errs = checkSQLStatements(f.Content)
	}
	return CheckResult{Valid: len(errs) == 0, Errors: errs}
}

func envParses(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		eq := strings.Index(trimmed, "=")
		if eq <= 0 || strings.ContainsAny(strings.TrimSpace(trimmed[:eq]), " \t") {
			return false
		}
	}
	return true
}

// checkBalanced считает парные скобки вне строковых литералов.
func checkBalanced(content string) []string {
	var errs []string
	counts := map[rune]int{}
	var quote rune
	escaped := false

	for _, r := range content {
		if escaped {
			escaped = false
			continue
		}
		if quote != 0 {
			switch r {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			}
			continue
		}
		switch r {
		case '\'', '"', '`':
			quote = r
		case '{', '(', '[':
			counts[r]++
		case '}':
			counts['{']--
		case ')':
			counts['(']--
		case ']':
			counts['[']--
		}
	}
	pairs := map[rune]string{'{': "braces", '(': "parentheses", '[': "brackets"}
	for open, name := range pairs {
		if counts[open] != 0 {
			errs = append(errs, fmt.Sprintf("unbalanced %s (%+d)", name, counts[open]))
		}
	}
	return errs
}

var sqlStatementPrefixes = []string{
	"CREATE", "ALTER", "DROP", "INSERT", "SELECT", "UPDATE", "DELETE", "--",
}

func checkSQLStatements(content string) []string {
	var errs []string
	for _, stmt := range splitSQL(content) {
		ok := false
		upper := strings.ToUpper(stmt)
		for _, p := range sqlStatementPrefixes {
			if strings.HasPrefix(upper, p) {
				ok = true
				break
			}
		}
		if !ok {
			head := stmt
			if len(head) > 40 {
				head = head[:40] + "..."
			}
			errs = append(errs, fmt.Sprintf("statement does not start with a known keyword: %q", head))
		}
	}
	return errs
}

// splitSQL режет по ';' на верхнем уровне, пропуская кавычки и $$-тела.
func splitSQL(content string) []string {
	var stmts []string
	var cur strings.Builder
	inQuote := false
	inDollar := false

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\'' && !inDollar {
			inQuote = !inQuote
		}
		if r == '$' && i+1 < len(runes) && runes[i+1] == '$' && !inQuote {
			inDollar = !inDollar
			cur.WriteRune(r)
			cur.WriteRune(runes[i+1])
			i++
			continue
		}
		if r == ';' && !inQuote && !inDollar {
			if s := strings.TrimSpace(cur.String()); s != "" {
				stmts = append(stmts, s)
			}
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

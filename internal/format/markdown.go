package format

import "strings"

// formatMarkdown: нормализация пробела после решёток заголовка, пустая
// строка вокруг заголовков, схлопывание 3+ пустых строк до одной.
func formatMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	var out []string

	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		if isHeading(trimmed) {
			hashes := 0
			for hashes < len(trimmed) && trimmed[hashes] == '#' {
				hashes++
			}
			text := strings.TrimSpace(trimmed[hashes:])
			if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
				out = append(out, "")
			}
			out = append(out, strings.Repeat("#", hashes)+" "+text)
			continue
		}
		out = append(out, line)
	}

	// серии пустых строк вне fence схлопываем до одной
	// (эквивалент \n{3,} → \n\n)
	var collapsed []string
	blanks := 0
	inFence = false
	for _, line := range out {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if strings.TrimSpace(line) == "" && !inFence {
			blanks++
			if blanks > 1 {
				continue
			}
			collapsed = append(collapsed, "")
			continue
		}
		blanks = 0
		collapsed = append(collapsed, line)
	}
	return strings.Join(collapsed, "\n")
}

func isHeading(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	return i <= 6 && i < len(line)
}

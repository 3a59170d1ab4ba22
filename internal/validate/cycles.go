package validate

import (
	"fmt"
	"sort"
	"strings"

	"zodchiy/internal/ir"
)

// detectCycles ищет циклы в направленном графе модель→модель.
// Модели — вершины, связи — рёбра. Обход в глубину от каждой вершины,
// множество "на текущем пути" ведём отдельно от глобального visited:
// граница между ними — то самое место, где легко ошибиться.
// Циклы — отдельная категория находок: сознательный цикл легален.
func detectCycles(models []ir.Model) []FieldError {
	adj := make(map[string][]string, len(models))
	exists := make(map[string]struct{}, len(models))
	for _, m := range models {
		exists[m.Name] = struct{}{}
	}
	for _, m := range models {
		for _, rel := range m.Relationships {
			// битые связи — дело реферативных проверок, не циклов
			if _, ok := exists[rel.TargetModel]; !ok {
				continue
			}
			adj[m.Name] = append(adj[m.Name], rel.TargetModel)
		}
	}

	var cycles []FieldError
	reported := map[string]struct{}{}

	for _, start := range models {
		onPath := map[string]struct{}{}
		var path []string

		var dfs func(node string)
		dfs = func(node string) {
			onPath[node] = struct{}{}
			path = append(path, node)
			for _, next := range adj[node] {
				if next == start.Name {
					// путь вернулся в исходную вершину — цикл
					cycle := append(append([]string(nil), path...), start.Name)
					key := canonicalCycle(cycle)
					if _, dup := reported[key]; !dup {
						reported[key] = struct{}{}
						cycles = append(cycles, ferr(CodeCircular, start.Name,
							fmt.Sprintf("Circular reference: %s", strings.Join(cycle, " -> "))))
					}
					continue
				}
				if _, busy := onPath[next]; busy {
					continue
				}
				dfs(next)
			}
			delete(onPath, node)
			path = path[:len(path)-1]
		}
		dfs(start.Name)
	}
	return cycles
}

// canonicalCycle — ключ дедупликации: один и тот же цикл, найденный из разных
// стартовых вершин, схлопывается в одну находку.
func canonicalCycle(cycle []string) string {
	members := append([]string(nil), cycle[:len(cycle)-1]...)
	sort.Strings(members)
	return strings.Join(members, ">")
}

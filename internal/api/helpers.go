package api

import (
	"time"

	"zodchiy/internal/ir"
)

// Сводка проекта для JSON-ответа: содержимое артефактов отдаём целиком,
// это и есть результат генерации.
type fileSummary struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Kind     string `json:"kind"`
	Language string `json:"language"`
}

type projectView struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Options   ir.GenerationOptions `json:"options"`
	Auth      ir.AuthConfig        `json:"auth"`
	Endpoints []ir.Endpoint        `json:"endpoints"`
	Files     []fileSummary        `json:"files"`
	APISpec   string               `json:"apiSpec,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

func projectSummary(p *ir.GeneratedProject) projectView {
	files := make([]fileSummary, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, fileSummary{
			Path:     f.Path,
			Content:  f.Content,
			Kind:     string(f.Kind),
			Language: f.Language,
		})
	}
	return projectView{
		ID:        p.ID,
		Name:      p.Name,
		Options:   p.Options,
		Auth:      p.Auth,
		Endpoints: p.Endpoints,
		Files:     files,
		APISpec:   p.APISpec,
		CreatedAt: p.CreatedAt,
	}
}

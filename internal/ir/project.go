package ir

import "time"

// FileKind — назначение сгенерированного файла.
type FileKind string

const (
	KindSource        FileKind = "source"
	KindConfig        FileKind = "config"
	KindDocumentation FileKind = "documentation"
	KindTest          FileKind = "test"
)

// GeneratedFile — один артефакт. После создания неизменяем.
type GeneratedFile struct {
	Path     string   `json:"path"` // относительный путь внутри проекта
	Content  string   `json:"content"`
	Kind     FileKind `json:"kind"`
	Language string   `json:"language"` // typescript | javascript | json | sql | yaml | markdown | env | dockerfile | text
}

// Endpoint — описание одной HTTP-операции сгенерированного бэкенда
// (для документации, тестов и сводки в SETUP).
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Handler     string `json:"handler"`
	Model       string `json:"model,omitempty"`
	Description string `json:"description,omitempty"`
}

// AuthConfig — развёрнутая конфигурация аутентификации запуска.
type AuthConfig struct {
	Strategy  string `json:"strategy"`
	SecretEnv string `json:"secretEnv,omitempty"` // имя переменной окружения с секретом
	TokenTTL  string `json:"tokenTtl,omitempty"`
}

// GeneratedProject — результат одного вызова генерации.
type GeneratedProject struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Models    []Model           `json:"models"`
	Endpoints []Endpoint        `json:"endpoints"`
	Auth      AuthConfig        `json:"auth"`
	Files     []GeneratedFile   `json:"files"`
	APISpec   string            `json:"apiSpec"` // минимальный OpenAPI-каркас
	Options   GenerationOptions `json:"options"`
	CreatedAt time.Time         `json:"createdAt"`
}

// FileByPath ищет артефакт по относительному пути.
func (p *GeneratedProject) FileByPath(path string) (GeneratedFile, bool) {
	for _, f := range p.Files {
		if f.Path == path {
			return f, true
		}
	}
	return GeneratedFile{}, false
}

// PackageMetadata — метаданные пакета, выводимые из артефактов и опций.
type PackageMetadata struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Features        []string          `json:"features"`
	Options         GenerationOptions `json:"options"`
	Tier            string            `json:"tier"`
}

// ProjectPackage — отфильтрованный и дополненный набор файлов, готовый к
// архивации. Строится один раз на вызов экспорта, далее неизменяем.
type ProjectPackage struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Files      []GeneratedFile `json:"files"`
	Metadata   PackageMetadata `json:"metadata"`
	SetupGuide string          `json:"setupGuide"`
	CreatedAt  time.Time       `json:"createdAt"`
}

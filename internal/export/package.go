package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"zodchiy/internal/ir"
)

// NewPackage собирает пакет из проекта: фильтрует артефакты по опциям,
// добавляет файлы выбранного яруса, метаданные и инструкцию по запуску.
// Исходный проект не изменяется.
func NewPackage(project *ir.GeneratedProject, opts ir.ExportOptions) (*ir.ProjectPackage, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	files := make([]ir.GeneratedFile, 0, len(project.Files))
	for _, f := range project.Files {
		if f.Kind == ir.KindTest && !opts.IncludeTests {
			continue
		}
		if f.Kind == ir.KindDocumentation && !opts.IncludeDocs {
			continue
		}
		files = append(files, f)
	}

	extra, err := tierFiles(project, opts.Template)
	if err != nil {
		return nil, fmt.Errorf("tier files: %w", err)
	}
	files = append(files, extra...)

	meta := buildMetadata(project, opts)

	return &ir.ProjectPackage{
		ID:         project.ID,
		Name:       project.Name,
		Files:      files,
		Metadata:   meta,
		SetupGuide: setupGuide(project, opts),
		CreatedAt:  project.CreatedAt,
	}, nil
}

// buildMetadata читает зависимости из сгенерированного package.json.
// Отсутствие или порча файла — не ошибка: карты остаются пустыми.
func buildMetadata(project *ir.GeneratedProject, opts ir.ExportOptions) ir.PackageMetadata {
	meta := ir.PackageMetadata{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
		Options:         project.Options,
		Tier:            opts.Template,
	}

	if f, ok := project.FileByPath("package.json"); ok {
		var manifest struct {
			Dependencies    map[string]string `json:"dependencies"`
			DevDependencies map[string]string `json:"devDependencies"`
		}
		if err := json.Unmarshal([]byte(f.Content), &manifest); err == nil {
			if manifest.Dependencies != nil {
				meta.Dependencies = manifest.Dependencies
			}
			if manifest.DevDependencies != nil {
				meta.DevDependencies = manifest.DevDependencies
			}
		}
	}

	feats := []string{"rest-api", "crud", project.Options.Database}
	if project.Options.WithAuth() {
		feats = append(feats, "auth-"+project.Options.Auth)
	}
	if project.Options.Tests() && opts.IncludeTests {
		feats = append(feats, "tests")
	}
	if project.Options.Docs() && opts.IncludeDocs {
		feats = append(feats, "openapi")
	}
	sort.Strings(feats)
	meta.Features = feats
	return meta
}

// setupGuide — SETUP.md: шаги запуска, переменные окружения и сводка эндпоинтов.
func setupGuide(project *ir.GeneratedProject, opts ir.ExportOptions) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s — setup\n\n", project.Name)
	sb.WriteString("## Quick start\n\n")
	sb.WriteString("```bash\nnpm install\ncp .env.example .env\n")
	if project.Options.Relational() {
		sb.WriteString("# apply migrations/*.sql to your database in file order\n")
	}
	sb.WriteString("npm run dev\n```\n\n")

	sb.WriteString("## Environment\n\n")
	sb.WriteString("| Variable | Purpose |\n|---|---|\n")
	sb.WriteString("| `PORT` | HTTP port (default 3000) |\n")
	sb.WriteString("| `DATABASE_URL` | database connection string |\n")
	if project.Options.WithAuth() {
		sb.WriteString("| `JWT_SECRET` | token signing secret |\n")
		sb.WriteString("| `JWT_EXPIRES_IN` | token lifetime (default 1h) |\n")
	}
	sb.WriteString("\n## Endpoints\n\n")
	if len(project.Endpoints) == 0 {
		sb.WriteString("No endpoints were generated.\n")
	} else {
		for _, ep := range project.Endpoints {
			fmt.Fprintf(&sb, "- `%s %s` — %s\n", ep.Method, ep.Path, ep.Description)
		}
	}
	if opts.Template != ir.TierBasic {
		sb.WriteString("\n## Tooling\n\n")
		sb.WriteString("- `docker compose up` starts the app with its database\n")
		sb.WriteString("- CI workflow lives in `.github/workflows/ci.yml`\n")
		if opts.Template == ir.TierEnterprise {
			sb.WriteString("- Kubernetes manifests are under `k8s/`, a Helm chart under `helm/`\n")
		}
	}
	return sb.String()
}

// tierFiles — вспомогательные файлы яруса. Ярусы вложены:
// enterprise ⊇ advanced ⊇ basic.
func tierFiles(project *ir.GeneratedProject, tier string) ([]ir.GeneratedFile, error) {
	files := []ir.GeneratedFile{
		{Path: ".gitignore", Content: gitignoreContent, Kind: ir.KindConfig, Language: "text"},
		{Path: "Dockerfile", Content: dockerfile(project.Options), Kind: ir.KindConfig, Language: "dockerfile"},
	}

	compose, err := dockerCompose(project)
	if err != nil {
		return nil, err
	}
	files = append(files, ir.GeneratedFile{Path: "docker-compose.yml", Content: compose, Kind: ir.KindConfig, Language: "yaml"})

	if tier == ir.TierBasic {
		return files, nil
	}

	files = append(files,
		ir.GeneratedFile{Path: ".github/workflows/ci.yml", Content: ciWorkflow(project.Options), Kind: ir.KindConfig, Language: "yaml"},
		ir.GeneratedFile{Path: ".eslintrc.json", Content: eslintConfig(project.Options), Kind: ir.KindConfig, Language: "json"},
		ir.GeneratedFile{Path: ".prettierrc", Content: prettierConfig, Kind: ir.KindConfig, Language: "json"},
	)

	if tier == ir.TierAdvanced {
		return files, nil
	}

	k8sDeploy, err := k8sDeployment(project)
	if err != nil {
		return nil, err
	}
	k8sSvc, err := k8sService(project)
	if err != nil {
		return nil, err
	}
	helmChart, err := helmChartYAML(project)
	if err != nil {
		return nil, err
	}
	helmValues, err := helmValuesYAML(project)
	if err != nil {
		return nil, err
	}
	files = append(files,
		ir.GeneratedFile{Path: "k8s/deployment.yaml", Content: k8sDeploy, Kind: ir.KindConfig, Language: "yaml"},
		ir.GeneratedFile{Path: "k8s/service.yaml", Content: k8sSvc, Kind: ir.KindConfig, Language: "yaml"},
		ir.GeneratedFile{Path: "helm/Chart.yaml", Content: helmChart, Kind: ir.KindConfig, Language: "yaml"},
		ir.GeneratedFile{Path: "helm/values.yaml", Content: helmValues, Kind: ir.KindConfig, Language: "yaml"},
		ir.GeneratedFile{Path: "prometheus.yml", Content: prometheusConfig, Kind: ir.KindConfig, Language: "yaml"},
	)
	return files, nil
}

const gitignoreContent = `node_modules/
dist/
.env
*.log
coverage/
`

const prettierConfig = `{
  "semi": true,
  "singleQuote": true,
  "trailingComma": "es5",
  "printWidth": 100
}
`

const prometheusConfig = `global:
  scrape_interval: 15s
scrape_configs:
  - job_name: app
    static_configs:
      - targets: ["app:3000"]
`

func dockerfile(opts ir.GenerationOptions) string {
	var sb strings.Builder
	sb.WriteString("FROM node:20-alpine\n\nWORKDIR /app\n\nCOPY package*.json ./\nRUN npm ci\n\nCOPY . .\n")
	if opts.TypeScript() {
		sb.WriteString("RUN npm run build\n\nEXPOSE 3000\nCMD [\"node\", \"dist/index.js\"]\n")
	} else {
		sb.WriteString("\nEXPOSE 3000\nCMD [\"node\", \"src/index.js\"]\n")
	}
	return sb.String()
}

// composeService — сервис docker-compose (yaml-теги задают порядок ключей).
type composeService struct {
	Image       string            `yaml:"image,omitempty"`
	Build       string            `yaml:"build,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]any            `yaml:"volumes,omitempty"`
}

func dockerCompose(project *ir.GeneratedProject) (string, error) {
	app := composeService{
		Build: ".",
		Ports: []string{"3000:3000"},
		Environment: map[string]string{
			"PORT": "3000",
		},
	}
	if project.Options.WithAuth() {
		app.Environment["JWT_SECRET"] = "change-me"
	}

	cf := composeFile{Services: map[string]composeService{"app": app}}

	switch project.Options.Database {
	case ir.DatabasePostgres:
		app.Environment["DATABASE_URL"] = "postgres://app:app@db:5432/app"
		app.DependsOn = []string{"db"}
		cf.Services["db"] = composeService{
			Image: "postgres:16-alpine",
			Environment: map[string]string{
				"POSTGRES_USER":     "app",
				"POSTGRES_PASSWORD": "app",
				"POSTGRES_DB":       "app",
			},
			Volumes: []string{"dbdata:/var/lib/postgresql/data"},
		}
		cf.Volumes = map[string]any{"dbdata": nil}
	case ir.DatabaseMySQL:
		app.Environment["DATABASE_URL"] = "mysql://app:app@db:3306/app"
		app.DependsOn = []string{"db"}
		cf.Services["db"] = composeService{
			Image: "mysql:8",
			Environment: map[string]string{
				"MYSQL_USER":          "app",
				"MYSQL_PASSWORD":      "app",
				"MYSQL_DATABASE":      "app",
				"MYSQL_ROOT_PASSWORD": "root",
			},
			Volumes: []string{"dbdata:/var/lib/mysql"},
		}
		cf.Volumes = map[string]any{"dbdata": nil}
	case ir.DatabaseMongo:
		app.Environment["DATABASE_URL"] = "mongodb://db:27017/app"
		app.DependsOn = []string{"db"}
		cf.Services["db"] = composeService{
			Image:   "mongo:7",
			Volumes: []string{"dbdata:/data/db"},
		}
		cf.Volumes = map[string]any{"dbdata": nil}
	}
	cf.Services["app"] = app

	return marshalYAML(cf)
}

func ciWorkflow(opts ir.GenerationOptions) string {
	var sb strings.Builder
	sb.WriteString("name: ci\n\non:\n  push:\n  pull_request:\n\njobs:\n  test:\n    runs-on: ubuntu-latest\n    steps:\n")
	sb.WriteString("      - uses: actions/checkout@v4\n")
	sb.WriteString("      - uses: actions/setup-node@v4\n        with:\n          node-version: 20\n")
	sb.WriteString("      - run: npm ci\n")
	if opts.TypeScript() {
		sb.WriteString("      - run: npm run build\n")
	}
	if opts.Tests() {
		sb.WriteString("      - run: npm test\n")
	}
	return sb.String()
}

func eslintConfig(opts ir.GenerationOptions) string {
	if opts.TypeScript() {
		return `{
  "root": true,
  "parser": "@typescript-eslint/parser",
  "plugins": ["@typescript-eslint"],
  "extends": ["eslint:recommended", "plugin:@typescript-eslint/recommended"],
  "env": { "node": true, "es2022": true }
}
`
	}
	return `{
  "root": true,
  "extends": ["eslint:recommended"],
  "env": { "node": true, "es2022": true },
  "parserOptions": { "ecmaVersion": 2022, "sourceType": "module" }
}
`
}

func k8sDeployment(project *ir.GeneratedProject) (string, error) {
	type envVar struct {
		Name  string `yaml:"name"`
		Value string `yaml:"value"`
	}
	env := []envVar{{Name: "PORT", Value: "3000"}}
	if project.Options.WithAuth() {
		env = append(env, envVar{Name: "JWT_SECRET", Value: "change-me"})
	}
	doc := map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata":   map[string]any{"name": project.Name},
		"spec": map[string]any{
			"replicas": 2,
			"selector": map[string]any{"matchLabels": map[string]any{"app": project.Name}},
			"template": map[string]any{
				"metadata": map[string]any{"labels": map[string]any{"app": project.Name}},
				"spec": map[string]any{
					"containers": []map[string]any{{
						"name":  "app",
						"image": project.Name + ":latest",
						"ports": []map[string]any{{"containerPort": 3000}},
						"env":   env,
					}},
				},
			},
		},
	}
	return marshalYAML(doc)
}

func k8sService(project *ir.GeneratedProject) (string, error) {
	doc := map[string]any{
		"apiVersion": "v1",
		"kind":       "Service",
		"metadata":   map[string]any{"name": project.Name},
		"spec": map[string]any{
			"selector": map[string]any{"app": project.Name},
			"ports":    []map[string]any{{"port": 80, "targetPort": 3000}},
		},
	}
	return marshalYAML(doc)
}

func helmChartYAML(project *ir.GeneratedProject) (string, error) {
	doc := map[string]any{
		"apiVersion":  "v2",
		"name":        project.Name,
		"description": "Generated backend service",
		"type":        "application",
		"version":     "0.1.0",
		"appVersion":  "1.0.0",
	}
	return marshalYAML(doc)
}

func helmValuesYAML(project *ir.GeneratedProject) (string, error) {
	doc := map[string]any{
		"replicaCount": 2,
		"image": map[string]any{
			"repository": project.Name,
			"tag":        "latest",
		},
		"service": map[string]any{
			"port":       80,
			"targetPort": 3000,
		},
	}
	return marshalYAML(doc)
}

func marshalYAML(v any) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

package gen

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"zodchiy/internal/ir"
	"zodchiy/internal/tmpl"
)

// Service — оркестратор генерации. Валидацию не повторяет: на вход ожидает
// уже проверенный набор моделей. Состояния между вызовами не держит, кроме
// генератора идентификаторов.
type Service struct {
	engine  *tmpl.Engine
	entropy io.Reader
}

// New создаёт сервис поверх движка шаблонов.
// Источник энтропии общий на все вызовы Generate и дергается из
// конкурентных HTTP-обработчиков, поэтому — под замком.
func New(engine *tmpl.Engine) *Service {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Service{
		engine:  engine,
		entropy: &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(src, 0)},
	}
}

// Engine отдаёт движок шаблонов (для регистрации пользовательских шаблонов
// на старте процесса).
func (s *Service) Engine() *tmpl.Engine { return s.engine }

func (s *Service) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Generate эмитит полный набор артефактов для валидированного IR.
// Неподдерживаемые значения опций — ошибка до первого артефакта; пустой
// список моделей легален и даёт только каркас и сквозные артефакты.
// Артефакты детерминированы с точностью до идентификатора запуска и
// временной метки в имени проекта.
func (s *Service) Generate(models []ir.Model, opts ir.GenerationOptions) (*ir.GeneratedProject, error) {
	opts = opts.Normalized()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := s.newID()
	name := fmt.Sprintf("generated-backend-%s", now.Format("20060102-150405"))

	var files []ir.GeneratedFile

	// 1) каркас: зависит только от опций
	pkg, err := packageJSON(name, opts)
	if err != nil {
		return nil, err
	}
	files = append(files, pkg)
	if opts.TypeScript() {
		files = append(files, tsconfigFile())
	}
	files = append(files, envExample(opts))
	if opts.Docs() {
		files = append(files, readme(name, opts))
	}

	// 2) попмодельные артефакты: независимы друг от друга, эмитим
	// параллельно; порядок на выходе — порядок моделей на входе
	perModel := make([][]ir.GeneratedFile, len(models))
	var g errgroup.Group
	for i := range models {
		i := i
		g.Go(func() error {
			fs, err := s.modelArtifacts(i, models[i], opts)
			if err != nil {
				return err
			}
			perModel[i] = fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, fs := range perModel {
		files = append(files, fs...)
	}

	// 3) связи — отдельной фазой, после всех таблиц
	if opts.Relational() {
		if f, ok := relationshipsArtifact(models, opts); ok {
			files = append(files, f)
		}
	}

	// 4) аутентификация и сквозные артефакты
	auth := resolveAuth(opts)
	if opts.WithAuth() {
		files = append(files, authMiddlewareArtifact(opts), authRoutesArtifact(opts))
	}
	files = append(files, dbArtifact(opts), loggerMiddleware(opts), errorsMiddleware(opts))
	files = append(files, entryArtifact(models, opts))

	// 5) операции и описание API
	var endpoints []ir.Endpoint
	for _, m := range models {
		endpoints = append(endpoints, modelEndpoints(m)...)
	}
	if opts.WithAuth() {
		endpoints = append(endpoints, authEndpoints()...)
	}
	spec, err := apiSpec(name, endpoints)
	if err != nil {
		return nil, err
	}
	if opts.Docs() {
		files = append(files, ir.GeneratedFile{
			Path:     "openapi.json",
			Content:  spec,
			Kind:     ir.KindDocumentation,
			Language: "json",
		})
	}

	return &ir.GeneratedProject{
		ID:        id,
		Name:      name,
		Models:    models,
		Endpoints: endpoints,
		Auth:      auth,
		Files:     files,
		APISpec:   spec,
		Options:   opts,
		CreatedAt: now,
	}, nil
}

// modelArtifacts — все артефакты одной модели в фиксированном порядке.
func (s *Service) modelArtifacts(idx int, m ir.Model, opts ir.GenerationOptions) ([]ir.GeneratedFile, error) {
	var out []ir.GeneratedFile

	record, err := s.recordArtifact(m, opts)
	if err != nil {
		return nil, err
	}
	out = append(out, record)

	if opts.Relational() {
		schema, err := s.schemaArtifact(idx, m, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, schema)
	}

	repo, err := s.repositoryArtifact(m, opts)
	if err != nil {
		return nil, err
	}
	out = append(out,
		repo,
		serviceArtifact(m, opts),
		controllerArtifact(m, opts),
		validatorArtifact(m, opts),
		routesArtifact(m, opts),
	)

	if opts.Tests() {
		out = append(out, testArtifact(m, opts))
	}
	return out, nil
}

// resolveAuth разворачивает стратегию в конфигурацию запуска.
func resolveAuth(opts ir.GenerationOptions) ir.AuthConfig {
	if !opts.WithAuth() {
		return ir.AuthConfig{Strategy: ir.AuthNone}
	}
	return ir.AuthConfig{
		Strategy:  opts.Auth,
		SecretEnv: "JWT_SECRET",
		TokenTTL:  "1h",
	}
}

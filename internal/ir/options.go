package ir

import (
	"fmt"
	"strings"
)

// Значения опций генерации. Неподдерживаемое значение — ошибка до начала
// эмиссии, частичных результатов не бывает.
const (
	FrameworkExpress = "express"

	DatabasePostgres = "postgresql"
	DatabaseMySQL    = "mysql"
	DatabaseMongo    = "mongodb"

	AuthJWT  = "jwt"
	AuthNone = "none"

	LanguageTypeScript = "typescript"
	LanguageJavaScript = "javascript"
)

var (
	SupportedFrameworks = []string{FrameworkExpress}
	SupportedDatabases  = []string{DatabasePostgres, DatabaseMySQL, DatabaseMongo}
	SupportedAuth       = []string{AuthJWT, AuthNone}
	SupportedLanguages  = []string{LanguageTypeScript, LanguageJavaScript}
)

// GenerationOptions — опции одного запуска генерации. После Normalized()
// структура неизменяема.
type GenerationOptions struct {
	Framework string `json:"framework,omitempty"`
	Database  string `json:"database,omitempty"`
	Auth      string `json:"auth,omitempty"`
	Language  string `json:"language,omitempty"`
	// Указатели отличают пропущенный ключ от явного false: пропуск
	// означает значение по умолчанию (true).
	IncludeTests *bool `json:"includeTests,omitempty"`
	IncludeDocs  *bool `json:"includeDocs,omitempty"`
}

// Bool возвращает указатель на литерал для опциональных булевых опций.
func Bool(v bool) *bool { return &v }

// Tests сообщает, эмитить ли тестовые артефакты. Отсутствие ключа — true.
func (o GenerationOptions) Tests() bool { return o.IncludeTests == nil || *o.IncludeTests }

// Docs сообщает, эмитить ли README и OpenAPI. Отсутствие ключа — true.
func (o GenerationOptions) Docs() bool { return o.IncludeDocs == nil || *o.IncludeDocs }

// DefaultGenerationOptions — значения по умолчанию: express/postgresql/jwt/typescript,
// тесты и документация включены.
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Framework:    FrameworkExpress,
		Database:     DatabasePostgres,
		Auth:         AuthJWT,
		Language:     LanguageTypeScript,
		IncludeTests: Bool(true),
		IncludeDocs:  Bool(true),
	}
}

// Normalized подставляет значения по умолчанию вместо пустых строк и
// незаполненных булевых флагов.
func (o GenerationOptions) Normalized() GenerationOptions {
	def := DefaultGenerationOptions()
	if strings.TrimSpace(o.Framework) == "" {
		o.Framework = def.Framework
	}
	if strings.TrimSpace(o.Database) == "" {
		o.Database = def.Database
	}
	if strings.TrimSpace(o.Auth) == "" {
		o.Auth = def.Auth
	}
	if strings.TrimSpace(o.Language) == "" {
		o.Language = def.Language
	}
	if o.IncludeTests == nil {
		o.IncludeTests = def.IncludeTests
	}
	if o.IncludeDocs == nil {
		o.IncludeDocs = def.IncludeDocs
	}
	return o
}

// Validate проверяет enum-значения. Возвращает описательную ошибку по первому
// неподдерживаемому значению.
func (o GenerationOptions) Validate() error {
	if !contains(SupportedFrameworks, o.Framework) {
		return fmt.Errorf("unsupported framework %q (supported: %s)", o.Framework, strings.Join(SupportedFrameworks, ", "))
	}
	if !contains(SupportedDatabases, o.Database) {
		return fmt.Errorf("unsupported database %q (supported: %s)", o.Database, strings.Join(SupportedDatabases, ", "))
	}
	if !contains(SupportedAuth, o.Auth) {
		return fmt.Errorf("unsupported auth strategy %q (supported: %s)", o.Auth, strings.Join(SupportedAuth, ", "))
	}
	if !contains(SupportedLanguages, o.Language) {
		return fmt.Errorf("unsupported language %q (supported: %s)", o.Language, strings.Join(SupportedLanguages, ", "))
	}
	return nil
}

// Relational — реляционная ли выбранная БД (для mongodb SQL-схема не эмитится).
func (o GenerationOptions) Relational() bool {
	return o.Database == DatabasePostgres || o.Database == DatabaseMySQL
}

// TypeScript — генерируем ли типизированный исходник.
func (o GenerationOptions) TypeScript() bool {
	return o.Language == LanguageTypeScript
}

// WithAuth — включена ли не-дефолтная стратегия аутентификации.
func (o GenerationOptions) WithAuth() bool {
	return o.Auth != AuthNone
}

// Форматы и ярусы экспорта.
const (
	FormatZip = "zip"
	FormatTar = "tar"

	TierBasic      = "basic"
	TierAdvanced   = "advanced"
	TierEnterprise = "enterprise"
)

var (
	SupportedFormats = []string{FormatZip, FormatTar}
	SupportedTiers   = []string{TierBasic, TierAdvanced, TierEnterprise}
)

// ExportOptions — опции упаковки. Отсутствующие в JSON ключи сохраняют
// значения из DefaultExportOptions (bind поверх дефолтов).
type ExportOptions struct {
	Format       string `json:"format"`
	IncludeTests bool   `json:"includeTests"`
	IncludeDocs  bool   `json:"includeDocumentation"`
	Template     string `json:"template"` // basic | advanced | enterprise
}

// DefaultExportOptions — zip/true/true/basic.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:       FormatZip,
		IncludeTests: true,
		IncludeDocs:  true,
		Template:     TierBasic,
	}
}

// Validate проверяет формат и ярус.
func (o ExportOptions) Validate() error {
	if !contains(SupportedFormats, o.Format) {
		return fmt.Errorf("unsupported archive format %q (supported: %s)", o.Format, strings.Join(SupportedFormats, ", "))
	}
	if !contains(SupportedTiers, o.Template) {
		return fmt.Errorf("unsupported template tier %q (supported: %s)", o.Template, strings.Join(SupportedTiers, ", "))
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

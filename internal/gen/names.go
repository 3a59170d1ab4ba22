package gen

import (
	"strings"

	"github.com/go-openapi/inflect"

	"zodchiy/internal/ir"
)

// Ключевые слова SQL, которые нельзя пускать в имена таблиц как есть.
var reserved = map[string]struct{}{
	"user": {}, "select": {}, "table": {}, "insert": {}, "update": {}, "delete": {},
	"where": {}, "join": {}, "group": {}, "order": {}, "limit": {}, "offset": {},
	"primary": {}, "foreign": {}, "key": {}, "constraint": {}, "default": {},
	"from": {}, "into": {}, "values": {}, "unique": {}, "index": {}, "create": {},
	"drop": {}, "alter": {}, "schema": {}, "grant": {}, "revoke": {},
}

func isReserved(s string) bool { _, ok := reserved[strings.ToLower(s)]; return ok }

// tableName — snake_case множественное число, с учётом переопределения в
// модели и защитой от ключевых слов.
func tableName(m ir.Model) string {
	if t := strings.TrimSpace(m.TableName); t != "" {
		return strings.ToLower(t)
	}
	t := inflect.Pluralize(inflect.Underscore(m.Name))
	if isReserved(t) {
		t = "t_" + t
	}
	return t
}

// columnName — snake_case имя колонки.
func columnName(field string) string {
	return inflect.Underscore(field)
}

// routeBase — сегмент пути REST-ресурса: /api/<routeBase>.
func routeBase(m ir.Model) string {
	return strings.ToLower(inflect.Pluralize(inflect.Underscore(m.Name)))
}

// varName — camelCase-идентификатор для переменных в сгенерированном коде.
func varName(m ir.Model) string {
	return inflect.CamelizeDownFirst(inflect.Underscore(m.Name))
}

// fileBase — базовое имя файла артефакта модели (user, orderItem → order-item).
func fileBase(m ir.Model) string {
	return strings.ToLower(inflect.Dasherize(inflect.Underscore(m.Name)))
}

// fkColumn — имя FK-колонки, ссылающейся на модель: user_id.
func fkColumn(modelName string) string {
	return inflect.Underscore(modelName) + "_id"
}

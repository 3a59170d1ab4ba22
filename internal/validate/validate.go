package validate

import (
	"fmt"
	"regexp"
	"strings"

	"zodchiy/internal/ir"
)

// FieldError — одна находка валидации в формате {field, message, code},
// который HTTP-слой отдаёт клиенту как есть.
type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Коды ошибок и предупреждений, которыми будем пользоваться
const (
	ErrModelName      = "model_name_invalid"
	ErrDuplicateModel = "duplicate_model"
	ErrFieldName      = "field_name_invalid"
	ErrDuplicateField = "duplicate_field"
	ErrUnknownType    = "unknown_field_type"
	ErrUnknownRule    = "unknown_validation_rule"
	ErrRelType        = "relationship_type_invalid"
	ErrRelTarget      = "relationship_target_missing"
	ErrRelField       = "relationship_field_missing"

	WarnModelCase    = "model_not_pascal_case"
	WarnFieldCase    = "field_not_camel_case"
	WarnNoFields     = "model_without_fields"
	WarnNoIdentifier = "model_without_identifier"

	CodeCircular = "circular_reference"
)

// Result — агрегированный результат: все правила прогоняются до конца,
// без short-circuit. Циклы не входят в Errors и не влияют на Valid.
type Result struct {
	Valid    bool         `json:"isValid"`
	Errors   []FieldError `json:"errors"`
	Warnings []FieldError `json:"warnings"`
	Cycles   []FieldError `json:"cycles"`
}

var (
	pascalRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	camelRe  = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
	ruleRe   = map[string]struct{}{
		"min": {}, "max": {}, "minLength": {}, "maxLength": {}, "pattern": {},
	}
)

// Validate прогоняет все проверки над набором моделей.
// Генерация не должна запускаться при Valid=false; предупреждения и циклы
// генерацию не блокируют.
func Validate(models []ir.Model) Result {
	var errs, warns []FieldError

	// 1) уникальность имён моделей (регистронезависимо)
	seenModels := map[string]string{}
	for _, m := range models {
		key := strings.ToLower(m.Name)
		if prev, ok := seenModels[key]; ok {
			errs = append(errs, ferr(ErrDuplicateModel, m.Name,
				fmt.Sprintf("Model name '%s' duplicates '%s' (names are case-insensitive)", m.Name, prev)))
			continue
		}
		seenModels[key] = m.Name
	}

	for _, m := range models {
		// 2) структурная корректность модели
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, ferr(ErrModelName, "name", "Model name must not be empty"))
		} else if !pascalRe.MatchString(m.Name) {
			// не блокируем: имя может быть валидным идентификатором не в PascalCase
			warns = append(warns, ferr(WarnModelCase, m.Name,
				fmt.Sprintf("Model name '%s' should be PascalCase", m.Name)))
		}

		if len(m.Fields) == 0 {
			warns = append(warns, ferr(WarnNoFields, m.Name,
				fmt.Sprintf("Model '%s' has no fields", m.Name)))
		}

		// 3) поля: уникальность, типы, конвенции
		seenFields := map[string]struct{}{}
		hasIdentifier := false
		for _, f := range m.Fields {
			loc := m.Name + "." + f.Name
			if strings.TrimSpace(f.Name) == "" {
				errs = append(errs, ferr(ErrFieldName, m.Name, "Field name must not be empty"))
				continue
			}
			if _, dup := seenFields[f.Name]; dup {
				errs = append(errs, ferr(ErrDuplicateField, loc,
					fmt.Sprintf("Field '%s' is declared more than once in model '%s'", f.Name, m.Name)))
			}
			seenFields[f.Name] = struct{}{}

			if !f.Type.Known() {
				errs = append(errs, ferr(ErrUnknownType, loc,
					fmt.Sprintf("Unknown field type '%s'", f.Type)))
			}
			if !camelRe.MatchString(f.Name) {
				warns = append(warns, ferr(WarnFieldCase, loc,
					fmt.Sprintf("Field name '%s' should be camelCase", f.Name)))
			}
			for _, r := range f.Validations {
				if _, ok := ruleRe[r.Type]; !ok {
					errs = append(errs, ferr(ErrUnknownRule, loc,
						fmt.Sprintf("Unknown validation rule '%s'", r.Type)))
				}
			}
			if f.Name == "id" || f.Type == ir.TypeUUID || f.Unique {
				hasIdentifier = true
			}
		}
		if len(m.Fields) > 0 && !hasIdentifier {
			warns = append(warns, ferr(WarnNoIdentifier, m.Name,
				fmt.Sprintf("Model '%s' has no id, uuid or unique field", m.Name)))
		}

		// 4) связи: существование концов, с индексом связи в контексте
		for i, rel := range m.Relationships {
			loc := fmt.Sprintf("%s.relationships[%d]", m.Name, i)
			if !rel.Type.Known() {
				errs = append(errs, ferr(ErrRelType, loc,
					fmt.Sprintf("Unknown relationship type '%s'", rel.Type)))
			}
			target, ok := ir.ModelByName(models, rel.TargetModel)
			if !ok {
				errs = append(errs, ferr(ErrRelTarget, loc,
					fmt.Sprintf("Relationship target model '%s' does not exist", rel.TargetModel)))
				continue
			}
			// пустое поле трактуем как id — проверяем только явно заданные
			if rel.SourceField != "" {
				if _, ok := m.FieldByName(rel.SourceField); !ok {
					errs = append(errs, ferr(ErrRelField, loc,
						fmt.Sprintf("Source field '%s' does not exist on model '%s'", rel.SourceField, m.Name)))
				}
			}
			if rel.TargetField != "" {
				if _, ok := target.FieldByName(rel.TargetField); !ok {
					errs = append(errs, ferr(ErrRelField, loc,
						fmt.Sprintf("Target field '%s' does not exist on model '%s'", rel.TargetField, rel.TargetModel)))
				}
			}
		}
	}

	cycles := detectCycles(models)

	return Result{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
		Cycles:   cycles,
	}
}

func ferr(code, field, msg string) FieldError {
	return FieldError{Code: code, Field: field, Message: msg}
}

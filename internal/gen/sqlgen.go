package gen

import (
	"fmt"
	"strings"

	"zodchiy/internal/ir"
	"zodchiy/internal/tmpl"
)

// Реляционная схема собирается в две фазы: сначала таблицы (по одному
// артефакту на модель), потом общий артефакт с FK и join-таблицами — чтобы
// порядок применения миграций не зависел от порядка объявления моделей.

func (s *Service) schemaArtifact(idx int, m ir.Model, opts ir.GenerationOptions) (ir.GeneratedFile, error) {
	table := tableName(m)

	idDefault := "DEFAULT gen_random_uuid()"
	if opts.Database == ir.DatabaseMySQL {
		idDefault = "DEFAULT (UUID())"
	}

	var columns []map[string]any
	add := func(line string) { columns = append(columns, map[string]any{"line": line}) }

	add(fmt.Sprintf("id %s PRIMARY KEY %s,", mustColumn(opts.Database, ir.TypeUUID), idDefault))

	for _, f := range m.Fields {
		col, err := columnType(opts.Database, f.Type)
		if err != nil {
			return ir.GeneratedFile{}, fmt.Errorf("model %s, field %s: %w", m.Name, f.Name, err)
		}
		parts := []string{columnName(f.Name), col}
		if f.Required {
			parts = append(parts, "NOT NULL")
		}
		if f.Unique {
			parts = append(parts, "UNIQUE")
		}
		if f.Default != "" {
			parts = append(parts, "DEFAULT "+sqlLiteral(f))
		}
		add(strings.Join(parts, " ") + ",")
	}

	if m.SoftDelete {
		add("deleted_at " + mustColumn(opts.Database, ir.TypeDate) + ",")
	}

	// created_at/updated_at ведутся всегда: флаг Timestamps в IR носит
	// рекомендательный характер для редактора, записи бэкенда метки имеют.
	ts := mustColumn(opts.Database, ir.TypeDate)
	add(fmt.Sprintf("created_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP,", ts))
	if opts.Database == ir.DatabaseMySQL {
		// у MySQL триггер не нужен: колонка обновляется сама
		add(fmt.Sprintf("updated_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP", ts))
	} else {
		add(fmt.Sprintf("updated_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP", ts))
	}

	// отдельные индексы по unique-полям, как подстраховка для поиска
	var indexes []map[string]any
	for _, f := range m.Fields {
		if f.Unique {
			indexes = append(indexes, map[string]any{
				"line": fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s_%s_uq ON %s(%s);",
					table, columnName(f.Name), table, columnName(f.Name)),
			})
		}
	}

	ctx := map[string]any{
		"modelName": m.Name,
		"tableName": table,
		"columns":   columns,
		"indexes":   indexes,
		"trigger":   opts.Database == ir.DatabasePostgres,
	}
	content, err := s.engine.Render(tmpl.TemplateSchema, ctx)
	if err != nil {
		return ir.GeneratedFile{}, err
	}
	return ir.GeneratedFile{
		Path:     fmt.Sprintf("migrations/%03d_create_%s.sql", idx+1, table),
		Content:  content,
		Kind:     ir.KindSource,
		Language: "sql",
	}, nil
}

// relationshipsArtifact — фаза B: все FK и join-таблицы одним файлом после
// создания всех таблиц.
func relationshipsArtifact(models []ir.Model, opts ir.GenerationOptions) (ir.GeneratedFile, bool) {
	var sb strings.Builder
	uuidCol := mustColumn(opts.Database, ir.TypeUUID)

	for _, m := range models {
		for _, rel := range m.Relationships {
			target, ok := ir.ModelByName(models, rel.TargetModel)
			if !ok {
				continue // битые связи отрезаны валидатором до нас
			}
			srcTable := tableName(m)
			tgtTable := tableName(*target)
			onDelete := "RESTRICT"
			if rel.CascadeDelete {
				onDelete = "CASCADE"
			}

			switch rel.Type {
			case ir.OneToOne:
				col := fkColumn(m.Name)
				fmt.Fprintf(&sb, "ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s UNIQUE;\n", tgtTable, col, uuidCol)
				fmt.Fprintf(&sb, "ALTER TABLE %s ADD CONSTRAINT %s_%s_fk FOREIGN KEY (%s) REFERENCES %s(id) ON DELETE %s;\n\n",
					tgtTable, tgtTable, col, col, srcTable, onDelete)
			case ir.OneToMany:
				col := fkColumn(m.Name)
				fmt.Fprintf(&sb, "ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s;\n", tgtTable, col, uuidCol)
				fmt.Fprintf(&sb, "ALTER TABLE %s ADD CONSTRAINT %s_%s_fk FOREIGN KEY (%s) REFERENCES %s(id) ON DELETE %s;\n\n",
					tgtTable, tgtTable, col, col, srcTable, onDelete)
			case ir.ManyToMany:
				join := srcTable + "_" + tgtTable
				srcCol := fkColumn(m.Name)
				tgtCol := fkColumn(target.Name)
				fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n", join)
				fmt.Fprintf(&sb, "  %s %s NOT NULL REFERENCES %s(id) ON DELETE %s,\n", srcCol, uuidCol, srcTable, onDelete)
				fmt.Fprintf(&sb, "  %s %s NOT NULL REFERENCES %s(id) ON DELETE %s,\n", tgtCol, uuidCol, tgtTable, onDelete)
				fmt.Fprintf(&sb, "  PRIMARY KEY (%s, %s)\n);\n\n", srcCol, tgtCol)
			}
		}
	}

	if sb.Len() == 0 {
		return ir.GeneratedFile{}, false
	}
	return ir.GeneratedFile{
		Path:     "migrations/900_relationships.sql",
		Content:  "-- Cross-model constraints, applied after all tables exist.\n\n" + sb.String(),
		Kind:     ir.KindSource,
		Language: "sql",
	}, true
}

// sqlLiteral оборачивает default-значение по типу поля.
func sqlLiteral(f ir.Field) string {
	switch f.Type {
	case ir.TypeNumber, ir.TypeInteger, ir.TypeFloat, ir.TypeDecimal, ir.TypeBoolean:
		return f.Default
	default:
		return "'" + strings.ReplaceAll(f.Default, "'", "''") + "'"
	}
}

// mustColumn — как columnType, но для системных колонок, где отсутствие
// маппинга означает баг таблиц, а не пользовательскую ошибку.
func mustColumn(db string, t ir.FieldType) string {
	col, err := columnType(db, t)
	if err != nil {
		panic(err)
	}
	return col
}

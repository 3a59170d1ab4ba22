package tmpl

// Имена встроенных шаблонов первичных артефактов. Вызывающие могут
// перерегистрировать их в рантайме поверх библиотеки.
const (
	TemplateRecord     = "record"     // интерфейсы записи (full/create/update)
	TemplateRepository = "repository" // слой доступа к данным
	TemplateSchema     = "schema"     // реляционная схема таблицы
)

// Контексты собирает генератор: списки полей приходят уже с готовыми
// целевыми типами и строками запросов, шаблон только раскладывает их по месту.
var library = map[string]string{
	TemplateRecord: `export interface {{modelName}} {
  id: string;
{{#each fields}}  {{name}}{{#if optional}}?{{/if}}: {{tsType}};
{{/each}}{{#if timestamps}}  createdAt: Date;
  updatedAt: Date;
{{/if}}}

export interface Create{{modelName}}Input {
{{#each fields}}  {{name}}{{#if optional}}?{{/if}}: {{tsType}};
{{/each}}}

export interface Update{{modelName}}Input {
{{#each fields}}  {{name}}?: {{tsType}};
{{/each}}}
`,

	TemplateRepository: `{{#if typescript}}import { pool } from '../db';
import { {{modelName}}, Create{{modelName}}Input, Update{{modelName}}Input } from '../models/{{fileBase}}';

{{/if}}{{#if javascript}}const { pool } = require('../db');

{{/if}}{{exportPrefix}}const {{varName}}Repository = {
  async findAll() {
    const result = await pool.query('{{listQuery}}');
    return result.rows;
  },

  async findById(id{{idAnnotation}}) {
    const result = await pool.query('{{getQuery}}', [id]);
    return result.rows[0] ?? null;
  },

  async create(input{{createAnnotation}}) {
    const result = await pool.query(
      '{{insertQuery}}',
      [{{insertParams}}]
    );
    return result.rows[0];
  },

  async update(id{{idAnnotation}}, input{{updateAnnotation}}) {
    const result = await pool.query(
      '{{updateQuery}}',
      [{{updateParams}}]
    );
    return result.rows[0] ?? null;
  },

  async remove(id{{idAnnotation}}) {
    const result = await pool.query('{{deleteQuery}}', [id]);
    return result.rowCount > 0;
  },
};
{{#if javascript}}
module.exports = { {{varName}}Repository };
{{/if}}`,

	TemplateSchema: `-- {{modelName}}
CREATE TABLE IF NOT EXISTS {{tableName}} (
{{#each columns}}  {{line}}
{{/each}});

{{#each indexes}}{{line}}
{{/each}}{{#if trigger}}
CREATE OR REPLACE FUNCTION set_{{tableName}}_updated_at() RETURNS TRIGGER AS $$
BEGIN
  NEW.updated_at = NOW();
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS {{tableName}}_updated_at ON {{tableName}};
CREATE TRIGGER {{tableName}}_updated_at
  BEFORE UPDATE ON {{tableName}}
  FOR EACH ROW EXECUTE FUNCTION set_{{tableName}}_updated_at();
{{/if}}`,
}

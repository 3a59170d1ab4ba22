package gen

import (
	"fmt"
	"strings"

	"zodchiy/internal/ir"
	"zodchiy/internal/tmpl"
)

// Слой доступа к данным. PostgreSQL идёт через библиотечный шаблон,
// MySQL и MongoDB — прямой сборкой: форма результата драйверов слишком
// разная, чтобы тянуть её через один шаблон.

func (s *Service) repositoryArtifact(m ir.Model, opts ir.GenerationOptions) (ir.GeneratedFile, error) {
	switch opts.Database {
	case ir.DatabasePostgres:
		return s.pgRepository(m, opts)
	case ir.DatabaseMySQL:
		return mysqlRepository(m, opts), nil
	case ir.DatabaseMongo:
		return mongoRepository(m, opts), nil
	}
	return ir.GeneratedFile{}, fmt.Errorf("no repository emitter for database %q", opts.Database)
}

func (s *Service) pgRepository(m ir.Model, opts ir.GenerationOptions) (ir.GeneratedFile, error) {
	table := tableName(m)

	cols := make([]string, 0, len(m.Fields))
	inputs := make([]string, 0, len(m.Fields))
	placeholders := make([]string, 0, len(m.Fields))
	setParts := make([]string, 0, len(m.Fields))
	updateParams := []string{"id"}
	for i, f := range m.Fields {
		cols = append(cols, columnName(f.Name))
		inputs = append(inputs, "input."+f.Name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		setParts = append(setParts, fmt.Sprintf("%s = COALESCE($%d, %s)", columnName(f.Name), i+2, columnName(f.Name)))
		updateParams = append(updateParams, fmt.Sprintf("input.%s ?? null", f.Name))
	}
	setParts = append(setParts, "updated_at = NOW()")

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if len(m.Fields) == 0 {
		insertQuery = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING *", table)
	}

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table)
	listQuery := fmt.Sprintf("SELECT * FROM %s ORDER BY created_at DESC", table)
	getQuery := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", table)
	if m.SoftDelete {
		deleteQuery = fmt.Sprintf("UPDATE %s SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", table)
		listQuery = fmt.Sprintf("SELECT * FROM %s WHERE deleted_at IS NULL ORDER BY created_at DESC", table)
		getQuery = fmt.Sprintf("SELECT * FROM %s WHERE id = $1 AND deleted_at IS NULL", table)
	}

	idAnn, createAnn, updateAnn := "", "", ""
	if opts.TypeScript() {
		idAnn = ": string"
		createAnn = ": Create" + m.Name + "Input"
		updateAnn = ": Update" + m.Name + "Input"
	}

	ctx := map[string]any{
		"modelName":        m.Name,
		"varName":          varName(m),
		"fileBase":         fileBase(m),
		"typescript":       opts.TypeScript(),
		"javascript":       !opts.TypeScript(),
		"exportPrefix":     exportPrefix(opts),
		"listQuery":        listQuery,
		"getQuery":         getQuery,
		"insertQuery":      insertQuery,
		"insertParams":     strings.Join(inputs, ", "),
		"updateQuery":      fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING *", table, strings.Join(setParts, ", ")),
		"updateParams":     strings.Join(updateParams, ", "),
		"deleteQuery":      deleteQuery,
		"idAnnotation":     idAnn,
		"createAnnotation": createAnn,
		"updateAnnotation": updateAnn,
	}
	content, err := s.engine.Render(tmpl.TemplateRepository, ctx)
	if err != nil {
		return ir.GeneratedFile{}, err
	}
	return ir.GeneratedFile{
		Path:     "src/repositories/" + fileBase(m) + "." + srcExt(opts),
		Content:  content,
		Kind:     ir.KindSource,
		Language: opts.Language,
	}, nil
}

func mysqlRepository(m ir.Model, opts ir.GenerationOptions) ir.GeneratedFile {
	table := tableName(m)
	v := varName(m)
	var sb strings.Builder

	cols := make([]string, 0, len(m.Fields))
	inputs := make([]string, 0, len(m.Fields))
	marks := make([]string, 0, len(m.Fields))
	setParts := make([]string, 0, len(m.Fields))
	updateParams := make([]string, 0, len(m.Fields)+1)
	for _, f := range m.Fields {
		cols = append(cols, columnName(f.Name))
		inputs = append(inputs, "input."+f.Name)
		marks = append(marks, "?")
		setParts = append(setParts, fmt.Sprintf("%s = COALESCE(?, %s)", columnName(f.Name), columnName(f.Name)))
		updateParams = append(updateParams, fmt.Sprintf("input.%s ?? null", f.Name))
	}
	updateParams = append(updateParams, "id")

	idAnn := ""
	if opts.TypeScript() {
		idAnn = ": string"
		fmt.Fprintf(&sb, "import { pool } from '../db';\n")
		fmt.Fprintf(&sb, "import { %s, Create%sInput, Update%sInput } from '../models/%s';\n\n", m.Name, m.Name, m.Name, fileBase(m))
	} else {
		sb.WriteString("const { pool } = require('../db');\n\n")
	}

	createAnn, updateAnn := "", ""
	if opts.TypeScript() {
		createAnn = ": Create" + m.Name + "Input"
		updateAnn = ": Update" + m.Name + "Input"
	}

	fmt.Fprintf(&sb, "%sconst %sRepository = {\n", exportPrefix(opts), v)
	fmt.Fprintf(&sb, "  async findAll() {\n")
	fmt.Fprintf(&sb, "    const [rows] = await pool.query('SELECT * FROM %s ORDER BY created_at DESC');\n", table)
	fmt.Fprintf(&sb, "    return rows;\n  },\n\n")
	fmt.Fprintf(&sb, "  async findById(id%s) {\n", idAnn)
	fmt.Fprintf(&sb, "    const [rows] = await pool.query('SELECT * FROM %s WHERE id = ?', [id]);\n", table)
	fmt.Fprintf(&sb, "    return rows[0] ?? null;\n  },\n\n")
	fmt.Fprintf(&sb, "  async create(input%s) {\n", createAnn)
	if len(m.Fields) > 0 {
		fmt.Fprintf(&sb, "    const id = crypto.randomUUID();\n")
		fmt.Fprintf(&sb, "    await pool.query(\n      'INSERT INTO %s (id, %s) VALUES (?, %s)',\n      [id, %s]\n    );\n",
			table, strings.Join(cols, ", "), strings.Join(marks, ", "), strings.Join(inputs, ", "))
	} else {
		fmt.Fprintf(&sb, "    const id = crypto.randomUUID();\n")
		fmt.Fprintf(&sb, "    await pool.query('INSERT INTO %s (id) VALUES (?)', [id]);\n", table)
	}
	fmt.Fprintf(&sb, "    return this.findById(id);\n  },\n\n")
	fmt.Fprintf(&sb, "  async update(id%s, input%s) {\n", idAnn, updateAnn)
	if len(m.Fields) > 0 {
		fmt.Fprintf(&sb, "    await pool.query(\n      'UPDATE %s SET %s WHERE id = ?',\n      [%s]\n    );\n",
			table, strings.Join(setParts, ", "), strings.Join(updateParams, ", "))
	}
	fmt.Fprintf(&sb, "    return this.findById(id);\n  },\n\n")
	fmt.Fprintf(&sb, "  async remove(id%s) {\n", idAnn)
	fmt.Fprintf(&sb, "    const [result] = await pool.query('DELETE FROM %s WHERE id = ?', [id]);\n", table)
	fmt.Fprintf(&sb, "    return result.affectedRows > 0;\n  },\n};\n")
	if !opts.TypeScript() {
		fmt.Fprintf(&sb, "\nmodule.exports = { %sRepository };\n", v)
	}

	return ir.GeneratedFile{
		Path:     "src/repositories/" + fileBase(m) + "." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

func mongoRepository(m ir.Model, opts ir.GenerationOptions) ir.GeneratedFile {
	coll := tableName(m)
	v := varName(m)
	var sb strings.Builder

	idAnn, createAnn, updateAnn := "", "", ""
	if opts.TypeScript() {
		idAnn = ": string"
		createAnn = ": Create" + m.Name + "Input"
		updateAnn = ": Update" + m.Name + "Input"
		fmt.Fprintf(&sb, "import { ObjectId } from 'mongodb';\n")
		fmt.Fprintf(&sb, "import { db } from '../db';\n")
		fmt.Fprintf(&sb, "import { Create%sInput, Update%sInput } from '../models/%s';\n\n", m.Name, m.Name, fileBase(m))
	} else {
		sb.WriteString("const { ObjectId } = require('mongodb');\n")
		sb.WriteString("const { db } = require('../db');\n\n")
	}

	fmt.Fprintf(&sb, "const collection = () => db().collection('%s');\n\n", coll)
	fmt.Fprintf(&sb, "%sconst %sRepository = {\n", exportPrefix(opts), v)
	fmt.Fprintf(&sb, "  async findAll() {\n    return collection().find().sort({ createdAt: -1 }).toArray();\n  },\n\n")
	fmt.Fprintf(&sb, "  async findById(id%s) {\n    return collection().findOne({ _id: new ObjectId(id) });\n  },\n\n", idAnn)
	fmt.Fprintf(&sb, "  async create(input%s) {\n", createAnn)
	fmt.Fprintf(&sb, "    const doc = { ...input, createdAt: new Date(), updatedAt: new Date() };\n")
	fmt.Fprintf(&sb, "    const result = await collection().insertOne(doc);\n")
	fmt.Fprintf(&sb, "    return { _id: result.insertedId, ...doc };\n  },\n\n")
	fmt.Fprintf(&sb, "  async update(id%s, input%s) {\n", idAnn, updateAnn)
	fmt.Fprintf(&sb, "    const result = await collection().findOneAndUpdate(\n")
	fmt.Fprintf(&sb, "      { _id: new ObjectId(id) },\n")
	fmt.Fprintf(&sb, "      { $set: { ...input, updatedAt: new Date() } },\n")
	fmt.Fprintf(&sb, "      { returnDocument: 'after' }\n    );\n")
	fmt.Fprintf(&sb, "    return result ?? null;\n  },\n\n")
	fmt.Fprintf(&sb, "  async remove(id%s) {\n", idAnn)
	fmt.Fprintf(&sb, "    const result = await collection().deleteOne({ _id: new ObjectId(id) });\n")
	fmt.Fprintf(&sb, "    return result.deletedCount > 0;\n  },\n};\n")
	if !opts.TypeScript() {
		fmt.Fprintf(&sb, "\nmodule.exports = { %sRepository };\n", v)
	}

	return ir.GeneratedFile{
		Path:     "src/repositories/" + fileBase(m) + "." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

// exportPrefix: ES-модули для TS, CommonJS (module.exports в конце файла) для JS.
func exportPrefix(opts ir.GenerationOptions) string {
	if opts.TypeScript() {
		return "export "
	}
	return ""
}

// srcExt — расширение исходников по целевому языку.
func srcExt(opts ir.GenerationOptions) string {
	if opts.TypeScript() {
		return "ts"
	}
	return "js"
}

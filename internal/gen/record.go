package gen

import (
	"fmt"
	"strings"

	"zodchiy/internal/ir"
	"zodchiy/internal/tmpl"
)

// recordArtifact — определение записи: полная форма, create-вход без
// идентификатора, update-вход со всеми полями опционально.
func (s *Service) recordArtifact(m ir.Model, opts ir.GenerationOptions) (ir.GeneratedFile, error) {
	if !opts.TypeScript() {
		return jsRecordArtifact(m), nil
	}

	fields := make([]map[string]any, 0, len(m.Fields))
	for _, f := range m.Fields {
		fields = append(fields, map[string]any{
			"name":     f.Name,
			"tsType":   tsType(f.Type),
			"optional": !f.Required,
		})
	}
	content, err := s.engine.Render(tmpl.TemplateRecord, map[string]any{
		"modelName":  m.Name,
		"fields":     fields,
		"timestamps": true,
	})
	if err != nil {
		return ir.GeneratedFile{}, err
	}
	return ir.GeneratedFile{
		Path:     "src/models/" + fileBase(m) + ".ts",
		Content:  content,
		Kind:     ir.KindSource,
		Language: "typescript",
	}, nil
}

// jsRecordArtifact — JS-вариант: интерфейсов нет, форма записи фиксируется
// JSDoc-типами.
func jsRecordArtifact(m ir.Model) ir.GeneratedFile {
	var sb strings.Builder
	writeTypedef := func(name string, optionalAll, withSystem bool) {
		sb.WriteString("/**\n")
		fmt.Fprintf(&sb, " * @typedef {Object} %s\n", name)
		if withSystem {
			sb.WriteString(" * @property {string} id\n")
		}
		for _, f := range m.Fields {
			prop := f.Name
			if optionalAll || !f.Required {
				prop = "[" + prop + "]"
			}
			fmt.Fprintf(&sb, " * @property {%s} %s\n", jsDocType(f.Type), prop)
		}
		if withSystem {
			sb.WriteString(" * @property {Date} createdAt\n")
			sb.WriteString(" * @property {Date} updatedAt\n")
		}
		sb.WriteString(" */\n\n")
	}
	writeTypedef(m.Name, false, true)
	writeTypedef("Create"+m.Name+"Input", false, false)
	writeTypedef("Update"+m.Name+"Input", true, false)
	sb.WriteString("module.exports = {};\n")

	return ir.GeneratedFile{
		Path:     "src/models/" + fileBase(m) + ".js",
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: "javascript",
	}
}

func jsDocType(t ir.FieldType) string {
	switch t {
	case ir.TypeJSON:
		return "Object"
	case ir.TypeDate:
		return "Date"
	default:
		switch tsType(t) {
		case "number":
			return "number"
		case "boolean":
			return "boolean"
		default:
			return "string"
		}
	}
}

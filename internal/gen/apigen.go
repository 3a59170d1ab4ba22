package gen

import (
	"fmt"
	"strings"

	"zodchiy/internal/ir"
)

// HTTP-слой сгенерированного проекта: controller → service → repository,
// плюс маршруты и валидаторы. Всё — прямой сборкой, по одному файлу на модель.

func controllerArtifact(m ir.Model, opts ir.GenerationOptions) ir.GeneratedFile {
	v := varName(m)
	ts := opts.TypeScript()
	reqRes := "(req, res)"
	if ts {
		reqRes = "(req: Request, res: Response)"
	}

	var sb strings.Builder
	if ts {
		sb.WriteString("import { Request, Response } from 'express';\n")
		fmt.Fprintf(&sb, "import { %sService } from '../services/%s';\n\n", v, fileBase(m))
	} else {
		fmt.Fprintf(&sb, "const { %sService } = require('../services/%s');\n\n", v, fileBase(m))
	}

	fmt.Fprintf(&sb, "%sconst %sController = {\n", exportPrefix(opts), v)

	fmt.Fprintf(&sb, "  async list%s {\n", reqRes)
	fmt.Fprintf(&sb, "    const items = await %sService.list();\n", v)
	sb.WriteString("    res.json(items);\n  },\n\n")

	fmt.Fprintf(&sb, "  async get%s {\n", reqRes)
	fmt.Fprintf(&sb, "    const item = await %sService.get(req.params.id);\n", v)
	fmt.Fprintf(&sb, "    if (!item) {\n      res.status(404).json({ error: '%s not found' });\n      return;\n    }\n", m.Name)
	sb.WriteString("    res.json(item);\n  },\n\n")

	fmt.Fprintf(&sb, "  async create%s {\n", reqRes)
	fmt.Fprintf(&sb, "    const item = await %sService.create(req.body);\n", v)
	sb.WriteString("    res.status(201).json(item);\n  },\n\n")

	fmt.Fprintf(&sb, "  async update%s {\n", reqRes)
	fmt.Fprintf(&sb, "    const item = await %sService.update(req.params.id, req.body);\n", v)
	fmt.Fprintf(&sb, "    if (!item) {\n      res.status(404).json({ error: '%s not found' });\n      return;\n    }\n", m.Name)
	sb.WriteString("    res.json(item);\n  },\n\n")

	fmt.Fprintf(&sb, "  async remove%s {\n", reqRes)
	fmt.Fprintf(&sb, "    const removed = await %sService.remove(req.params.id);\n", v)
	fmt.Fprintf(&sb, "    if (!removed) {\n      res.status(404).json({ error: '%s not found' });\n      return;\n    }\n", m.Name)
	sb.WriteString("    res.status(204).send();\n  },\n};\n")

	if !ts {
		fmt.Fprintf(&sb, "\nmodule.exports = { %sController };\n", v)
	}

	return ir.GeneratedFile{
		Path:     "src/controllers/" + fileBase(m) + "." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

func serviceArtifact(m ir.Model, opts ir.GenerationOptions) ir.GeneratedFile {
	v := varName(m)
	ts := opts.TypeScript()
	idAnn, createAnn, updateAnn := "", "", ""
	if ts {
		idAnn = ": string"
		createAnn = ": Create" + m.Name + "Input"
		updateAnn = ": Update" + m.Name + "Input"
	}

	var sb strings.Builder
	if ts {
		fmt.Fprintf(&sb, "import { %sRepository } from '../repositories/%s';\n", v, fileBase(m))
		fmt.Fprintf(&sb, "import { Create%sInput, Update%sInput } from '../models/%s';\n\n", m.Name, m.Name, fileBase(m))
	} else {
		fmt.Fprintf(&sb, "const { %sRepository } = require('../repositories/%s');\n\n", v, fileBase(m))
	}

	fmt.Fprintf(&sb, "%sconst %sService = {\n", exportPrefix(opts), v)
	fmt.Fprintf(&sb, "  async list() {\n    return %sRepository.findAll();\n  },\n\n", v)
	fmt.Fprintf(&sb, "  async get(id%s) {\n    return %sRepository.findById(id);\n  },\n\n", idAnn, v)
	fmt.Fprintf(&sb, "  async create(input%s) {\n    return %sRepository.create(input);\n  },\n\n", createAnn, v)
	fmt.Fprintf(&sb, "  async update(id%s, input%s) {\n    return %sRepository.update(id, input);\n  },\n\n", idAnn, updateAnn, v)
	fmt.Fprintf(&sb, "  async remove(id%s) {\n    return %sRepository.remove(id);\n  },\n};\n", idAnn, v)
	if !ts {
		fmt.Fprintf(&sb, "\nmodule.exports = { %sService };\n", v)
	}

	return ir.GeneratedFile{
		Path:     "src/services/" + fileBase(m) + "." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

func routesArtifact(m ir.Model, opts ir.GenerationOptions) ir.GeneratedFile {
	v := varName(m)
	ts := opts.TypeScript()

	var sb strings.Builder
	if ts {
		sb.WriteString("import { Router } from 'express';\n")
		fmt.Fprintf(&sb, "import { %sController } from '../controllers/%s';\n", v, fileBase(m))
		fmt.Fprintf(&sb, "import { create%sRules, update%sRules } from '../validators/%s';\n", m.Name, m.Name, fileBase(m))
		sb.WriteString("import { validate } from '../middleware/errors';\n\n")
	} else {
		sb.WriteString("const { Router } = require('express');\n")
		fmt.Fprintf(&sb, "const { %sController } = require('../controllers/%s');\n", v, fileBase(m))
		fmt.Fprintf(&sb, "const { create%sRules, update%sRules } = require('../validators/%s');\n", m.Name, m.Name, fileBase(m))
		sb.WriteString("const { validate } = require('../middleware/errors');\n\n")
	}

	sb.WriteString("const router = Router();\n\n")
	fmt.Fprintf(&sb, "router.get('/', %sController.list);\n", v)
	fmt.Fprintf(&sb, "router.get('/:id', %sController.get);\n", v)
	fmt.Fprintf(&sb, "router.post('/', create%sRules, validate, %sController.create);\n", m.Name, v)
	fmt.Fprintf(&sb, "router.put('/:id', update%sRules, validate, %sController.update);\n", m.Name, v)
	fmt.Fprintf(&sb, "router.delete('/:id', %sController.remove);\n\n", v)
	if ts {
		sb.WriteString("export default router;\n")
	} else {
		sb.WriteString("module.exports = router;\n")
	}

	return ir.GeneratedFile{
		Path:     "src/routes/" + fileBase(m) + "." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

// validatorArtifact — цепочки express-validator по списку полей: проверка
// типа из общей таблицы плюс явные границы из правил модели.
func validatorArtifact(m ir.Model, opts ir.GenerationOptions) ir.GeneratedFile {
	ts := opts.TypeScript()

	var sb strings.Builder
	if ts {
		sb.WriteString("import { body } from 'express-validator';\n\n")
	} else {
		sb.WriteString("const { body } = require('express-validator');\n\n")
	}

	writeRules := func(exportName string, updateMode bool) {
		fmt.Fprintf(&sb, "%sconst %s = [\n", exportPrefix(opts), exportName)
		for _, f := range m.Fields {
			chain := fmt.Sprintf("  body('%s')", f.Name)
			if updateMode || !f.Required {
				chain += ".optional()"
			} else {
				chain += ".notEmpty()"
			}
			chain += validatorCheck(f.Type)
			chain += ruleChain(f)
			sb.WriteString(chain + ",\n")
		}
		sb.WriteString("];\n\n")
	}
	writeRules("create"+m.Name+"Rules", false)
	writeRules("update"+m.Name+"Rules", true)

	if !ts {
		fmt.Fprintf(&sb, "module.exports = { create%sRules, update%sRules };\n", m.Name, m.Name)
	}

	return ir.GeneratedFile{
		Path:     "src/validators/" + fileBase(m) + "." + srcExt(opts),
		Content:  strings.TrimRight(sb.String(), "\n") + "\n",
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

// ruleChain переводит упорядоченные правила поля в методы цепочки.
func ruleChain(f ir.Field) string {
	var sb strings.Builder
	for _, r := range f.Validations {
		numCheck := ".isFloat"
		if f.Type == ir.TypeInteger {
			numCheck = ".isInt"
		}
		switch r.Type {
		case "min":
			fmt.Fprintf(&sb, "%s({ min: %v })", numCheck, r.Value)
		case "max":
			fmt.Fprintf(&sb, "%s({ max: %v })", numCheck, r.Value)
		case "minLength":
			fmt.Fprintf(&sb, ".isLength({ min: %v })", r.Value)
		case "maxLength":
			fmt.Fprintf(&sb, ".isLength({ max: %v })", r.Value)
		case "pattern":
			fmt.Fprintf(&sb, ".matches(/%v/)", r.Value)
		}
		if r.Message != "" {
			fmt.Fprintf(&sb, ".withMessage('%s')", strings.ReplaceAll(r.Message, "'", "\\'"))
		}
	}
	return sb.String()
}

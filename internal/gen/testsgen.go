package gen

import (
	"fmt"
	"strings"

	"zodchiy/internal/ir"
)

// testArtifact — jest+supertest сьют полного CRUD-цикла модели с
// литеральными значениями-образцами по типу каждого поля.
func testArtifact(m ir.Model, opts ir.GenerationOptions) ir.GeneratedFile {
	ts := opts.TypeScript()
	v := varName(m)
	base := "/api/" + routeBase(m)

	var sb strings.Builder
	if ts {
		sb.WriteString("import request from 'supertest';\nimport app from '../src/index';\n\n")
	} else {
		sb.WriteString("const request = require('supertest');\nconst app = require('../src/index');\n\n")
	}

	fmt.Fprintf(&sb, "const %sPayload = {\n", v)
	for _, f := range m.Fields {
		fmt.Fprintf(&sb, "  %s: %s,\n", f.Name, sampleValue(f.Type))
	}
	sb.WriteString("};\n\n")

	fmt.Fprintf(&sb, "describe('%s CRUD', () => {\n", m.Name)
	if ts {
		sb.WriteString("  let createdId: string;\n\n")
	} else {
		sb.WriteString("  let createdId;\n\n")
	}

	fmt.Fprintf(&sb, "  it('creates a %s', async () => {\n", v)
	fmt.Fprintf(&sb, "    const res = await request(app).post('%s').send(%sPayload);\n", base, v)
	sb.WriteString("    expect(res.status).toBe(201);\n")
	sb.WriteString("    expect(res.body.id).toBeDefined();\n")
	for _, f := range m.Fields {
		if f.Required {
			fmt.Fprintf(&sb, "    expect(res.body.%s).toBeDefined();\n", f.Name)
		}
	}
	sb.WriteString("    createdId = res.body.id;\n  });\n\n")

	fmt.Fprintf(&sb, "  it('lists %s', async () => {\n", routeBase(m))
	fmt.Fprintf(&sb, "    const res = await request(app).get('%s');\n", base)
	sb.WriteString("    expect(res.status).toBe(200);\n")
	sb.WriteString("    expect(Array.isArray(res.body)).toBe(true);\n  });\n\n")

	fmt.Fprintf(&sb, "  it('reads one %s', async () => {\n", v)
	fmt.Fprintf(&sb, "    const res = await request(app).get(`%s/${createdId}`);\n", base)
	sb.WriteString("    expect(res.status).toBe(200);\n")
	sb.WriteString("    expect(res.body.id).toBe(createdId);\n  });\n\n")

	fmt.Fprintf(&sb, "  it('updates a %s', async () => {\n", v)
	fmt.Fprintf(&sb, "    const res = await request(app).put(`%s/${createdId}`).send(%sPayload);\n", base, v)
	sb.WriteString("    expect(res.status).toBe(200);\n  });\n\n")

	fmt.Fprintf(&sb, "  it('deletes a %s', async () => {\n", v)
	fmt.Fprintf(&sb, "    const res = await request(app).delete(`%s/${createdId}`);\n", base)
	sb.WriteString("    expect(res.status).toBe(204);\n  });\n\n")

	fmt.Fprintf(&sb, "  it('returns 404 after deletion', async () => {\n")
	fmt.Fprintf(&sb, "    const res = await request(app).get(`%s/${createdId}`);\n", base)
	sb.WriteString("    expect(res.status).toBe(404);\n  });\n});\n")

	return ir.GeneratedFile{
		Path:     "tests/" + fileBase(m) + ".test." + srcExt(opts),
		Content:  strings.TrimRight(sb.String(), "\n") + "\n",
		Kind:     ir.KindTest,
		Language: opts.Language,
	}
}

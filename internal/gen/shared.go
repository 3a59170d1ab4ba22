package gen

import (
	"fmt"
	"strings"

	"zodchiy/internal/ir"
)

// Сквозные артефакты: подключение к БД, middleware (логирование, CORS,
// нормализация ошибок валидации) и точка входа приложения.

func dbArtifact(opts ir.GenerationOptions) ir.GeneratedFile {
	ts := opts.TypeScript()
	var sb strings.Builder

	switch opts.Database {
	case ir.DatabasePostgres:
		if ts {
			sb.WriteString("import { Pool } from 'pg';\n\nexport const pool = new Pool({\n  connectionString: process.env.DATABASE_URL,\n});\n")
		} else {
			sb.WriteString("const { Pool } = require('pg');\n\nconst pool = new Pool({\n  connectionString: process.env.DATABASE_URL,\n});\n\nmodule.exports = { pool };\n")
		}
	case ir.DatabaseMySQL:
		if ts {
			sb.WriteString("import mysql from 'mysql2/promise';\n\nexport const pool = mysql.createPool(process.env.DATABASE_URL ?? '');\n")
		} else {
			sb.WriteString("const mysql = require('mysql2/promise');\n\nconst pool = mysql.createPool(process.env.DATABASE_URL ?? '');\n\nmodule.exports = { pool };\n")
		}
	case ir.DatabaseMongo:
		if ts {
			sb.WriteString(`import { MongoClient, Db } from 'mongodb';

const client = new MongoClient(process.env.DATABASE_URL ?? 'mongodb://localhost:27017/app');
let database: Db | null = null;

export async function connect() {
  await client.connect();
  database = client.db();
}

export function db(): Db {
  if (!database) {
    throw new Error('database not connected');
  }
  return database;
}
`)
		} else {
			sb.WriteString(`const { MongoClient } = require('mongodb');

const client = new MongoClient(process.env.DATABASE_URL ?? 'mongodb://localhost:27017/app');
let database = null;

async function connect() {
  await client.connect();
  database = client.db();
}

function db() {
  if (!database) {
    throw new Error('database not connected');
  }
  return database;
}

module.exports = { connect, db };
`)
		}
	}

	return ir.GeneratedFile{
		Path:     "src/db." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

func loggerMiddleware(opts ir.GenerationOptions) ir.GeneratedFile {
	ts := opts.TypeScript()
	var sb strings.Builder
	if ts {
		sb.WriteString("import { Request, Response, NextFunction } from 'express';\n\n")
		sb.WriteString("export function requestLogger(req: Request, res: Response, next: NextFunction) {\n")
	} else {
		sb.WriteString("function requestLogger(req, res, next) {\n")
	}
	sb.WriteString(`  const started = Date.now();
  res.on('finish', () => {
    console.log(` + "`${req.method} ${req.originalUrl} ${res.statusCode} ${Date.now() - started}ms`" + `);
  });
  next();
}
`)
	if !ts {
		sb.WriteString("\nmodule.exports = { requestLogger };\n")
	}
	return ir.GeneratedFile{
		Path:     "src/middleware/logger." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

// errorsMiddleware — нормализация ошибок валидации в единый формат
// {errors: [{field, message, code}]} плюс общий обработчик.
func errorsMiddleware(opts ir.GenerationOptions) ir.GeneratedFile {
	ts := opts.TypeScript()
	var sb strings.Builder
	if ts {
		sb.WriteString("import { Request, Response, NextFunction } from 'express';\n")
		sb.WriteString("import { validationResult } from 'express-validator';\n\n")
		sb.WriteString("export function validate(req: Request, res: Response, next: NextFunction) {\n")
	} else {
		sb.WriteString("const { validationResult } = require('express-validator');\n\n")
		sb.WriteString("function validate(req, res, next) {\n")
	}
	sb.WriteString(`  const result = validationResult(req);
  if (!result.isEmpty()) {
    const errors = result.array().map((e) => ({
      field: 'path' in e ? e.path : '',
      message: e.msg,
      code: 'validation_failed',
    }));
    res.status(422).json({ errors });
    return;
  }
  next();
}

`)
	if ts {
		sb.WriteString("export function errorHandler(err: Error, req: Request, res: Response, next: NextFunction) {\n")
	} else {
		sb.WriteString("function errorHandler(err, req, res, next) {\n")
	}
	sb.WriteString(`  console.error(err);
  res.status(500).json({ error: 'Internal server error' });
}
`)
	if !ts {
		sb.WriteString("\nmodule.exports = { validate, errorHandler };\n")
	}
	return ir.GeneratedFile{
		Path:     "src/middleware/errors." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

// entryArtifact — src/index: монтирует маршруты всех моделей и health-check.
func entryArtifact(models []ir.Model, opts ir.GenerationOptions) ir.GeneratedFile {
	ts := opts.TypeScript()
	var sb strings.Builder

	if ts {
		sb.WriteString("import 'dotenv/config';\nimport express from 'express';\nimport cors from 'cors';\n")
		sb.WriteString("import { requestLogger } from './middleware/logger';\n")
		sb.WriteString("import { errorHandler } from './middleware/errors';\n")
		if opts.Database == ir.DatabaseMongo {
			sb.WriteString("import { connect } from './db';\n")
		}
		if opts.WithAuth() {
			sb.WriteString("import authRoutes from './routes/auth';\n")
		}
		for _, m := range models {
			fmt.Fprintf(&sb, "import %sRoutes from './routes/%s';\n", varName(m), fileBase(m))
		}
	} else {
		sb.WriteString("require('dotenv').config();\nconst express = require('express');\nconst cors = require('cors');\n")
		sb.WriteString("const { requestLogger } = require('./middleware/logger');\n")
		sb.WriteString("const { errorHandler } = require('./middleware/errors');\n")
		if opts.Database == ir.DatabaseMongo {
			sb.WriteString("const { connect } = require('./db');\n")
		}
		if opts.WithAuth() {
			sb.WriteString("const authRoutes = require('./routes/auth');\n")
		}
		for _, m := range models {
			fmt.Fprintf(&sb, "const %sRoutes = require('./routes/%s');\n", varName(m), fileBase(m))
		}
	}

	sb.WriteString(`
const app = express();

app.use(cors());
app.use(express.json());
app.use(requestLogger);

app.get('/health', (req, res) => {
  res.json({ status: 'ok' });
});

`)
	if opts.WithAuth() {
		sb.WriteString("app.use('/api/auth', authRoutes);\n")
	}
	for _, m := range models {
		fmt.Fprintf(&sb, "app.use('/api/%s', %sRoutes);\n", routeBase(m), varName(m))
	}
	sb.WriteString("\napp.use(errorHandler);\n\nconst port = Number(process.env.PORT ?? 3000);\n")
	if opts.Database == ir.DatabaseMongo {
		sb.WriteString(`
connect()
  .then(() => {
    app.listen(port, () => console.log(` + "`listening on :${port}`" + `));
  })
  .catch((err) => {
    console.error(err);
    process.exit(1);
  });
`)
	} else {
		sb.WriteString("\napp.listen(port, () => console.log(`listening on :${port}`));\n")
	}
	if ts {
		sb.WriteString("\nexport default app;\n")
	} else {
		sb.WriteString("\nmodule.exports = app;\n")
	}

	return ir.GeneratedFile{
		Path:     "src/index." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

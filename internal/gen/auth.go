package gen

import (
	"strings"

	"zodchiy/internal/ir"
)

// Артефакты аутентификации эмитятся при любой не-"none" стратегии:
// middleware проверки токена и маршруты login/registration.
// Хранилище пользователей — in-memory, с пометкой на замену: привязывать его
// к одной из пользовательских моделей генератор не вправе.

func authMiddlewareArtifact(opts ir.GenerationOptions) ir.GeneratedFile {
	ts := opts.TypeScript()
	var sb strings.Builder
	if ts {
		sb.WriteString(`import { Request, Response, NextFunction } from 'express';
import jwt from 'jsonwebtoken';

export interface AuthenticatedRequest extends Request {
  user?: { email: string };
}

export function requireAuth(req: AuthenticatedRequest, res: Response, next: NextFunction) {
`)
	} else {
		sb.WriteString(`const jwt = require('jsonwebtoken');

function requireAuth(req, res, next) {
`)
	}
	sb.WriteString(`  const header = req.headers.authorization ?? '';
  const token = header.startsWith('Bearer ') ? header.slice(7) : '';
  if (!token) {
    res.status(401).json({ error: 'Missing bearer token' });
    return;
  }
  try {
`)
	if ts {
		sb.WriteString("    req.user = jwt.verify(token, process.env.JWT_SECRET ?? '') as { email: string };\n")
	} else {
		sb.WriteString("    req.user = jwt.verify(token, process.env.JWT_SECRET ?? '');\n")
	}
	sb.WriteString(`    next();
  } catch {
    res.status(401).json({ error: 'Invalid or expired token' });
  }
}
`)
	if !ts {
		sb.WriteString("\nmodule.exports = { requireAuth };\n")
	}
	return ir.GeneratedFile{
		Path:     "src/middleware/auth." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

func authRoutesArtifact(opts ir.GenerationOptions) ir.GeneratedFile {
	ts := opts.TypeScript()
	var sb strings.Builder
	if ts {
		sb.WriteString(`import { Router, Request, Response } from 'express';
import bcrypt from 'bcryptjs';
import jwt from 'jsonwebtoken';

const router = Router();

// TODO: replace with a persistent user store
const users = new Map<string, string>();

router.post('/register', async (req: Request, res: Response) => {
`)
	} else {
		sb.WriteString(`const { Router } = require('express');
const bcrypt = require('bcryptjs');
const jwt = require('jsonwebtoken');

const router = Router();

// TODO: replace with a persistent user store
const users = new Map();

router.post('/register', async (req, res) => {
`)
	}
	sb.WriteString(`  const { email, password } = req.body ?? {};
  if (!email || !password) {
    res.status(422).json({
      errors: [{ field: 'email', message: 'email and password are required', code: 'required' }],
    });
    return;
  }
  if (users.has(email)) {
    res.status(409).json({ error: 'User already exists' });
    return;
  }
  users.set(email, await bcrypt.hash(password, 10));
  res.status(201).json({ email });
});

`)
	if ts {
		sb.WriteString("router.post('/login', async (req: Request, res: Response) => {\n")
	} else {
		sb.WriteString("router.post('/login', async (req, res) => {\n")
	}
	sb.WriteString(`  const { email, password } = req.body ?? {};
  const hash = users.get(email);
  if (!hash || !(await bcrypt.compare(password ?? '', hash))) {
    res.status(401).json({ error: 'Invalid credentials' });
    return;
  }
  const token = jwt.sign({ email }, process.env.JWT_SECRET ?? '', {
    expiresIn: process.env.JWT_EXPIRES_IN ?? '1h',
  });
  res.json({ token });
});

`)
	if ts {
		sb.WriteString("export default router;\n")
	} else {
		sb.WriteString("module.exports = router;\n")
	}
	return ir.GeneratedFile{
		Path:     "src/routes/auth." + srcExt(opts),
		Content:  sb.String(),
		Kind:     ir.KindSource,
		Language: opts.Language,
	}
}

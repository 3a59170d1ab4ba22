package gen

import (
	"encoding/json"
	"fmt"

	"zodchiy/internal/ir"
)

// modelEndpoints — ровно 5 CRUD-операций на модель, детерминированные
// путь и метод.
func modelEndpoints(m ir.Model) []ir.Endpoint {
	base := "/api/" + routeBase(m)
	v := varName(m)
	return []ir.Endpoint{
		{Method: "GET", Path: base, Handler: v + "Controller.list", Model: m.Name, Description: "List all " + routeBase(m)},
		{Method: "GET", Path: base + "/:id", Handler: v + "Controller.get", Model: m.Name, Description: "Get one " + v + " by id"},
		{Method: "POST", Path: base, Handler: v + "Controller.create", Model: m.Name, Description: "Create a " + v},
		{Method: "PUT", Path: base + "/:id", Handler: v + "Controller.update", Model: m.Name, Description: "Update a " + v},
		{Method: "DELETE", Path: base + "/:id", Handler: v + "Controller.remove", Model: m.Name, Description: "Delete a " + v},
	}
}

// authEndpoints — login/registration при не-дефолтной стратегии.
func authEndpoints() []ir.Endpoint {
	return []ir.Endpoint{
		{Method: "POST", Path: "/api/auth/login", Handler: "auth.login", Description: "Obtain an access token"},
		{Method: "POST", Path: "/api/auth/register", Handler: "auth.register", Description: "Register a new user"},
	}
}

// apiSpec — минимальный OpenAPI-каркас по списку операций.
func apiSpec(projectName string, endpoints []ir.Endpoint) (string, error) {
	paths := map[string]map[string]any{}
	for _, ep := range endpoints {
		p := openAPIPath(ep.Path)
		if paths[p] == nil {
			paths[p] = map[string]any{}
		}
		op := map[string]any{"summary": ep.Description}
		if ep.Model != "" {
			op["tags"] = []string{ep.Model}
		}
		paths[p][httpMethodKey(ep.Method)] = op
	}
	doc := map[string]any{
		"openapi": "3.0.0",
		"info": map[string]any{
			"title":   projectName,
			"version": "1.0.0",
		},
		"paths": paths,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw) + "\n", nil
}

// openAPIPath переводит express-параметры в фигурные скобки: /:id → /{id}.
func openAPIPath(p string) string {
	out := ""
	for i := 0; i < len(p); i++ {
		if p[i] == ':' && i > 0 && p[i-1] == '/' {
			j := i + 1
			for j < len(p) && p[j] != '/' {
				j++
			}
			out += "{" + p[i+1:j] + "}"
			i = j - 1
			continue
		}
		out += string(p[i])
	}
	return out
}

func httpMethodKey(m string) string {
	switch m {
	case "GET":
		return "get"
	case "POST":
		return "post"
	case "PUT":
		return "put"
	case "DELETE":
		return "delete"
	case "PATCH":
		return "patch"
	}
	return fmt.Sprintf("%v", m)
}

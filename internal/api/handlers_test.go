package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zodchiy/internal/format"
	"zodchiy/internal/gen"
	"zodchiy/internal/tmpl"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(gen.New(tmpl.NewEngine()), nil)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validUserBody() map[string]any {
	return map[string]any{
		"models": []map[string]any{{
			"name": "User",
			"fields": []map[string]any{
				{"name": "name", "type": "string", "required": true},
				{"name": "email", "type": "email", "required": true, "unique": true},
			},
		}},
	}
}

func TestHealth(t *testing.T) {
	w := doJSON(t, testRouter(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestValidateEndpoint(t *testing.T) {
	r := testRouter()

	w := doJSON(t, r, http.MethodPost, "/api/projects/validate", validUserBody())
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Valid  bool `json:"isValid"`
		Errors []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateEndpointReportsFindings(t *testing.T) {
	r := testRouter()
	body := map[string]any{
		"models": []map[string]any{{
			"name":   "user",
			"fields": []map[string]any{{"name": "x", "type": "varchar"}},
		}},
	}
	w := doJSON(t, r, http.MethodPost, "/api/projects/validate", body)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Valid    bool              `json:"isValid"`
		Errors   []json.RawMessage `json:"errors"`
		Warnings []json.RawMessage `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
	assert.NotEmpty(t, res.Warnings)
}

func TestGenerateEndpoint(t *testing.T) {
	w := doJSON(t, testRouter(), http.MethodPost, "/api/projects/generate", validUserBody())
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Project struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			Endpoints []any  `json:"endpoints"`
			Files     []struct {
				Path string `json:"path"`
			} `json:"files"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Project.ID)
	assert.Len(t, res.Project.Endpoints, 7)

	paths := map[string]bool{}
	for _, f := range res.Project.Files {
		paths[f.Path] = true
	}
	assert.True(t, paths["package.json"])
	assert.True(t, paths["src/models/user.ts"])
}

func TestGenerateRejectsInvalidModels(t *testing.T) {
	body := map[string]any{
		"models": []map[string]any{
			{"name": "User", "fields": []map[string]any{{"name": "a", "type": "string"}}},
			{"name": "user", "fields": []map[string]any{{"name": "a", "type": "string"}}},
		},
	}
	w := doJSON(t, testRouter(), http.MethodPost, "/api/projects/generate", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate_model")
}

func TestGenerateRejectsUnsupportedOptions(t *testing.T) {
	body := validUserBody()
	body["options"] = map[string]any{"database": "oracle"}
	w := doJSON(t, testRouter(), http.MethodPost, "/api/projects/generate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported")
}

func TestGenerateRejectsMalformedJSON(t *testing.T) {
	r := testRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/projects/generate", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportEndpointZip(t *testing.T) {
	w := doJSON(t, testRouter(), http.MethodPost, "/api/projects/export", validUserBody())
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".zip")

	blob := w.Body.Bytes()
	require.True(t, len(blob) > 4)
	assert.Equal(t, []byte{'P', 'K', 0x03, 0x04}, blob[:4])
}

func TestExportEndpointTarGz(t *testing.T) {
	body := validUserBody()
	body["export"] = map[string]any{"format": "tar"}
	w := doJSON(t, testRouter(), http.MethodPost, "/api/projects/export", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/gzip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".tar.gz")
	blob := w.Body.Bytes()
	require.True(t, len(blob) > 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, blob[:2])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	body := validUserBody()
	body["export"] = map[string]any{"format": "rar"}
	w := doJSON(t, testRouter(), http.MethodPost, "/api/projects/export", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportMeta(t *testing.T) {
	w := doJSON(t, testRouter(), http.MethodGet, "/api/export/meta", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Formats   []string `json:"formats"`
		Templates []string `json:"templates"`
		Defaults  struct {
			Format   string `json:"format"`
			Template string `json:"template"`
		} `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.ElementsMatch(t, []string{"zip", "tar"}, res.Formats)
	assert.ElementsMatch(t, []string{"basic", "advanced", "enterprise"}, res.Templates)
	assert.Equal(t, "zip", res.Defaults.Format)
	assert.Equal(t, "basic", res.Defaults.Template)
}

func TestGenerateHonorsConfiguredIndent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(gen.New(tmpl.NewEngine()), &format.Options{Indent: 4})

	w := doJSON(t, r, http.MethodPost, "/api/projects/generate", validUserBody())
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Project struct {
			Files []struct {
				Path    string `json:"path"`
				Content string `json:"content"`
			} `json:"files"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	var pkg string
	for _, f := range res.Project.Files {
		if f.Path == "package.json" {
			pkg = f.Content
		}
	}
	require.NotEmpty(t, pkg)
	// сконфигурированный отступ доходит до форматтера
	assert.Contains(t, pkg, "\n    \"")
	assert.NotContains(t, pkg, "\n  \"")
}

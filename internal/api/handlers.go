package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"zodchiy/internal/export"
	"zodchiy/internal/format"
	"zodchiy/internal/gen"
	"zodchiy/internal/ir"
	"zodchiy/internal/validate"
)

// Тело запросов генерации и экспорта. Опции необязательны: отсутствующие
// ключи добиваются значениями по умолчанию.
type generateRequest struct {
	Models  []ir.Model           `json:"models"`
	Options ir.GenerationOptions `json:"options"`
}

type exportRequest struct {
	Models  []ir.Model           `json:"models"`
	Options ir.GenerationOptions `json:"options"`
	Export  json.RawMessage      `json:"export"`
}

// POST /api/projects/validate
func ValidateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Models []ir.Model `json:"models"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		c.JSON(http.StatusOK, validate.Validate(req.Models))
	}
}

// POST /api/projects/generate
// Сначала валидатор; при Valid=false генерация не запускается вовсе.
func GenerateHandler(svc *gen.Service, fmtOpts *format.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		res := validate.Validate(req.Models)
		if !res.Valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": res.Errors})
			return
		}

		project, err := svc.Generate(req.Models, req.Options)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		project.Files = format.Files(project.Files, fmtOpts)

		c.JSON(http.StatusOK, gin.H{
			"project":  projectSummary(project),
			"warnings": res.Warnings,
			"cycles":   res.Cycles,
		})
	}
}

// POST /api/projects/export
// Полный конвейер: валидация → генерация → форматирование → пакет → архив.
// Тело ответа — байты архива, имя файла в Content-Disposition.
func ExportHandler(svc *gen.Service, fmtOpts *format.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req exportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		res := validate.Validate(req.Models)
		if !res.Valid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": res.Errors})
			return
		}

		// bind поверх дефолтов: отсутствующий в JSON ключ не обнуляет опцию
		expOpts := ir.DefaultExportOptions()
		if len(req.Export) > 0 {
			if err := json.Unmarshal(req.Export, &expOpts); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid export options"})
				return
			}
		}
		if err := expOpts.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		project, err := svc.Generate(req.Models, req.Options)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		project.Files = format.Files(project.Files, fmtOpts)

		pkg, err := export.NewPackage(project, expOpts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		blob, err := export.Archive(pkg, expOpts.Format)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+export.Filename(pkg, expOpts.Format)+`"`)
		c.Data(http.StatusOK, export.ContentType(expOpts.Format), blob)
	}
}

// GET /api/export/meta
func ExportMetaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"formats":   ir.SupportedFormats,
			"templates": ir.SupportedTiers,
			"defaults":  ir.DefaultExportOptions(),
		})
	}
}

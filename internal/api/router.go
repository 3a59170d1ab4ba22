// api/router.go
package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"zodchiy/internal/format"
	"zodchiy/internal/gen"
)

// NewRouter собирает маршруты поверх готового сервиса генерации.
// Отдельно от RunServer — чтобы тесты ходили через httptest.
// fmtOpts — настройки форматирования эмитированных файлов (nil = по умолчанию).
func NewRouter(svc *gen.Service, fmtOpts *format.Options) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/projects/validate", ValidateHandler())
		apiGroup.POST("/projects/generate", GenerateHandler(svc, fmtOpts))
		apiGroup.POST("/projects/export", ExportHandler(svc, fmtOpts))
		apiGroup.GET("/export/meta", ExportMetaHandler())
	}

	return r
}

func RunServer(addr string, svc *gen.Service, fmtOpts *format.Options) {
	r := NewRouter(svc, fmtOpts)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}

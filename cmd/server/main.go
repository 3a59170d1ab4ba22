package main

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"zodchiy/internal/api"
	"zodchiy/internal/config"
	"zodchiy/internal/format"
	"zodchiy/internal/gen"
	"zodchiy/internal/tmpl"
)

func main() {
	// 1. Конфигурация: JSON + ENV + флаги
	cfg := config.Load()
	gin.SetMode(cfg.Mode)

	// 2. Движок шаблонов со встроенной библиотекой
	engine := tmpl.NewEngine()
	fmt.Printf("Загружено шаблонов: %d\n", len(engine.Names()))

	// 3. Сервис генерации
	svc := gen.New(engine)

	// 4. Запускаем REST API сервер
	fmt.Printf("Стартуем сервер Zodchiy на :%s...\n", cfg.Port)
	api.RunServer(":"+cfg.Port, svc, &format.Options{Indent: cfg.Indent})
}

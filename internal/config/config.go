package config

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port string `json:"port"`
	Mode string `json:"mode"` // gin mode: debug | release | test

	// Единица отступа форматтера для структурированного текста
	Indent int `json:"indent"`
}

func def() Config {
	return Config{
		Port:   "8080",
		Mode:   "debug",
		Indent: 2,
	}
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	if v, ok := os.LookupEnv(k); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// LoadWithPath читает JSON по указанному пути, потом применяет ENV и флаги.
func LoadWithPath(jsonPath string) Config {
	cfg := def()

	// JSON (если файл существует)
	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if c2, err := loadJSON(jsonPath); err == nil {
			cfg = c2
		}
	}

	// ENV overrides
	cfg.Port = getenv("ZODCHIY_PORT", cfg.Port)
	cfg.Mode = getenv("ZODCHIY_MODE", cfg.Mode)
	cfg.Indent = getenvInt("ZODCHIY_INDENT", cfg.Indent)

	// Flags overrides
	configPath := flag.String("config", jsonPath, "Path to config JSON")
	port := flag.String("port", cfg.Port, "HTTP port")
	mode := flag.String("mode", cfg.Mode, "Gin mode (debug/release/test)")
	indent := flag.Int("indent", cfg.Indent, "Formatter indent width")

	flag.Parse()

	// Если через флаг передали другой конфиг — перечитаем
	if *configPath != jsonPath {
		return LoadWithPath(*configPath)
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.Mode = strings.TrimSpace(*mode)
	if *indent > 0 {
		cfg.Indent = *indent
	}

	return cfg
}

// Load — конфиг из config.json рядом с бинарём (если есть).
func Load() Config {
	return LoadWithPath("config.json")
}

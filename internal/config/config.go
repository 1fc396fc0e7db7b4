package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	DatabasePath  string
	SessionSecret string
	Children      []string
	CatalogPath   string
	CatalogURL    string
	LogLevel      string
	Port          string
}

func Load() (Config, error) {
	config := Config{
		DatabasePath:  envOrDefault("DATABASE_PATH", ":memory:"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		Children:      splitChildren(envOrDefault("CHILDREN", "ben,sophie")),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		CatalogURL:    os.Getenv("CATALOG_URL"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		Port:          envOrDefault("PORT", "8080"),
	}

	if config.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if len(config.Children) == 0 {
		return Config{}, fmt.Errorf("CHILDREN must name at least one child")
	}

	return config, nil
}

func splitChildren(value string) []string {
	var children []string
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name != "" {
			children = append(children, name)
		}
	}
	return children
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

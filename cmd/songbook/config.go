package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	Addr           string
	AllowedOrigins string
	LogLevel       string
	LogFormat      string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	apiBaseURL := os.Getenv("SONGBOOK_API_URL")
	if apiBaseURL == "" {
		return Config{}, errors.New("SONGBOOK_API_URL env var is required")
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))

	return Config{
		APIBaseURL:     apiBaseURL,
		DatabasePath:   envOrDefault("SONGBOOK_DB", "songbook.db"),
		Addr:           addr,
		AllowedOrigins: envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package main

import (
	"flag"
	"log/slog"

	"zeko/internal/logger"
	"zeko/internal/validation"
)

func main() {
	var baseURL, email, password string
	flag.StringVar(&baseURL, "url", "http://localhost:8081", "Base URL for API validation")
	flag.StringVar(&email, "email", "admin@zeko.com", "Dashboard client email")
	flag.StringVar(&password, "password", "admin", "Dashboard client password")
	flag.Parse()

	logger.Init("info", "text")
	slog.Info("Starting API validation", "url", baseURL)

	validator := validation.NewAPIValidator(baseURL, email, password)
	if err := validator.ValidateAll(); err != nil {
		logger.Fatal("❌ Валидация не пройдена", "error", err)
	}

	slog.Info("✅ Валидация успешно пройдена!")
}

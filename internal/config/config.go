package config

import (
	"fmt"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Config собирает настройки приложения из переменных окружения
type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required"`
	DgisAPIKey    string `env:"DGIS_API_KEY,required"`
	SupabaseURL   string `env:"SUPABASE_URL"`
	SupabaseKey   string `env:"SUPABASE_KEY"`
	SecretToken   string `env:"TELEGRAM_SECRET_TOKEN"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFileName   string `env:"LOG_FILE_NAME" envDefault:"lunchbot.log"`
	RunAddress    string `env:"RUN_ADDRESS" envDefault:":8080"`
}

// Load читает конфигурацию из окружения, .env-файл необязателен
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

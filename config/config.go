package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string  `validate:"oneof=development production test"`
	TelegramToken  string  `validate:"omitempty"`
	HTTPAddr       string  `validate:"required,hostname_port"`
	ModelPath      string  `validate:"omitempty"`
	Workers        int     `validate:"min=1,max=256"`
	MaxImageSide   int     `validate:"min=0"`
	ScanStep       int     `validate:"min=1"`
	ColorTolerance float64 `validate:"gt=0,lte=442"`
	LogFile        string  `validate:"omitempty"`
	LogLevel       string  `validate:"oneof=trace debug info warn warning error"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		ModelPath:     os.Getenv("MODEL_PATH"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Workers, err = getEnvInt("WORKERS", min(runtime.NumCPU(), 256)); err != nil {
		return nil, err
	}
	if cfg.MaxImageSide, err = getEnvInt("MAX_IMAGE_SIDE", 0); err != nil {
		return nil, err
	}
	if cfg.ScanStep, err = getEnvInt("SCAN_STEP", 1); err != nil {
		return nil, err
	}
	if cfg.ColorTolerance, err = getEnvFloat("COLOR_TOLERANCE", 30); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr   string `yaml:"http_addr"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	JWTSecret  string `yaml:"jwt_secret"`

	// Reasoning / extraction backend (OpenRouter, OpenAI-compatible).
	OpenRouterBaseURL string        `yaml:"openrouter_base_url"`
	OpenRouterAPIKey  string        `yaml:"openrouter_api_key"`
	OpenRouterModel   string        `yaml:"openrouter_model"`
	UpstreamTimeout   time.Duration `yaml:"upstream_timeout"`

	MailjetAPIKey    string `yaml:"mailjet_api_key"`
	MailjetSecretKey string `yaml:"mailjet_secret_key"`
	MailjetFromEmail string `yaml:"mailjet_from_email"`
	MailjetFromName  string `yaml:"mailjet_from_name"`

	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOBucket    string `yaml:"minio_bucket"`

	// Hour of day (local time) for the appointment reminder sweep.
	ReminderHour int `yaml:"reminder_hour"`
}

// LoadConfig reads CONFIG_FILE (if set) first, then lets environment
// variables override individual fields.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:          ":8000",
		OpenRouterBaseURL: "https://openrouter.ai/api/v1",
		OpenRouterModel:   "google/gemini-2.0-flash-exp:free",
		UpstreamTimeout:   30 * time.Second,
		MinIOBucket:       "health-records",
		ReminderHour:      8,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.OpenRouterBaseURL = getEnv("OPENROUTER_BASE_URL", cfg.OpenRouterBaseURL)
	cfg.OpenRouterAPIKey = getEnv("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey)
	cfg.OpenRouterModel = getEnv("OPENROUTER_MODEL", cfg.OpenRouterModel)
	cfg.MailjetAPIKey = getEnv("MAILJET_API_KEY", cfg.MailjetAPIKey)
	cfg.MailjetSecretKey = getEnv("MAILJET_SECRET_KEY", cfg.MailjetSecretKey)
	cfg.MailjetFromEmail = getEnv("MAILJET_FROM_EMAIL", cfg.MailjetFromEmail)
	cfg.MailjetFromName = getEnv("MAILJET_FROM_NAME", cfg.MailjetFromName)
	cfg.MinIOEndpoint = getEnv("MINIO_ENDPOINT", cfg.MinIOEndpoint)
	cfg.MinIOAccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinIOAccessKey)
	cfg.MinIOSecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinIOSecretKey)
	cfg.MinIOBucket = getEnv("MINIO_BUCKET", cfg.MinIOBucket)

	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.UpstreamTimeout = d
		}
	}
	if v := os.Getenv("REMINDER_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h < 24 {
			cfg.ReminderHour = h
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Admin    AdminConfig
	Session  SessionConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AdminConfig struct {
	Email        string
	PasswordHash string
	JWTSecret    string
}

type SessionConfig struct {
	TrainingSteps     int
	ExamSteps         int
	GenerationTimeout time.Duration
}

type AIConfig struct {
	UseLLM        bool
	LLMProvider   string // "openai", "ollama" or "none"
	LLMModel      string
	OllamaBaseURL string
	OpenAIKey     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AvatarTrainer"),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", "admin@localhost"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
		},
		Session: SessionConfig{
			TrainingSteps:     getEnvAsInt("SESSION_TRAINING_STEPS", 8),
			ExamSteps:         getEnvAsInt("SESSION_EXAM_STEPS", 10),
			GenerationTimeout: time.Duration(getEnvAsInt("GENERATION_TIMEOUT_MS", 2500)) * time.Millisecond,
		},
		Ai: AIConfig{
			UseLLM:        getEnv("USE_LLM", "false") == "true",
			LLMProvider:   getEnv("LLM_PROVIDER", "none"),
			LLMModel:      getEnv("LLM_MODEL", "gpt-4o-mini"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

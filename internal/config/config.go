package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	UsersFile    string
	HTTPPort     string
	AppEnv       string

	// Upload / generation ceilings, enforced before any backend round-trip.
	MaxUploadBytes    int
	MaxDocumentTokens int

	// Attempt budget for best-effort (non-schema-enforced) generation.
	GenerationAttempts int
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		UsersFile:          getEnv("USERS_FILE", "users.json"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		AppEnv:             getEnv("APP_ENV", "development"),
		MaxUploadBytes:     getEnvAsInt("MAX_UPLOAD_BYTES", 25<<20),
		MaxDocumentTokens:  getEnvAsInt("MAX_DOCUMENT_TOKENS", 900000),
		GenerationAttempts: getEnvAsInt("GENERATION_ATTEMPTS", 3),
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

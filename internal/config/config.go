package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey     string
	DatabaseURL      string
	HTTPPort         string
	LogLevel         string
	JWTSecret        string
	CatalogPath      string
	ReferenceCSVPath string

	// Retrieval and conversation tunables.
	RetrievalTopK      int
	HistoryWindow      int
	MaxChunkChars      int
	EmbeddingRetrieval bool
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:        getEnv("DATABASE_URL", "spiritual_path.db"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CatalogPath:        getEnv("CATALOG_PATH", "data/catalog.json"),
		ReferenceCSVPath:   getEnv("REFERENCE_CSV_PATH", ""),
		RetrievalTopK:      getEnvAsInt("RETRIEVAL_TOP_K", 3),
		HistoryWindow:      getEnvAsInt("HISTORY_WINDOW", 5),
		MaxChunkChars:      getEnvAsInt("MAX_CHUNK_CHARS", 600),
		EmbeddingRetrieval: getEnv("EMBEDDING_RETRIEVAL", "") == "true",
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
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

package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
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
	RedisURL           string
	LocalStorePath     string
}

type DatabaseConfig struct {
	// Connection is the Postgres DSN for remote session sync.
	// Empty means local-only mode: sessions live in the local store and
	// nothing is synced upstream.
	Connection string
}

type APIKeys struct {
	Mistral      string
	GoogleGemini string
	SyncTopic    string // session sync topic name
}

type AIConfig struct {
	NarrativeProvider string // "mistral" or "ollama"
	NarrativeModel    string
	MistralBaseURL    string
	OllamaBaseURL     string
	TTSModel          string
	TTSVoice          string
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
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			LocalStorePath:     getEnv("LOCAL_STORE_PATH", "data/sessions.json"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Mistral:      getEnv("MISTRAL_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			SyncTopic:    getEnv("SESSION_SYNC_TOPIC_NAME", "SYNC_SESSION"),
		},
		Ai: AIConfig{
			NarrativeProvider: getEnv("NARRATIVE_PROVIDER", "mistral"),
			NarrativeModel:    getEnv("NARRATIVE_MODEL", "mistral-large-latest"),
			MistralBaseURL:    getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			TTSModel:          getEnv("TTS_MODEL", "gemini-2.5-flash-preview-tts"),
			TTSVoice:          getEnv("TTS_VOICE", "Charon"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

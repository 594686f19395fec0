package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	SMTP         SMTPConfig
	Keys         APIKeys
	Ai           AIConfig
	Codec        CodecConfig
	Orchestrator OrchestratorConfig
	Jwt          JwtConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	IngestLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	BodyLimitMB        int
	OtelEnabled        bool
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Email != ""
}

// APIKeys are read as-is. The model registry validates them on every call.
type APIKeys struct {
	OpenAI    string
	Anthropic string
	XAI       string
}

type AIConfig struct {
	DefaultModel      string
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	MaxInputChars     int
	ChunkSize         int
	ChunkOverlap      int
	// MinSimilarity drops vector hits scoring below it; 0 keeps everything.
	MinSimilarity float64
}

type CodecConfig struct {
	PDFFontPath  string
	SectionMode  string // "flatten" or "sheet_per_table"
	PDFExtractor string // "pdfcpu" or "placeholder"
}

type OrchestratorConfig struct {
	Workers         int
	RequestTimeout  time.Duration
	DefaultLanguage string
}

type JwtConfig struct {
	Secret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			IngestLogFilePath:  getEnv("INGEST_LOG_FILE_PATH", "logs/ingest.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 50),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_VERBOSE", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Doccoder"),
		},
		Keys: APIKeys{
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
			Anthropic: getEnv("ANTHROPIC_API_KEY", ""),
			XAI:       getEnv("XAI_API_KEY", ""),
		},
		Ai: AIConfig{
			DefaultModel:      getEnv("AI_DEFAULT_MODEL", "openai/gpt-4-mini"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			MaxInputChars:     getEnvAsInt("AI_MAX_INPUT_CHARS", 20000),
			ChunkSize:         getEnvAsInt("RAG_CHUNK_SIZE", 1000),
			ChunkOverlap:      getEnvAsInt("RAG_CHUNK_OVERLAP", 200),
			MinSimilarity:     getEnvAsFloat("RAG_MIN_SIMILARITY", 0),
		},
		Codec: CodecConfig{
			PDFFontPath:  getEnv("PDF_FONT_PATH", "assets/fonts/NotoSans-Regular.ttf"),
			SectionMode:  getEnv("XLSX_SECTION_MODE", "flatten"),
			PDFExtractor: getEnv("PDF_EXTRACTOR", "pdfcpu"),
		},
		Orchestrator: OrchestratorConfig{
			Workers:         getEnvAsInt("TRANSFORM_WORKERS", 1),
			RequestTimeout:  time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		},
		Jwt: JwtConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
	}
}

// Key returns the API key for a provider id as currently configured.
// Environment values set after startup take precedence, so rotated keys are
// picked up without a restart.
func (c *Config) Key(provider string) string {
	switch provider {
	case "openai":
		return getEnv("OPENAI_API_KEY", c.Keys.OpenAI)
	case "anthropic":
		return getEnv("ANTHROPIC_API_KEY", c.Keys.Anthropic)
	case "xai":
		return getEnv("XAI_API_KEY", c.Keys.XAI)
	}
	return ""
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

func getEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	LLM       LLMConfig
	STT       STTConfig
	Reports   ReportsConfig
	Questions QuestionsConfig
}

type ServerConfig struct {
	Host       string
	Port       int
	UploadsDir string
	MaxUpload  int64 // bytes
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LLMConfig struct {
	OpenAIKey        string
	OpenAIBaseURL    string
	AnthropicKey     string
	AnthropicBaseURL string
	OllamaURL        string // OpenAI-compatible endpoint, e.g. http://localhost:11434/v1
	DefaultProvider  string
	DefaultModel     string
	FallbackProvider string
	MaxRetries       int
}

type STTConfig struct {
	Backend       string // "openai" or "local"
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	LocalBaseURL  string // default: "http://localhost:8178"
	Language      string
}

type ReportsConfig struct {
	Dir      string
	Save     bool
	CacheTTL time.Duration
}

type QuestionsConfig struct {
	Path string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxUploadMB, err := getEnvInt("MAX_UPLOAD_MB", 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	saveReports, err := getEnvBool("REPORTS_SAVE", true)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORTS_SAVE: %w", err)
	}

	cacheTTL, err := getEnvDuration("REPORTS_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORTS_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:       getEnv("SERVER_HOST", "0.0.0.0"),
			Port:       port,
			UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
			MaxUpload:  int64(maxUploadMB) << 20,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		LLM: LLMConfig{
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
			OllamaURL:        getEnv("OLLAMA_URL", "http://localhost:11434/v1"),
			DefaultProvider:  getEnv("LLM_DEFAULT_PROVIDER", "ollama"),
			DefaultModel:     getEnv("LLM_DEFAULT_MODEL", "gemma2:9b"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			MaxRetries:       maxRetries,
		},
		STT: STTConfig{
			Backend:       getEnv("STT_BACKEND", "local"),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("STT_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("STT_OPENAI_MODEL", ""),
			LocalBaseURL:  getEnv("STT_LOCAL_BASE_URL", "http://localhost:8178"),
			Language:      getEnv("STT_LANGUAGE", "en"),
		},
		Reports: ReportsConfig{
			Dir:      getEnv("REPORTS_DIR", "reports"),
			Save:     saveReports,
			CacheTTL: cacheTTL,
		},
		Questions: QuestionsConfig{
			Path: getEnv("QUESTIONS_PATH", "data/questions_em_behavioral.json"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks the settings every entry point needs.
func (c *Config) Validate() error {
	var problems []string
	if c.LLM.DefaultModel == "" {
		problems = append(problems, "LLM_DEFAULT_MODEL is empty")
	}
	if c.LLM.MaxRetries < 0 {
		problems = append(problems, "LLM_MAX_RETRIES must be >= 0")
	}
	if c.Server.MaxUpload <= 0 {
		problems = append(problems, "MAX_UPLOAD_MB must be > 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

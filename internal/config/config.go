package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret      string
	AccessTokenTTL time.Duration

	// AI
	AIProvider   string // "gemini" or "fake"
	GeminiAPIKey string

	// Uploads
	UploadDir         string
	MaxUploadSize     int64
	AllowedExtensions []string

	// Mastery classification thresholds. Inherited business rules; tune via
	// env rather than editing the aggregation code.
	MasteryMinCorrect    int
	MasteryMaxDifficulty float64

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		AccessTokenTTL: time.Duration(getEnvAsIntOrDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,

		AIProvider:   getEnvOrDefault("AI_PROVIDER", "gemini"),
		GeminiAPIKey: getEnvOrDefault("GEMINI_API_KEY", ""),

		UploadDir:         getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:     int64(getEnvAsIntOrDefault("MAX_UPLOAD_SIZE", 10*1024*1024)),
		AllowedExtensions: getEnvAsListOrDefault("ALLOWED_EXTENSIONS", []string{".pdf", ".docx", ".txt"}),

		MasteryMinCorrect:    getEnvAsIntOrDefault("MASTERY_MIN_CORRECT", 3),
		MasteryMaxDifficulty: getEnvAsFloatOrDefault("MASTERY_MAX_DIFFICULTY", 2.0),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	if cfg.AIProvider == "gemini" && cfg.GeminiAPIKey == "" {
		panic("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// getEnvAsListOrDefault parses a comma-separated list of file extensions,
// normalizing each entry to a lowercase ".ext" form.
func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"wellbeing/utils"

	"github.com/joho/godotenv"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// AppConfig is loaded once at startup and handed to the components that
// need it. Nothing below reads the environment after Load returns.
type AppConfig struct {
	Port        string
	Environment string
	Storage     string
	Database    DatabaseConfig

	RedisURL          string
	ActiveMonitorTTL  time.Duration
	MaxRequestBytes   int64
	MaxActiveSessions int
	CORSOrigins       []string

	JWTSecretKey    string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LoginSessionTTL time.Duration

	GeminiAPIKey      string
	GeminiModel       string
	GenerationTimeout time.Duration
}

func (c AppConfig) IsTest() bool {
	return c.Environment == "test"
}

// Load reads .env (when present) and the process environment.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := AppConfig{
		Port:        utils.GetEnvAsString("PORT", "8080"),
		Environment: utils.GetEnvAsString("GO_ENV", "development"),
		Storage:     utils.GetEnvAsString("STORAGE_DRIVER", StorageMongo),
		Database:    LoadDatabaseConfig(),

		RedisURL:          os.Getenv("REDIS_URL"),
		ActiveMonitorTTL:  utils.GetEnvAsDuration("ACTIVE_MONITOR_TTL", 12*time.Hour),
		MaxRequestBytes:   utils.GetEnvAsInt64("MAX_REQUEST_BYTES", 1<<20),
		MaxActiveSessions: utils.GetEnvAsInt("MAX_ACTIVE_SESSIONS", 5),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),

		JWTSecretKey:    os.Getenv("JWT_SECRET_KEY"),
		JWTIssuer:       utils.GetEnvAsString("JWT_ISSUER", "facethefacts"),
		AccessTokenTTL:  time.Duration(utils.GetEnvAsInt64("JWT_EXPIRATION_TIME", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(utils.GetEnvAsInt64("REFRESH_TOKEN_EXPIRATION_TIME", 604800)) * time.Second,
		LoginSessionTTL: utils.GetEnvAsDuration("SESSION_DURATION", 24*time.Hour),

		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       utils.GetEnvAsString("GEMINI_MODEL", "gemini-2.5-flash"),
		GenerationTimeout: utils.GetEnvAsDuration("GENERATION_TIMEOUT", 0),
	}

	if cfg.JWTSecretKey == "" {
		if !cfg.IsTest() {
			return cfg, errors.New("JWT_SECRET_KEY is not set")
		}
		cfg.JWTSecretKey = "test_secret_key"
	}

	switch cfg.Storage {
	case StorageMongo, StorageMemory:
	default:
		return cfg, errors.New("STORAGE_DRIVER must be mongo or memory")
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set: reports and chat will return placeholder text")
	}

	return cfg, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"
	"time"

	"tasktracker/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration

	// Optional task-list cache; empty RedisAddr disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (and .env if present).
// Missing DATABASE_URL or JWT_SECRET is fatal.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	tokenTTL := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tokenTTL = time.Duration(n) * time.Hour
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			redisDB = n
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:       port,
		DatabaseURL:   dbURL,
		JWTSecret:     jwtSecret,
		TokenTTL:      tokenTTL,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		LogLevel:      logLevel,
		LogJSON:       os.Getenv("LOG_JSON") == "true",
	}
}

package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv             string
	LogLevel           slog.Level
	ApiServicePort     string
	PostgreSQLHost     string
	PostgreSQLPort     int64
	PostgreSQLUser     string
	PostgreSQLPassword string
	PostgreSQLDatabase string
	JWTSecret          string
	TokenExpiration    int64 // Token lifetime in seconds
	CORSAllowedOrigins []string
}

func LoadConfig() *Config {
	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),                              // Default development
		LogLevel:           getLogLevel(),                                                 // Default INFO
		ApiServicePort:     getEnv("API_SERVICE_PORT", "8080"),                            // Default 8080
		PostgreSQLHost:     getEnv("POSTGRESQL_HOST", "db"),                               // Default db
		PostgreSQLPort:     getEnvAsInt64("POSTGRESQL_PORT", 5432),                        // Default 5432
		PostgreSQLUser:     getEnv("POSTGRESQL_USER", "pivotpoint_user"),                  // Default user
		PostgreSQLPassword: getEnv("POSTGRESQL_PASSWORD", "pivotpoint_password"),          // Default password
		PostgreSQLDatabase: getEnv("POSTGRESQL_DATABASE", "pivotpoint"),                   // Default database name
		JWTSecret:          getEnv("JWT_SECRET", "pivotpoint_secret"),                     // Default secret key
		TokenExpiration:    getEnvAsInt64("TOKEN_EXPIRATION", 86400),                      // Default 24 hours
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), // Default frontend dev server
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

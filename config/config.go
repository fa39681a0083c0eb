package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Uploads  UploadConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port string
}

// AuthConfig holds token-issue configuration
type AuthConfig struct {
	JWTSecret      string
	TokenHours     int
	SeedAdminEmail string // superadmin seeded on first boot
	SeedAdminPass  string
}

// UploadConfig holds attachment storage configuration
type UploadConfig struct {
	BasePath            string
	MaxBytes            int64
	JanitorIntervalMins int // 0 disables the orphan cleanup worker
	JanitorGraceMins    int // files younger than this are never touched
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "sjdportal"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "8080")),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", "sjd-portal-change-in-production"),
			TokenHours:     getEnvInt("JWT_EXPIRES_HOURS", 24),
			SeedAdminEmail: getEnv("SEED_ADMIN_EMAIL", "admin@sjd.gov.in"),
			SeedAdminPass:  os.Getenv("SEED_ADMIN_PASSWORD"),
		},
		Uploads: UploadConfig{
			BasePath:            getEnv("UPLOAD_BASE_PATH", "uploads"),
			MaxBytes:            int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),
			JanitorIntervalMins: getEnvInt("UPLOAD_JANITOR_INTERVAL_MINUTES", 60),
			JanitorGraceMins:    getEnvInt("UPLOAD_JANITOR_GRACE_MINUTES", 120),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

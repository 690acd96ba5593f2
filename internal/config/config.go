package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB     DBConfig
	Server ServerConfig
	Auth   AuthConfig
	Rider  RiderServiceConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// URL, when set, overrides the assembled postgres DSN.
	URL string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "clientstore" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// AuthConfig holds JWT settings for the mapping API.
type AuthConfig struct {
	JWTSecret string
}

// RiderServiceConfig holds the collaborator endpoint for rider resolution.
type RiderServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	port := getEnv("PORT", "")
	if port == "" {
		port = getEnv("APP_PORT", "8080")
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "clientstore"),
			Password: getEnv("DB_PASSWORD", "clientstore_password"),
			Name:     getEnv("DB_NAME", "clientstore"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			URL:      getEnv("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port:           port,
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Rider: RiderServiceConfig{
			BaseURL: getEnv("RIDER_SERVICE_URL", "http://localhost:8083"),
			Timeout: time.Duration(getEnvAsInt("RIDER_SERVICE_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

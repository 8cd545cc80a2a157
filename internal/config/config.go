package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Cache    CacheConfig
	API      APIConfig
	Seed     SeedConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CacheConfig holds list-page cache configuration (Redis).
// An empty URL disables caching entirely.
type CacheConfig struct {
	RedisURL  string
	KeyPrefix string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// SeedConfig holds defaults for the admin populate endpoint
type SeedConfig struct {
	DefaultCount int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	seedCount, err := strconv.Atoi(getEnv("SEED_DEFAULT_COUNT", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEFAULT_COUNT: %w", err)
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "customerbase"),
			Password: getEnv("DB_PASSWORD", "customerbase"),
			DBName:   getEnv("DB_NAME", "customerbase"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Cache: CacheConfig{
			RedisURL:  getEnv("REDIS_URL", ""),
			KeyPrefix: getEnv("CACHE_KEY_PREFIX", "customers:list:"),
		},
		API: APIConfig{
			Port: apiPort,
		},
		Seed: SeedConfig{
			DefaultCount: seedCount,
		},
	}, nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

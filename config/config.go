package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort int
	BaseURL    string
	Database   DatabaseConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type RateLimitConfig struct {
	GlobalMax      int
	GlobalWindow   time.Duration
	RegisterMax    int
	RegisterWindow time.Duration
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "conectly"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "conectly_db"),
		UseSSL:   getEnvBool("DB_SSL", false),
	}

	authConfig := AuthConfig{
		AccessSecret:  getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshSecret: getEnv("REFRESH_TOKEN_SECRET", ""),
		AccessTTL:     time.Duration(getEnvInt("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute,
		RefreshTTL:    time.Duration(getEnvInt("REFRESH_TOKEN_TTL_HOURS", 168)) * time.Hour,
	}

	rateLimitConfig := RateLimitConfig{
		GlobalMax:      getEnvInt("RATE_LIMIT_MAX", 100),
		GlobalWindow:   time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MIN", 60)) * time.Minute,
		RegisterMax:    getEnvInt("REGISTER_LIMIT_MAX", 6),
		RegisterWindow: time.Duration(getEnvInt("REGISTER_LIMIT_WINDOW_MIN", 10)) * time.Minute,
	}

	return Config{
		Env:        getEnv("ENV", "development"),
		ServerPort: getEnvInt("PORT", 7000),
		BaseURL:    getEnv("BASE_URL", "/api"),
		Database:   dbConfig,
		Auth:       authConfig,
		RateLimit:  rateLimitConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "true" || valueStr == "1"
	}
	return defaultValue
}

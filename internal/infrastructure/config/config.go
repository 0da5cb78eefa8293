// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	AppEnv     string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	JWTSecret    string

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Redis result cache, empty URI selects the in-process cache
	RedisURI string

	// Indicator store
	IndicatorBackend string
	PostgresURI      string

	// Data warehouse
	RebuildPeriod     string
	SchedulerTimezone string

	// Finder search defaults, overridden at runtime by the configurations collection
	MaxResultsFinder int
	TimeCachedFinder time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		AppEnv:     strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:4200")),
		JWTSecret:    getEnv("JWT_SECRET", ""),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "acme_explorer"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		RedisURI: getEnv("REDIS_URI", ""),

		IndicatorBackend: strings.ToLower(getEnv("INDICATOR_BACKEND", "mongo")),
		PostgresURI:      getEnv("POSTGRES_URI", ""),

		RebuildPeriod:     getEnv("REBUILD_PERIOD", "everyHour"),
		SchedulerTimezone: getEnv("SCHEDULER_TIMEZONE", "Europe/Madrid"),

		MaxResultsFinder: getEnvAsInt("MAX_RESULTS_FINDER", 10),
		TimeCachedFinder: time.Duration(getEnvAsInt("TIME_CACHED_FINDER", 3600)) * time.Second,
	}

	return config, nil
}

// IsTest reports whether the process runs under automated tests.
// Background jobs are disabled in that mode.
func (c *Config) IsTest() bool {
	return c.AppEnv == EnvTest
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string

	// Container movement backend
	APIBaseURL  string
	APITimeout  time.Duration
	APIEmail    string
	APIPassword string

	// MongoDB (session store)
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Postgres (stage submission journal)
	PostgresDSN string

	// Redis (shared prediction overlay cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Monitoring
	PerPage        int
	SearchDebounce time.Duration
	GlobalSearch   bool
	DiscardStale   bool
	PredictionTTL  time.Duration
	Timezone       string

	// Metrics
	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),

		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		APITimeout:  time.Duration(getEnvAsInt("API_TIMEOUT", 15)) * time.Second,
		APIEmail:    getEnv("API_EMAIL", ""),
		APIPassword: getEnv("API_PASSWORD", ""),

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "ship_operation"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		PerPage:        getEnvAsInt("PER_PAGE", 10),
		SearchDebounce: time.Duration(getEnvAsInt("SEARCH_DEBOUNCE_MS", 250)) * time.Millisecond,
		GlobalSearch:   getEnvAsBool("GLOBAL_SEARCH", false),
		DiscardStale:   getEnvAsBool("DISCARD_STALE", true),
		PredictionTTL:  time.Duration(getEnvAsInt("PREDICTION_TTL", 600)) * time.Second,
		Timezone:       getEnv("TZ_LOCATION", "Asia/Jakarta"),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "ship_ops"),
	}

	if !ValidPerPage(config.PerPage) {
		config.PerPage = 10
	}

	return config, nil
}

// ValidPerPage reports whether n is one of the page sizes the monitoring table offers
func ValidPerPage(n int) bool {
	switch n {
	case 10, 20, 50, 100:
		return true
	}
	return false
}

// Location resolves the configured timezone, falling back to the local zone
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.Local
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

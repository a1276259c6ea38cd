package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported persistence backends
const (
	StoreSQLite  = "sqlite"
	StoreMongoDB = "mongodb"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// Persistence configuration
	StoreBackend string `json:"store_backend"`
	DatabasePath string `json:"database_path"`

	// MongoDB configuration
	MongoURI              string `json:"mongo_uri"`
	MongoDatabase         string `json:"mongo_database"`
	BeneficiaryCollection string `json:"mongo_beneficiary_collection"`

	// Redis configuration, empty URI disables the lookup cache
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl"`

	// Export and document output
	ExportPath       string `json:"export_path"`
	DocumentDir      string `json:"document_dir"`
	DocumentLocation string `json:"document_location"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present; real environment
// variables take precedence over it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnvOrDefault("PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	redisTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	tracingEnabled, err := strconv.ParseBool(getEnvOrDefault("TRACING_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	backend := getEnvOrDefault("STORE_BACKEND", StoreSQLite)
	if backend != StoreSQLite && backend != StoreMongoDB {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: must be %q or %q", backend, StoreSQLite, StoreMongoDB)
	}

	return &Config{
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		StoreBackend: backend,
		DatabasePath: getEnvOrDefault("DATABASE_PATH", "database.db"),

		MongoURI:              getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:         getEnvOrDefault("MONGODB_DATABASE", "mcmv"),
		BeneficiaryCollection: getEnvOrDefault("MONGODB_BENEFICIARY_COLLECTION", "beneficiarios"),

		RedisURI:      getEnvOrDefault("REDIS_URI", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		ExportPath:       getEnvOrDefault("EXPORT_PATH", "cadastros.xlsx"),
		DocumentDir:      getEnvOrDefault("DOCUMENT_DIR", "."),
		DocumentLocation: getEnvOrDefault("DOCUMENT_LOCATION", "Mojuí dos Campos - Pará"),

		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}, nil
}

// CacheEnabled reports whether a Redis lookup cache is configured
func (c *Config) CacheEnabled() bool {
	return c.RedisURI != ""
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

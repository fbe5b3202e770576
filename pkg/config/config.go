package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port         string
	Env          string
	LogLevel     string
	DBDriver     string
	PostgresURL  string
	SQLitePath   string
	MetricsOn    bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBDriver:     getEnv("DB_DRIVER", DriverSQLite),
		PostgresURL:  getEnv("POSTGRES_CONN_STR", ""),
		SQLitePath:   getEnv("SQLITE_PATH", "userposts.db"),
		MetricsOn:    getEnvBool("METRICS_ENABLED", true),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "userposts"),
	}
}

// IsDevelopment reports whether the app runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

package common

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Batch    BatchConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds the read-only API server configuration
type ServerConfig struct {
	HTTPAddr string
}

// BatchConfig holds batch ingestion defaults
type BatchConfig struct {
	Dir          string
	Pattern      string
	PdftotextBin string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", dsnFromLibpqEnv()),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		Batch: BatchConfig{
			Dir:          getEnv("BATCH_DIR", "./downloads"),
			Pattern:      getEnv("BATCH_PATTERN", "ABN*.pdf"),
			PdftotextBin: getEnv("PDFTOTEXT_BIN", "pdftotext"),
		},
	}
}

// dsnFromLibpqEnv assembles a DSN from the standard libpq variables
// (PGHOST, PGPORT, PGDATABASE, PGUSER, PGPASSWORD). DB_URL wins when both
// are set.
func dsnFromLibpqEnv() string {
	host := os.Getenv("PGHOST")
	if host == "" {
		return ""
	}
	port := getEnv("PGPORT", "5432")
	name := getEnv("PGDATABASE", "abr")
	user := getEnv("PGUSER", "postgres")
	pass := os.Getenv("PGPASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, name)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL (or PGHOST et al.) is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}

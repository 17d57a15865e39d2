// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/marketcal/internal/ical"
	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

// Config holds application configuration
type Config struct {
	DataDir            string // Directory of the artifact archive database; created only when the archive opens
	OutputDir          string // Directory the .ics file is written to
	TablesFile         string // Optional YAML tables; empty selects the built-in 2025 tables
	Style              ical.Style
	LogLevel           string
	LogPretty          bool
	Port               int
	DevMode            bool
	ArchiveEnabled     bool
	RegenerateSchedule string // cron spec used by `serve`
	Publish            *PublishConfig
}

// PublishConfig holds S3-compatible bucket settings for publishing the calendar
type PublishConfig struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string // Custom endpoint for R2/MinIO; empty uses AWS
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string // Key prefix, e.g. "calendars/"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	style, err := ical.ParseStyle(getEnv("MARKETCAL_STYLE", string(ical.StyleReference)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OutputDir:          getEnv("MARKETCAL_OUTPUT_DIR", "."),
		TablesFile:         getEnv("MARKETCAL_TABLES_FILE", ""),
		Style:              style,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", true),
		Port:               getEnvAsInt("GO_PORT", 8001),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		ArchiveEnabled:     getEnvAsBool("MARKETCAL_ARCHIVE", false),
		RegenerateSchedule: getEnv("MARKETCAL_REGENERATE_SCHEDULE", "@daily"),
		Publish:            loadPublishConfig(),
	}

	// Archiving is opt-in; the directory itself is created by di.InitializeDatabases
	if cfg.ArchiveEnabled {
		cfg.DataDir = getEnv("MARKETCAL_DATA_DIR", "./data")
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RegenerateSchedule == "" {
		return fmt.Errorf("regenerate schedule must not be empty")
	}
	if c.Publish != nil && c.Publish.Enabled {
		if c.Publish.Bucket == "" {
			return fmt.Errorf("MARKETCAL_S3_BUCKET is required when publishing is enabled")
		}
		if (c.Publish.AccessKeyID == "") != (c.Publish.SecretAccessKey == "") {
			return fmt.Errorf("MARKETCAL_S3_ACCESS_KEY_ID and MARKETCAL_S3_SECRET_ACCESS_KEY must be set together")
		}
	}
	return nil
}

// LoadTables returns the configured calendar tables, falling back to the built-in ones
func (c *Config) LoadTables() (*market_calendar.Tables, error) {
	if c.TablesFile == "" {
		return market_calendar.DefaultTables()
	}
	return market_calendar.LoadTables(c.TablesFile)
}

// DatabasePath returns the archive database file path
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "marketcal.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// loadPublishConfig loads bucket publishing settings; publishing is off unless a bucket is named
func loadPublishConfig() *PublishConfig {
	bucket := getEnv("MARKETCAL_S3_BUCKET", "")
	return &PublishConfig{
		Enabled:         getEnvAsBool("MARKETCAL_S3_ENABLED", bucket != ""),
		Bucket:          bucket,
		Region:          getEnv("MARKETCAL_S3_REGION", "auto"),
		Endpoint:        getEnv("MARKETCAL_S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("MARKETCAL_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("MARKETCAL_S3_SECRET_ACCESS_KEY", ""),
		Prefix:          getEnv("MARKETCAL_S3_PREFIX", ""),
	}
}

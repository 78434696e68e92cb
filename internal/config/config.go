package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Storage  StorageConfig
	Engine   EngineConfig
	Cron     CronConfig
	Backup   BackupConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// StorageConfig selects the persistence backend for shifts, logs and statuses
type StorageConfig struct {
	Driver     string // postgres, sqlite
	SQLitePath string
}

// EngineConfig holds settings of the attendance engine
type EngineConfig struct {
	RemarksLanguage string // vi, en
}

type CronConfig struct {
	Enabled          bool
	FinalizeInterval time.Duration
	LookbackDays     int
}

// BackupConfig controls the scheduled backup archive on local disk
type BackupConfig struct {
	ArchiveEnabled  bool
	ArchiveDir      string
	ArchiveInterval time.Duration
	ArchiveKeep     int
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shiftsavvy"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Local"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{"http://localhost:3000"}
	}

	config.Storage = StorageConfig{
		Driver:     getEnv("STORAGE_DRIVER", StorageDriverSQLite),
		SQLitePath: getEnv("SQLITE_PATH", "data/shiftsavvy.db"),
	}

	config.Engine = EngineConfig{
		RemarksLanguage: getEnv("REMARKS_LANGUAGE", "vi"),
	}

	// Cron configuration
	cronEnabled, err := strconv.ParseBool(getEnv("CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_ENABLED: %w", err)
	}
	finalizeInterval, err := time.ParseDuration(getEnv("CRON_FINALIZE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_FINALIZE_INTERVAL: %w", err)
	}
	lookbackDays, err := strconv.Atoi(getEnv("CRON_FINALIZE_LOOKBACK_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_FINALIZE_LOOKBACK_DAYS: %w", err)
	}

	config.Cron = CronConfig{
		Enabled:          cronEnabled,
		FinalizeInterval: finalizeInterval,
		LookbackDays:     lookbackDays,
	}

	// Backup archive configuration
	archiveEnabled, err := strconv.ParseBool(getEnv("BACKUP_ARCHIVE_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_ARCHIVE_ENABLED: %w", err)
	}
	archiveInterval, err := time.ParseDuration(getEnv("BACKUP_ARCHIVE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_ARCHIVE_INTERVAL: %w", err)
	}
	archiveKeep, err := strconv.Atoi(getEnv("BACKUP_ARCHIVE_KEEP", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_ARCHIVE_KEEP: %w", err)
	}

	config.Backup = BackupConfig{
		ArchiveEnabled:  archiveEnabled,
		ArchiveDir:      getEnv("BACKUP_ARCHIVE_DIR", "data/backups"),
		ArchiveInterval: archiveInterval,
		ArchiveKeep:     archiveKeep,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	if c.Engine.RemarksLanguage != "vi" && c.Engine.RemarksLanguage != "en" {
		return fmt.Errorf("REMARKS_LANGUAGE must be one of: vi, en")
	}

	if c.Cron.FinalizeInterval <= 0 {
		return fmt.Errorf("CRON_FINALIZE_INTERVAL must be positive")
	}
	if c.Cron.LookbackDays < 1 {
		return fmt.Errorf("CRON_FINALIZE_LOOKBACK_DAYS must be at least 1")
	}

	if c.Backup.ArchiveEnabled {
		if c.Backup.ArchiveInterval <= 0 {
			return fmt.Errorf("BACKUP_ARCHIVE_INTERVAL must be positive")
		}
		if c.Backup.ArchiveKeep < 0 {
			return fmt.Errorf("BACKUP_ARCHIVE_KEEP must not be negative")
		}
	}
	return nil
}

// Location returns the wall-clock location shift times are anchored in
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

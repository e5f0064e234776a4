package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported store drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Database  DatabaseConfig
	Scheduler SchedulerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // sqlite file
	PoolSize int
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	OverdueScanSpec string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: database,
		Scheduler: SchedulerConfig{
			OverdueScanSpec: getEnv("OVERDUE_SCAN_CRON", "30 8 * * *"),
		},
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DRIVER: %s]", appMode, database.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config
func loadDatabaseConfig() (DatabaseConfig, error) {
	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", DriverMySQL)))
	if driver != DriverMySQL && driver != DriverSQLite {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be '%s' or '%s')", driver, DriverMySQL, DriverSQLite)
	}

	poolSize, err := strconv.Atoi(getEnv("DB_POOL_SIZE", "10"))
	if err != nil || poolSize < 1 {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_POOL_SIZE: '%s'", os.Getenv("DB_POOL_SIZE"))
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3307"),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "bibliotheque"),
		Path:     getEnv("DB_PATH", "bibliotheque.db"),
		PoolSize: poolSize,
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}

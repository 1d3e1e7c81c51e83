// Package config provides configuration management for the alpha buyer
// scanner. It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Etherscan   EtherscanConfig
	DexScreener DexScreenerConfig
	Syve        SyveConfig
	Scan        ScanConfig
	Cache       CacheConfig
	Logging     LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// EtherscanConfig holds Etherscan API configuration.
// APIKey is required for transfer ingestion; contract-code lookups work
// without one but are heavily throttled by the upstream.
type EtherscanConfig struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
}

// DexScreenerConfig holds DexScreener API configuration. No key required.
type DexScreenerConfig struct {
	BaseURL string
}

// SyveConfig holds Syve portfolio analytics API configuration.
// APIKey is required.
type SyveConfig struct {
	APIKey  string
	BaseURL string
}

// ScanConfig holds scan pipeline tuning knobs
type ScanConfig struct {
	TransferLimit            int // earliest transfers fetched per token
	MaxBuyers                int // buyer list cap
	PageSize                 int // wallets classified per page
	ContractCheckConcurrency int // parallel contract-code lookups
	WalletConcurrency        int // parallel per-wallet aggregations
}

// CacheConfig holds the optional Redis buyer-list cache configuration.
// An empty Host disables caching and every scan recomputes the buyer list.
type CacheConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether the buyer-list cache is configured.
func (c CacheConfig) Enabled() bool {
	return c.Host != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Etherscan: EtherscanConfig{
			APIKey:            getEnv("ETHERSCAN_API_KEY", ""),
			BaseURL:           getEnv("ETHERSCAN_BASE_URL", "https://api.etherscan.io/api"),
			RequestsPerSecond: getEnvAsFloat("ETHERSCAN_REQUESTS_PER_SECOND", 3.0),
		},
		DexScreener: DexScreenerConfig{
			BaseURL: getEnv("DEXSCREENER_BASE_URL", "https://api.dexscreener.com"),
		},
		Syve: SyveConfig{
			APIKey:  getEnv("SYVE_API_KEY", ""),
			BaseURL: getEnv("SYVE_BASE_URL", "https://api.syve.ai"),
		},
		Scan: ScanConfig{
			TransferLimit:            getEnvAsInt("SCAN_TRANSFER_LIMIT", 200),
			MaxBuyers:                getEnvAsInt("SCAN_MAX_BUYERS", 200),
			PageSize:                 getEnvAsInt("SCAN_PAGE_SIZE", 10),
			ContractCheckConcurrency: getEnvAsInt("SCAN_CONTRACT_CHECK_CONCURRENCY", 4),
			WalletConcurrency:        getEnvAsInt("SCAN_WALLET_CONCURRENCY", 4),
		},
		Cache: CacheConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("CACHE_TTL", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

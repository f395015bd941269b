package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Service configuration constants
const (
	ServiceName    = "sales-service"
	ServiceVersion = "0.1.0"
)

// Config holds environment-specific configuration for the sales service.
type Config struct {
	ListenAddr string

	// Collaborator base URLs
	CustomersServiceURL string
	InventoryServiceURL string

	// Path of the bolt database file holding committed sales.
	// Empty means in-memory storage (tests, local runs).
	SalesDBPath string

	// HTTP client knobs applied to every collaborator call.
	ClientTimeout   time.Duration
	ClientRetries   int
	ClientRetryWait time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	timeout, err := getDurationOrDefault("CLIENT_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	retryWait, err := getDurationOrDefault("CLIENT_RETRY_WAIT", 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	retries, err := getIntOrDefault("CLIENT_RETRIES", 2)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr:          getEnvOrDefault("LISTEN_ADDR", ":8081"),
		CustomersServiceURL: getEnvOrDefault("CUSTOMERS_SERVICE_URL", "http://localhost:5001"),
		InventoryServiceURL: getEnvOrDefault("INVENTORY_SERVICE_URL", "http://localhost:5002"),
		SalesDBPath:         os.Getenv("SALES_DB_PATH"),
		ClientTimeout:       timeout,
		ClientRetries:       retries,
		ClientRetryWait:     retryWait,
	}

	if cfg.CustomersServiceURL == "" {
		return nil, fmt.Errorf("CUSTOMERS_SERVICE_URL cannot be empty")
	}
	if cfg.InventoryServiceURL == "" {
		return nil, fmt.Errorf("INVENTORY_SERVICE_URL cannot be empty")
	}
	if cfg.ClientTimeout <= 0 {
		return nil, fmt.Errorf("CLIENT_TIMEOUT must be positive")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:5001", cfg.CustomersServiceURL)
	assert.Equal(t, "http://localhost:5002", cfg.InventoryServiceURL)
	assert.Empty(t, cfg.SalesDBPath)
	assert.Equal(t, 5*time.Second, cfg.ClientTimeout)
	assert.Equal(t, 2, cfg.ClientRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.ClientRetryWait)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("CUSTOMERS_SERVICE_URL", "http://customers:5000")
	t.Setenv("INVENTORY_SERVICE_URL", "http://inventory:5000")
	t.Setenv("SALES_DB_PATH", "/tmp/sales.db")
	t.Setenv("CLIENT_TIMEOUT", "10s")
	t.Setenv("CLIENT_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "http://customers:5000", cfg.CustomersServiceURL)
	assert.Equal(t, "http://inventory:5000", cfg.InventoryServiceURL)
	assert.Equal(t, "/tmp/sales.db", cfg.SalesDBPath)
	assert.Equal(t, 10*time.Second, cfg.ClientTimeout)
	assert.Equal(t, 5, cfg.ClientRetries)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CLIENT_TIMEOUT", "not-a-duration")
	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "warehouseDB", cfg.MongoDatabase)
	assert.Equal(t, "products", cfg.MongoCollection)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.RateLimitEnabled)
	assert.Empty(t, cfg.SeedFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("STORE_DRIVER", " Memory ")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("STORE_TIMEOUT", "750ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 750*time.Millisecond, cfg.StoreTimeout)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "MONGO_DATABASE: inventory\nSEED_FILE: /data/products.json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MONGO_COLLECTION", "items")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "inventory", cfg.MongoDatabase)
	assert.Equal(t, "/data/products.json", cfg.SeedFile)
	assert.Equal(t, "items", cfg.MongoCollection)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTPAddr:        ":3000",
			StoreDriver:     StoreMongo,
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "warehouseDB",
			MongoCollection: "products",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid mongo", func(*Config) {}, false},
		{"memory needs no uri", func(c *Config) { c.StoreDriver = StoreMemory; c.MongoURI = "" }, false},
		{"missing address", func(c *Config) { c.HTTPAddr = "" }, true},
		{"unknown driver", func(c *Config) { c.StoreDriver = "postgres" }, true},
		{"mongo without database", func(c *Config) { c.MongoDatabase = "" }, true},
		{"rate limit without budget", func(c *Config) { c.RateLimitEnabled = true }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

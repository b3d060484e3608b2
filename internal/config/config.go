package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	StoreDriver     string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	StoreTimeout    time.Duration
	SeedFile        string

	LogLevel  string
	LogFormat string

	RateLimitEnabled   bool
	RateLimitPerMinute int
	RedisAddr          string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "warehouseDB")
	v.SetDefault("MONGO_COLLECTION", "products")
	v.SetDefault("STORE_TIMEOUT", "3s")
	v.SetDefault("SEED_FILE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("REDIS_ADDR", "")
}

// Load reads configuration from the environment and, when path is not empty,
// from a config file. Environment variables win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		HTTPAddr:           v.GetString("HTTP_ADDR"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		StoreDriver:        strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		MongoURI:           v.GetString("MONGO_URI"),
		MongoDatabase:      v.GetString("MONGO_DATABASE"),
		MongoCollection:    v.GetString("MONGO_COLLECTION"),
		StoreTimeout:       v.GetDuration("STORE_TIMEOUT"),
		SeedFile:           v.GetString("SEED_FILE"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		RateLimitEnabled:   v.GetBool("RATE_LIMIT_ENABLED"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" || c.MongoCollection == "" {
			return fmt.Errorf("MONGO_URI, MONGO_DATABASE and MONGO_COLLECTION are required for the mongo store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RateLimitEnabled && c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

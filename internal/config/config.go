package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Backend   BackendConfig   `yaml:"backend"`
	Storage   StorageConfig   `yaml:"storage"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Assistant AssistantConfig `yaml:"assistant"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Logger    LoggerConfig    `yaml:"logger"`
}

type HTTPConfig struct {
	Port               string        `yaml:"port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
}

type BackendConfig struct {
	BaseURL          string        `yaml:"base_url"`
	Timeout          time.Duration `yaml:"timeout"`
	BreakerFailures  uint32        `yaml:"breaker_failures"`
	BreakerOpenDelay time.Duration `yaml:"breaker_open_delay"`
}

type StorageConfig struct {
	TokenDBPath      string        `yaml:"token_db_path"`
	RedisAddr        string        `yaml:"redis_addr"`
	CartCacheTTL     time.Duration `yaml:"cart_cache_ttl"`
	MongoURI         string        `yaml:"mongo_uri"`
	MongoDatabase    string        `yaml:"mongo_database"`
	OrderStoreDriver string        `yaml:"order_store_driver"`
	OrderStoreDSN    string        `yaml:"order_store_dsn"`
}

// SessionsConfig bounds how long an untouched shopper session stays in memory.
type SessionsConfig struct {
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

type KafkaConfig struct {
	Brokers    []string      `yaml:"brokers"`
	Topic      string        `yaml:"topic"`
	PollPeriod time.Duration `yaml:"poll_period"`
}

type AssistantConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type TrackingConfig struct {
	ShipAfter     time.Duration `yaml:"ship_after"`
	DispatchAfter time.Duration `yaml:"dispatch_after"`
}

type LoggerConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:               "8080",
			RequestTimeout:     30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			MaxRequestBodySize: 1 << 20,
		},
		Backend: BackendConfig{
			BaseURL:          "http://127.0.0.1:8000/api",
			Timeout:          5 * time.Second,
			BreakerFailures:  5,
			BreakerOpenDelay: 30 * time.Second,
		},
		Storage: StorageConfig{
			TokenDBPath:      "storefront.db",
			CartCacheTTL:     15 * time.Minute,
			MongoDatabase:    "storefront",
			OrderStoreDriver: "sqlite",
			OrderStoreDSN:    "orders.db",
		},
		Kafka: KafkaConfig{
			Topic:      "storefront-orders",
			PollPeriod: time.Second,
		},
		Sessions: SessionsConfig{
			IdleTimeout:     30 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Assistant: AssistantConfig{
			Model: "gemini-3-flash-preview",
		},
		Tracking: TrackingConfig{
			ShipAfter:     5 * time.Second,
			DispatchAfter: 8 * time.Second,
		},
		Logger: LoggerConfig{
			Mode:  "development",
			Level: "info",
		},
	}
}

// Load reads defaults, then the optional YAML file at path, then environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTP.Port = getEnv("HTTP_PORT", c.HTTP.Port)
	c.Backend.BaseURL = getEnv("BACKEND_BASE_URL", c.Backend.BaseURL)
	c.Storage.TokenDBPath = getEnv("TOKEN_DB_PATH", c.Storage.TokenDBPath)
	c.Storage.RedisAddr = getEnv("REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.MongoURI = getEnv("MONGO_URI", c.Storage.MongoURI)
	c.Storage.MongoDatabase = getEnv("MONGO_DATABASE", c.Storage.MongoDatabase)
	c.Storage.OrderStoreDriver = getEnv("ORDER_STORE_DRIVER", c.Storage.OrderStoreDriver)
	c.Storage.OrderStoreDSN = getEnv("ORDER_STORE_DSN", c.Storage.OrderStoreDSN)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Assistant.APIKey = getEnv("GEMINI_API_KEY", c.Assistant.APIKey)
	c.Assistant.Model = getEnv("GEMINI_MODEL", c.Assistant.Model)
	c.Logger.Mode = getEnv("LOG_MODE", c.Logger.Mode)
	c.Logger.Level = getEnv("LOG_LEVEL", c.Logger.Level)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"REQUEST_TIMEOUT", &c.HTTP.RequestTimeout},
		{"SHUTDOWN_TIMEOUT", &c.HTTP.ShutdownTimeout},
		{"BACKEND_TIMEOUT", &c.Backend.Timeout},
		{"BREAKER_OPEN_DELAY", &c.Backend.BreakerOpenDelay},
		{"CART_CACHE_TTL", &c.Storage.CartCacheTTL},
		{"SESSION_IDLE_TIMEOUT", &c.Sessions.IdleTimeout},
		{"SESSION_CLEANUP_INTERVAL", &c.Sessions.CleanupInterval},
		{"KAFKA_POLL_PERIOD", &c.Kafka.PollPeriod},
		{"TRACKING_SHIP_AFTER", &c.Tracking.ShipAfter},
		{"TRACKING_DISPATCH_AFTER", &c.Tracking.DispatchAfter},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := cast.ToDurationE(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("BREAKER_FAILURES"); v != "" {
		n, err := cast.ToUint32E(v)
		if err != nil {
			return fmt.Errorf("invalid BREAKER_FAILURES: %w", err)
		}
		c.Backend.BreakerFailures = n
	}
	if v := os.Getenv("MAX_REQUEST_BODY_SIZE"); v != "" {
		n, err := cast.ToInt64E(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_REQUEST_BODY_SIZE: %w", err)
		}
		c.HTTP.MaxRequestBodySize = n
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Config struct {
	BackendURL   string        `mapstructure:"BACKEND_URL"`
	HTTPAddr     string        `mapstructure:"HTTP_ADDR"`
	GracePeriod  time.Duration `mapstructure:"GRACE_PERIOD"`
	FetchTimeout time.Duration `mapstructure:"FETCH_TIMEOUT"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	TerminalID   string        `mapstructure:"TERMINAL_ID"`

	PGURL       string        `mapstructure:"PG_URL"`
	KafkaAddr   string        `mapstructure:"KAFKA_ADDR"`
	OutboxTopic string        `mapstructure:"OUTBOX_TOPIC"`
	RedisAddr   string        `mapstructure:"REDIS_ADDR"`
	IdemTTL     time.Duration `mapstructure:"IDEMPOTENCY_TTL"`

	OTelEndpoint string `mapstructure:"OTEL_ENDPOINT"`
}

var defaults = map[string]any{
	"BACKEND_URL":     "http://localhost:8000/api",
	"HTTP_ADDR":       ":8080",
	"GRACE_PERIOD":    "7s",
	"FETCH_TIMEOUT":   "10s",
	"LOG_LEVEL":       "info",
	"TERMINAL_ID":     "",
	"PG_URL":          "",
	"KAFKA_ADDR":      "localhost:9092",
	"OUTBOX_TOPIC":    "pos.order.events",
	"REDIS_ADDR":      "",
	"IDEMPOTENCY_TTL": "24h",
	"OTEL_ENDPOINT":   "",
}

// Load reads configuration from the environment, optionally merged over a
// config file. Environment variables win.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.TerminalID == "" {
		cfg.TerminalID = uuid.NewString()
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.GracePeriod < 0 {
		return fmt.Errorf("GRACE_PERIOD must not be negative, got %s", c.GracePeriod)
	}
	return nil
}

func (c *Config) JournalEnabled() bool { return c.PGURL != "" }

func (c *Config) GuardEnabled() bool { return c.RedisAddr != "" }

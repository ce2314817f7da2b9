package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	NatsURL         string
	EventChannel    string
	FeedCacheTTL    time.Duration
	CleanupInterval time.Duration
	ChatKeepAlive   time.Duration
	OpenAIAPIKey    string
	OpenAIModel     string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SPILLZONE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SpillZone API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("event.channel", "spillzone:events")
	v.SetDefault("feed.cache_ttl", "15s")
	v.SetDefault("cleanup.interval", "10m")
	v.SetDefault("chat.keepalive", "30s")
	v.SetDefault("openai.model", "gpt-4o-mini")

	feedTTL, err := parseDurationSetting(v.GetString("feed.cache_ttl"), "feed cache ttl")
	if err != nil {
		return Config{}, err
	}

	cleanupInterval, err := parseDurationSetting(v.GetString("cleanup.interval"), "cleanup interval")
	if err != nil {
		return Config{}, err
	}

	keepAlive, err := parseDurationSetting(v.GetString("chat.keepalive"), "chat keepalive")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NatsURL:         v.GetString("nats.url"),
		EventChannel:    v.GetString("event.channel"),
		FeedCacheTTL:    feedTTL,
		CleanupInterval: cleanupInterval,
		ChatKeepAlive:   keepAlive,
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		OpenAIModel:     v.GetString("openai.model"),
	}

	return cfg, nil
}

func parseDurationSetting(raw, name string) (time.Duration, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s must be provided", name)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return parsed, nil
}

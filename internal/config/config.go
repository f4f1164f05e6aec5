package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultRemoEndpoint = "https://api.nature.global/1"

type Config struct {
	App struct {
		Env         string
		LogLevel    slog.Level
		Port        string
		FrontendURL string
	}
	Remo struct {
		AccessToken string
		Endpoint    string
		Timeout     time.Duration
	}
	DB struct {
		Driver      string
		URL         string
		AccessKey   string
		AutoMigrate bool
	}
	Redis struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
	}
	MQTT struct {
		Broker      string
		Port        int
		ClientID    string
		TopicPrefix string
	}
	Workers struct {
		IngestEnabled   bool
		RefreshInterval time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
}

func (c *Config) Debug() bool {
	return c.App.Env == "dev"
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Env = getEnv("APP_ENV", "dev")
	cfg.App.LogLevel = getEnvAsLogLevel("LOG_LEVEL", slog.LevelInfo)
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// Nature Remo
	cfg.Remo.AccessToken = getEnv("NATURE_REMO_ACCESS_TOKEN", "")
	cfg.Remo.Endpoint = strings.TrimRight(getEnv("NATURE_REMO_API_ENDPOINT", DefaultRemoEndpoint), "/")
	cfg.Remo.Timeout = getEnvAsDuration("NATURE_REMO_TIMEOUT", 0)

	// Store
	cfg.DB.Driver = getEnv("DB_DRIVER", "postgres")
	cfg.DB.URL = getEnv("DB_URL", "")
	cfg.DB.AccessKey = getEnv("DB_ACCESS_KEY", "")
	cfg.DB.AutoMigrate = getEnvAsBool("DB_AUTO_MIGRATE", true)

	// Redis
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// MQTT
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "")
	cfg.MQTT.Port = getEnvAsInt("MQTT_PORT", 1883)
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "remo-monitor")
	cfg.MQTT.TopicPrefix = strings.TrimRight(getEnv("MQTT_TOPIC_PREFIX", "remo/readings"), "/")

	// Workers
	cfg.Workers.IngestEnabled = getEnvAsBool("INGEST_WORKER_ENABLED", false)
	cfg.Workers.RefreshInterval = getEnvAsDuration("REFRESH_INTERVAL", 5*time.Minute)
	if cfg.Workers.RefreshInterval <= 0 {
		cfg.Workers.RefreshInterval = 5 * time.Minute
	}

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return dur
		}
	}
	return defaultValue
}

func getEnvAsLogLevel(key string, defaultValue slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultValue
	}
}

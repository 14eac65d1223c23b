package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is everything the process needs, resolved from the environment once
// at startup.
type Config struct {
	Env  string
	Port string

	LogLevel  string
	LogFormat string

	Issuer        string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	CacheTTL      time.Duration

	DatabaseFile string
	PepperFile   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ShutdownGracePeriod time.Duration
}

// LoadConfig reads configuration from the environment. The two signing
// secrets are the only hard requirements; everything else has a development
// default.
func LoadConfig() (Config, error) {
	cfg := Config{
		Env:       getEnvOrDefault("ENV", "development"),
		Port:      getEnvOrDefault("PORT", "8080"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),

		Issuer:        getEnvOrDefault("AUTH_ISSUER", "https://erp.example.com"),
		AccessSecret:  os.Getenv("AUTH_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("AUTH_REFRESH_SECRET"),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "staffauth.db"),
		PepperFile:   os.Getenv("AUTH_PEPPER_FILE"),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.AccessSecret == "" {
		return Config{}, fmt.Errorf("AUTH_ACCESS_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return Config{}, fmt.Errorf("AUTH_REFRESH_SECRET is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return Config{}, fmt.Errorf("AUTH_ACCESS_SECRET and AUTH_REFRESH_SECRET must differ")
	}

	cfg.AccessTTL = time.Duration(getEnvIntOrDefault("AUTH_ACCESS_TTL_MINUTES", 15)) * time.Minute
	cfg.RefreshTTL = time.Duration(getEnvIntOrDefault("AUTH_REFRESH_TTL_YEARS", 2)) * 365 * 24 * time.Hour
	cfg.CacheTTL = time.Duration(getEnvIntOrDefault("AUTH_CACHE_TTL_MINUTES", 15)) * time.Minute

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppURL                 string
	SyncURL                string
	DatabaseDSN            string
	RedisAddr              string
	RedisKeyPrefix         string
	JWTSecret              string
	TokenTTL               time.Duration
	RemoteURL              string
	RemoteTimeout          time.Duration
	SyncDebounce           time.Duration
	UndoGrace              time.Duration
	RateLimit              int
	ShutdownTimeoutSeconds int
	CORSAllowedOrigins     []string
	SettingsFile           string
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	syncHost := getEnv("SYNC_HOST", "127.0.0.1")
	syncPort := getEnv("SYNC_PORT", "8090")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		SyncURL:                fmt.Sprintf("%s:%s", syncHost, syncPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tracker.db"),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisKeyPrefix:         getEnv("REDIS_KEY_PREFIX", "tracker:"),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		TokenTTL:               time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 720)) * time.Hour,
		RemoteURL:              getEnv("REMOTE_URL", ""),
		RemoteTimeout:          getEnvAsDuration("REMOTE_TIMEOUT_MS", 1500, time.Millisecond),
		SyncDebounce:           getEnvAsDuration("SYNC_DEBOUNCE_MS", 500, time.Millisecond),
		UndoGrace:              getEnvAsDuration("UNDO_GRACE_SECONDS", 5, time.Second),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		CORSAllowedOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SettingsFile:           getEnv("SETTINGS_FILE", "settings.toml"),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_HOST/APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.TokenTTL <= 0 {
		log.Fatal("TOKEN_TTL_HOURS must be greater than 0")
	}
	if cfg.RemoteTimeout <= 0 {
		log.Fatal("REMOTE_TIMEOUT_MS must be greater than 0")
	}
	if cfg.SyncDebounce < 0 {
		log.Fatal("SYNC_DEBOUNCE_MS must not be negative")
	}
	if cfg.UndoGrace <= 0 {
		log.Fatal("UNDO_GRACE_SECONDS must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		log.Fatal("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
}

// RequireSyncSecret stops the sync API from starting without a signing secret.
func (c Config) RequireSyncSecret() {
	if len(c.JWTSecret) < 16 {
		log.Fatal("JWT_SECRET must be at least 16 characters")
	}
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal int, unit time.Duration) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultVal)) * unit
}

func getEnvAsList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	OwnerUserID     int
	RedisURL        string
	FlashTTL        time.Duration
	TelegramToken   string
	TelegramChatID  int64
	DigestTime      string
	LogLevel        log.Level
	Debug           bool
	ShutdownTimeout time.Duration
}

// BotEnabled reports whether the Telegram adapter should start.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		DatabaseURL:     env("DATABASE_URL", "task_tracker.db"),
		RedisURL:        env("REDIS_URL", ""),
		TelegramToken:   env("TELEGRAM_TOKEN", ""),
		DigestTime:      env("DIGEST_TIME", "08:00"),
		OwnerUserID:     1,
		FlashTTL:        time.Minute,
		LogLevel:        log.InfoLevel,
		ShutdownTimeout: 10 * time.Second,
	}

	var err error
	if raw := env("OWNER_USER_ID", ""); raw != "" {
		if cfg.OwnerUserID, err = strconv.Atoi(raw); err != nil || cfg.OwnerUserID <= 0 {
			return cfg, fmt.Errorf("invalid OWNER_USER_ID %q", raw)
		}
	}
	if raw := env("TELEGRAM_CHAT_ID", ""); raw != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return cfg, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q", raw)
		}
	}
	if cfg.FlashTTL, err = parsePositiveDuration("FLASH_TTL", cfg.FlashTTL); err != nil {
		return cfg, err
	}
	if cfg.ShutdownTimeout, err = parsePositiveDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return cfg, err
	}
	if raw := env("LOG_LEVEL", ""); raw != "" {
		if cfg.LogLevel, err = log.ParseLevel(raw); err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}
	if raw := env("DEBUG", ""); raw != "" {
		if cfg.Debug, err = strconv.ParseBool(raw); err != nil {
			return cfg, fmt.Errorf("invalid DEBUG %q", raw)
		}
		if cfg.Debug {
			cfg.LogLevel = log.DebugLevel
		}
	}

	return cfg, nil
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parsePositiveDuration(key string, def time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	DSN           string
	Port          string
	SessionSecret string
	SecureCookies bool // set Secure on the session and cartId cookies (HTTPS only)
	RedisAddr     string
	CacheTTL      time.Duration
	LogLevel      string
}

// Debug reports whether verbose logging and gin debug mode are on.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// CacheEnabled reports whether a redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// LoadDotEnv грузит .env из текущей, родительской папки и корня репо (когда запускаем из cmd/server).
// Если файла нет, это не ошибка.
func LoadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
		}
	}
}

// Load reads the config from the process environment.
func Load() (*Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup func, so tests need not touch os env.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		DSN:           get("DB_DSN", ""),
		Port:          get("APP_PORT", "8080"),
		SessionSecret: get("SESSION_SECRET", "dev_fallback_secret"),
		RedisAddr:     get("REDIS_ADDR", ""),
		LogLevel:      strings.ToLower(get("LOG_LEVEL", "info")),
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("DB_DSN is empty (check your .env)")
	}

	ttl, err := time.ParseDuration(get("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", ttl)
	}
	cfg.CacheTTL = ttl

	secure, err := strconv.ParseBool(get("COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}
	cfg.SecureCookies = secure
	return cfg, nil
}

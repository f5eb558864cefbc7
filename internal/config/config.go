package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server's runtime settings.
type Config struct {
	HTTPAddr   string
	GRPCAddr   string
	DBPath     string
	RulesDir   string        // base directory holding games/*.yaml
	RedisAddr  string        // empty disables the catalog cache
	CacheTTL   time.Duration // catalog cache entry lifetime
	SessionTTL time.Duration // idle session lifetime, 0 keeps sessions forever
	RateLimit  int           // requests per minute per client IP, 0 disables
	LogLevel   slog.Level
}

// Load reads .env (if present) and then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() (Config, error) {
	c := Config{
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		GRPCAddr:  envOr("GRPC_ADDR", ":9090"),
		DBPath:    envOr("DB_PATH", "data/cards.db"),
		RulesDir:  envOr("RULES_DIR", "config"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}

	var errs []error
	var err error
	if c.CacheTTL, err = durationOr("CACHE_TTL", 10*time.Minute); err != nil {
		errs = append(errs, err)
	}
	if c.SessionTTL, err = durationOr("SESSION_TTL", 2*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimit, err = intOr("RATE_LIMIT", 80); err != nil {
		errs = append(errs, err)
	}
	if c.LogLevel, err = parseLogLevel(envOr("LOG_LEVEL", "info")); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

func intOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}

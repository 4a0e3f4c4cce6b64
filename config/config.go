package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Port              string
	LogLevel          string
	LogPretty         bool
	RedisAddr         string
	CacheTTL          time.Duration
	RateLimitCapacity int
	RateLimitWindow   time.Duration
	AIAPIKey          string
	AIURL             string
	AIModel           string
	AITimeout         time.Duration
	TablesPath        string
}

func Default() Config {
	return Config{
		Port:              "8080",
		LogLevel:          "info",
		CacheTTL:          24 * time.Hour,
		RateLimitCapacity: 5,
		RateLimitWindow:   time.Minute,
		AITimeout:         30 * time.Second,
	}
}

// LoadDotEnv seeds the environment from the given files. Missing files are
// ignored and variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// FromEnv reads the configuration from environment variables. Malformed
// values are logged and replaced by their defaults.
func FromEnv(logger zerolog.Logger) Config {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogPretty = envBool("LOG_PRETTY")
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.AIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AIURL = os.Getenv("OPENAI_API_URL")
	cfg.AIModel = os.Getenv("OPENAI_MODEL")
	cfg.TablesPath = os.Getenv("TAX_TABLES_PATH")

	cfg.CacheTTL = envDuration(logger, "CACHE_TTL", cfg.CacheTTL)
	cfg.RateLimitWindow = envDuration(logger, "RATE_LIMIT_WINDOW", cfg.RateLimitWindow)
	cfg.AITimeout = envDuration(logger, "AI_TIMEOUT", cfg.AITimeout)

	if v := os.Getenv("RATE_LIMIT_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitCapacity = n
		} else {
			logger.Warn().Str("value", v).Msg("invalid RATE_LIMIT_CAPACITY, using default")
		}
	}

	if cfg.AIAPIKey == "" {
		logger.Debug().Msg("OPENAI_API_KEY not set, explanations use the built-in text")
	}
	return cfg
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}

func envDuration(logger zerolog.Logger, key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.Warn().Str("value", v).Msgf("invalid %s, using default", key)
		return def
	}
	return d
}

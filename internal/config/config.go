// Package config loads engine configuration the way the rest of this
// codebase does: godotenv for local .env files (best-effort, ignored if
// absent), then manual os.Getenv/strconv parsing with defaults — not a
// reflection-based binder.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/smilemakc/prana/internal/infrastructure/logger"
	"github.com/smilemakc/prana/pkg/engine"
)

// Config is the engine host's configuration surface.
type Config struct {
	Logging logger.Config
	Engine  EngineConfig
}

// EngineConfig holds engine-level defaults that aren't part of any one
// workflow: the iteration safety cap, a node timeout, and a retry policy
// (always NoRetryPolicy). Load only reads these values; the graph executor
// does not consult DefaultNodeTimeout or DefaultRetry, and builds a node's
// retry policy from that node's own settings.
type EngineConfig struct {
	MaxIterations      int
	DefaultNodeTimeout time.Duration
	DefaultRetry       engine.RetryPolicy
}

// Load reads .env (if present) and environment variables into a Config with
// sane defaults.
func Load() *Config {
	_ = godotenv.Load() // best-effort; absence is not an error

	return &Config{
		Logging: logger.Config{
			Level:  getenv("PRANA_LOG_LEVEL", "info"),
			Format: getenv("PRANA_LOG_FORMAT", "json"),
		},
		Engine: EngineConfig{
			MaxIterations:      getenvInt("PRANA_MAX_ITERATIONS", engine.DefaultMaxIterations),
			DefaultNodeTimeout: getenvDuration("PRANA_DEFAULT_NODE_TIMEOUT", 30*time.Second),
			DefaultRetry:       engine.NoRetryPolicy(),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

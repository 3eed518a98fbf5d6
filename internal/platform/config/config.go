package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean. Values have development defaults; production overrides them.
type Config struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig

	// Session tokens handed to the beneficiary after PIN verification.
	JWTSigningKey string
	SessionTTL    time.Duration

	// Administrator HTTP Basic credentials. The password is supplied as a
	// bcrypt hash; when unset, a hash of the development password is
	// generated at startup.
	GPUsername     string
	GPPasswordHash string

	// Beneficiary access PIN, also stored as a bcrypt hash.
	LPPINHash string

	// Lockout policy for failed PIN attempts.
	PINMaxAttempts   int
	PINLockoutWindow time.Duration

	// Proof uploads.
	UploadDir      string
	MaxUploadBytes int64

	LogLevel string
}

// RedisConfig holds Redis connection settings. An empty URL means Redis is
// not configured and callers fall back to in-memory stores.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:        envOr("FUNDBOOK_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		// Use a default for development - should be overridden in production
		JWTSigningKey:    envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:       envDurationOr("SESSION_TTL", 12*time.Hour),
		GPUsername:       envOr("GP_USERNAME", "gp"),
		GPPasswordHash:   os.Getenv("GP_PASSWORD_HASH"),
		LPPINHash:        os.Getenv("LP_PIN_HASH"),
		PINMaxAttempts:   envIntOr("PIN_MAX_ATTEMPTS", 5),
		PINLockoutWindow: envDurationOr("PIN_LOCKOUT_WINDOW", 15*time.Minute),
		UploadDir:        envOr("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:   envInt64Or("MAX_UPLOAD_BYTES", 8<<20),
		LogLevel:         envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
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

func envInt64Or(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
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

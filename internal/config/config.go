package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	// DBMigrate runs the embedded goose migrations on boot.
	DBMigrate bool

	// TokenHashKey keys the HMAC used to store bearer token secrets.
	TokenHashKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint     string
	ServiceName      string
	TraceSampleRatio float64
	SentryDSN    string

	CORSAllowedOrigins []string
	MaxBodyBytes       int64

	APIRateLimit    int
	LoginRateLimit  int
	RateLimitWindow time.Duration

	SeedUserName     string
	SeedUserEmail    string
	SeedUserPassword string
}

func Load() Config {
	// a missing .env is fine, real environments set variables directly
	_ = godotenv.Load()

	return Config{
		Env:       getEnv("APP_ENV", "dev"),
		Port:      getEnvInt("PORT", 8080),
		DBURL:     buildDBURL(),
		DBMigrate: getEnvBool("DB_MIGRATE", true),

		TokenHashKey: getEnv("TOKEN_HASH_KEY", DevTokenHashKey),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "homage-api"),

		TraceSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		SentryDSN:    getEnv("SENTRY_DSN", ""),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		APIRateLimit:    getEnvInt("API_RATE_LIMIT", 60),
		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		SeedUserName:     getEnv("SEED_USER_NAME", "Admin"),
		SeedUserEmail:    getEnv("SEED_USER_EMAIL", ""),
		SeedUserPassword: getEnv("SEED_USER_PASSWORD", ""),
	}
}

// DevTokenHashKey is the fallback HMAC key. It is public, so only dev and
// test may run with it.
const DevTokenHashKey = "dev-token-hash-key"

var ErrInsecureTokenHashKey = errors.New("TOKEN_HASH_KEY must be set outside dev and test")

// Validate rejects configurations that are only safe on a laptop.
func (c Config) Validate() error {
	if c.Env == "dev" || c.Env == "test" {
		if c.TokenHashKey == DevTokenHashKey {
			slog.Warn("using the built-in token hash key", "env", c.Env)
		}
		return nil
	}

	if c.TokenHashKey == "" || c.TokenHashKey == DevTokenHashKey {
		return ErrInsecureTokenHashKey
	}

	return nil
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "homage")
	pass := getEnv("DB_PASSWORD", "homage")
	name := getEnv("DB_NAME", "homage")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer env value, using default", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)

		if err != nil {
			slog.Warn("invalid float env value, using default", "key", key, "value", v)
			return fallback
		}

		return f
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)

		if err != nil {
			slog.Warn("invalid boolean env value, using default", "key", key, "value", v)
			return fallback
		}

		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil || d <= 0 {
			slog.Warn("invalid duration env value, using default", "key", key, "value", v)
			return fallback
		}

		return d
	}
	return fallback
}

// comma separated, blanks dropped
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}

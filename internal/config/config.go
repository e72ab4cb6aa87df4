// Package config handles loading and validating runtime configuration for the Sports Academy API.
// Configuration values (database connection, allowed origin, token settings) are read from
// environment variables rather than being hardcoded, so the same binary runs in dev, staging
// and production by swapping the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// godotenv reads a .env file and loads its key=value pairs into the process environment.
	// Handy for local development; in production real env vars are used instead.
	"github.com/joho/godotenv"
)

// Token formats accepted by TOKEN_FORMAT.
const (
	TokenFormatJWT    = "jwt"    // HS256-signed token with an expiry (default)
	TokenFormatLegacy = "legacy" // base64("id:role"), kept for old clients
)

// devTokenSecret is only used outside production when TOKEN_SECRET is unset.
const devTokenSecret = "sports-academy-development-secret"

// ErrIncompleteDatabaseConfig is returned when neither a connection string nor the
// discrete POSTGRES_* variables are present.
var ErrIncompleteDatabaseConfig = errors.New("database configuration is incomplete: set DATABASE_URL, POSTGRES_URL or POSTGRES_HOST/POSTGRES_USER/POSTGRES_DATABASE")

// Config holds all runtime configuration values for the application.
type Config struct {
	Port          string // The TCP port the HTTP server will listen on (e.g., "8080")
	Env           string // "development", "staging", "production" or "test"
	LogLevel      string // logrus level name: "debug", "info", "warn", ...
	AllowedOrigin string // Value of Access-Control-Allow-Origin on every response

	DatabaseURL string // Connection string, either URL or keyword/value form

	// Connection pool limits. The pool is created once at start-up and shared by
	// every request, so these bound the total number of connections the API holds.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	TokenFormat string        // TokenFormatJWT or TokenFormatLegacy
	TokenSecret string        // HMAC key for signed tokens
	TokenTTL    time.Duration // Lifetime of a freshly issued signed token

	// UsingDevSecret is true when TokenSecret fell back to the built-in development value.
	UsingDevSecret bool
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables and returns a populated Config.
// It first tries to load a .env file for local development. A missing .env file is fine.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		TokenFormat:   strings.ToLower(getEnv("TOKEN_FORMAT", TokenFormatJWT)),
		TokenSecret:   os.Getenv("TOKEN_SECRET"),
	}

	dsn, err := databaseURL()
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn

	if cfg.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.ConnMaxLifetime, err = getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	switch cfg.TokenFormat {
	case TokenFormatJWT:
		if cfg.TokenSecret == "" {
			// A production deployment must never sign tokens with a key that ships in the binary.
			if cfg.IsProduction() {
				return nil, errors.New("TOKEN_SECRET is required in production")
			}
			cfg.TokenSecret = devTokenSecret
			cfg.UsingDevSecret = true
		}
	case TokenFormatLegacy:
	default:
		return nil, fmt.Errorf("TOKEN_FORMAT must be %q or %q, got %q", TokenFormatJWT, TokenFormatLegacy, cfg.TokenFormat)
	}

	return cfg, nil
}

// databaseURL picks the connection string. DATABASE_URL wins, then POSTGRES_URL (the name
// hosted Postgres providers export), then the discrete POSTGRES_* variables assembled into
// a keyword/value DSN.
func databaseURL() (string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	if url := os.Getenv("POSTGRES_URL"); url != "" {
		return url, nil
	}

	host := os.Getenv("POSTGRES_HOST")
	user := os.Getenv("POSTGRES_USER")
	name := os.Getenv("POSTGRES_DATABASE")
	if host == "" || user == "" || name == "" {
		return "", ErrIncompleteDatabaseConfig
	}

	port := getEnv("POSTGRES_PORT", "5432")
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("POSTGRES_PORT must be a number: %w", err)
	}

	parts := []string{
		"host=" + quoteDSN(host),
		"user=" + quoteDSN(user),
		"dbname=" + quoteDSN(name),
		"port=" + port,
		"sslmode=" + getEnv("POSTGRES_SSLMODE", "require"),
	}
	if password := os.Getenv("POSTGRES_PASSWORD"); password != "" {
		parts = append(parts, "password="+quoteDSN(password))
	}
	return strings.Join(parts, " "), nil
}

// quoteDSN quotes a keyword/value DSN value when it contains spaces or quotes.
func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30m or 24h: %w", key, err)
	}
	return d, nil
}

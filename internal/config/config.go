package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the cefilm backend.
type Config struct {
	Env       string
	Port      string
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Stripe    StripeConfig
	Gemini    GeminiConfig
	TMDB      TMDBConfig
	RateLimit RateLimitConfig
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// StripeConfig holds payment provider settings.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	VIPPriceID    string
	AppURL        string
}

// Enabled reports whether a Stripe key is configured.
func (s StripeConfig) Enabled() bool {
	return s.SecretKey != ""
}

// GeminiConfig holds recommendation engine settings.
type GeminiConfig struct {
	APIKey           string
	Model            string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
}

// RateLimitConfig holds the per-IP request budget.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "120"))
	rateWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	threshold, _ := strconv.ParseUint(getEnv("GEMINI_BREAKER_FAILURES", "5"), 10, 32)

	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("SERVER_PORT", "8080"),
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "cefilm"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", ""),
			TTL:          getDuration("JWT_TTL", 30*24*time.Hour),
			CookieName:   getEnv("AUTH_COOKIE_NAME", "cefilm_token"),
			CookieSecure: getEnv("APP_ENV", "development") == "production",
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			VIPPriceID:    getEnv("STRIPE_PRICE_ID_VIP", ""),
			AppURL:        strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		},
		Gemini: GeminiConfig{
			APIKey:           getEnv("GEMINI_API_KEY", ""),
			Model:            getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:          getDuration("GEMINI_TIMEOUT", 45*time.Second),
			FailureThreshold: uint32(threshold),
			OpenTimeout:      getDuration("GEMINI_BREAKER_TIMEOUT", 30*time.Second),
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
		},
		RateLimit: RateLimitConfig{
			Max:           rateMax,
			WindowSeconds: rateWindow,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if c.Env == "production" {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.WindowSeconds <= 0 {
		return errors.New("rate limit max and window must be positive")
	}
	if c.Stripe.Enabled() && c.Stripe.VIPPriceID == "" {
		return errors.New("STRIPE_PRICE_ID_VIP is required when STRIPE_SECRET_KEY is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

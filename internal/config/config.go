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

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Admin     AdminConfig
	Mail      MailConfig
	Referral  ReferralConfig
	Bucket    BucketConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AdminConfig gates approval and listing actions. Key is the plaintext
// shared secret; KeyHash, when set, takes precedence and is verified with
// bcrypt. SessionSecret signs short-lived admin session tokens.
type AdminConfig struct {
	Key               string
	KeyHash           string
	SessionSecret     string
	SessionTTLMinutes int
}

// MailConfig selects the outbound email transport. ResendAPIKey wins over
// the SMTP relay; with neither set the dispatcher degrades to a no-op.
type MailConfig struct {
	ResendAPIKey   string
	FromName       string
	FromEmail      string
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPassword   string
	TimeoutSeconds int
}

// ReferralConfig holds the public base URL referral links are built from.
type ReferralConfig struct {
	BaseURL string
}

// BucketConfig points at the S3-compatible bucket for supply attachments.
type BucketConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Name      string
	UseSSL    bool
}

// RateLimitConfig bounds intake submissions per client IP.
type RateLimitConfig struct {
	Enabled       bool
	MaxPerWindow  int
	WindowSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "cove-waitlist-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Admin: AdminConfig{
			Key:               os.Getenv("ADMIN_KEY"),
			KeyHash:           os.Getenv("ADMIN_KEY_HASH"),
			SessionSecret:     getEnv("ADMIN_SESSION_SECRET", "dev-secret"),
			SessionTTLMinutes: getEnvAsInt("ADMIN_SESSION_TTL_MINUTES", 60),
		},
		Mail: MailConfig{
			ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
			FromName:       getEnv("MAIL_FROM_NAME", "Cove Team"),
			FromEmail:      getEnv("MAIL_FROM_EMAIL", "hello@cove.house"),
			SMTPHost:       os.Getenv("SMTP_HOST"),
			SMTPPort:       getEnv("SMTP_PORT", "587"),
			SMTPUser:       os.Getenv("SMTP_USER"),
			SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
			TimeoutSeconds: getEnvAsInt("MAIL_TIMEOUT_SECONDS", 10),
		},
		Referral: ReferralConfig{
			BaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		},
		Bucket: BucketConfig{
			Endpoint:  os.Getenv("BUCKET_ENDPOINT"),
			AccessKey: os.Getenv("BUCKET_ACCESS_KEY"),
			SecretKey: os.Getenv("BUCKET_SECRET_KEY"),
			Name:      getEnv("BUCKET_NAME", "listing_uploads"),
			UseSSL:    getEnvAsBool("BUCKET_USE_SSL", true),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			MaxPerWindow:  getEnvAsInt("RATE_LIMIT_MAX", 20),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the startup-fatal settings: the storage DSN, the public
// base URL used for referral links, and at least one admin credential.
// Missing email or bucket credentials are supported configurations.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	if c.Referral.BaseURL == "" {
		return errors.New("PUBLIC_BASE_URL is required")
	}
	if c.Admin.Key == "" && c.Admin.KeyHash == "" {
		return errors.New("ADMIN_KEY or ADMIN_KEY_HASH is required")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the mail transport timeout.
func (m MailConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Window returns the rate-limit window duration.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowSeconds) * time.Second
}

// Configured reports whether bucket uploads can be attempted.
func (b BucketConfig) Configured() bool {
	return b.Endpoint != "" && b.AccessKey != "" && b.SecretKey != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

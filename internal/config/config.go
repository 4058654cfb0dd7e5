// Package config assembles the immutable runtime configuration from the
// environment. It is built once in the initializer and handed to every
// component by reference; nothing reads the environment after startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings of the server.
type Config struct {
	ListenAddr  string
	Environment string
	LogLevel    string

	// PublicBaseURL is the externally reachable base URL used to build
	// email confirmation links, e.g. "https://contact-hub.example.com".
	PublicBaseURL string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret      string
	AccessTokenTTL time.Duration

	MailgunDomain string
	MailgunAPIKey string
	MailSender    string

	S3Region       string
	S3Bucket       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicPrefix string

	RateLimitPerSecond float64
	RateLimitBurst     int

	// VerifyMX enables MX lookups on signup email addresses.
	VerifyMX bool
}

// DatabaseURL renders the pgx connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// Load reads the configuration from environment variables. It returns an
// error when a variable without a safe default is missing.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "INFO"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASS"),
		DBName:             os.Getenv("DB_NAME"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccessTokenTTL:     15 * time.Minute,
		MailgunDomain:      os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey:      os.Getenv("MAILGUN_API_KEY"),
		MailSender:         getEnv("MAIL_SENDER", "Contact Hub <team@contact-hub.example.com>"),
		S3Region:           getEnv("S3_REGION", "eu-central-1"),
		S3Bucket:           getEnv("S3_BUCKET", "contact-hub-avatars"),
		S3Endpoint:         os.Getenv("S3_ENDPOINT"),
		S3AccessKey:        os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:        os.Getenv("S3_SECRET_KEY"),
		S3PublicPrefix:     os.Getenv("S3_PUBLIC_PREFIX"),
		RateLimitPerSecond: 5,
		RateLimitBurst:     10,
		VerifyMX:           os.Getenv("VERIFY_MX") == "true",
	}

	if ttlString := os.Getenv("ACCESS_TOKEN_TTL_SECONDS"); ttlString != "" {
		ttl, err := strconv.Atoi(ttlString)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL_SECONDS: %w", err)
		}
		cfg.AccessTokenTTL = time.Duration(ttl) * time.Second
	}

	if rpsString := os.Getenv("RATE_LIMIT_PER_SECOND"); rpsString != "" {
		rps, err := strconv.ParseFloat(rpsString, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_SECOND: %w", err)
		}
		cfg.RateLimitPerSecond = rps
	}

	if burstString := os.Getenv("RATE_LIMIT_BURST"); burstString != "" {
		burst, err := strconv.Atoi(burstString)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = burst
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("database environment variables not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

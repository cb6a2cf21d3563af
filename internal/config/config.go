package config

import (
	"os"
	"strconv"
	"time"

	"tweetsearch/internal/twitter"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string

	// Server
	ServerAddr         string
	BaseURL            string
	RateLimitPerMinute int
	RedisURL           string // optional limiter storage, in-memory when empty

	// Database
	DatabaseURL string
	SeedDevData bool // env: SEED_DEV_DATA, inserts sample records at startup

	// Admin API, disabled when empty
	AdminAPIKey string

	// Twitter search API
	TwitterConsumerKey       string
	TwitterConsumerSecret    string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string
	TwitterBaseURL           string
	TwitterAuthMode          string // "user" or "app"
	TwitterTimeout           time.Duration

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Tweet Search"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ServerAddr:         getEnv("SERVER_ADDR", ":3000"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:3000"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		RedisURL:           getEnv("REDIS_URL", ""),
		DatabaseURL:        getEnv("DATABASE_URL", "postgres://localhost:5432/tweetsearch?sslmode=disable"),
		SeedDevData:        getEnvBool("SEED_DEV_DATA", false),
		AdminAPIKey:        getEnv("ADMIN_API_KEY", ""),

		TwitterConsumerKey:       getEnv("TWITTER_CONSUMER_KEY", ""),
		TwitterConsumerSecret:    getEnv("TWITTER_CONSUMER_SECRET", ""),
		TwitterAccessToken:       getEnv("TWITTER_ACCESS_TOKEN", ""),
		TwitterAccessTokenSecret: getEnv("TWITTER_ACCESS_TOKEN_SECRET", ""),
		TwitterBaseURL:           getEnv("TWITTER_BASE_URL", twitter.DefaultBaseURL),
		TwitterAuthMode:          getEnv("TWITTER_AUTH_MODE", string(twitter.AuthModeUser)),
		TwitterTimeout:           getEnvDuration("TWITTER_TIMEOUT", twitter.DefaultTimeout),

		SiteTitle:   getEnv("SITE_TITLE", "Tweet Search"),
		SiteTagline: getEnv("SITE_TAGLINE", "Search tweets and keep track of what you searched"),
		SiteFooter:  getEnv("SITE_FOOTER", "Tweet Search"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsAdminEnabled returns true if the admin API has a key configured.
func (c *Config) IsAdminEnabled() bool {
	return c.AdminAPIKey != ""
}

// UsesRedis returns true if rate limiter state should live in Redis.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}

// TwitterConfig builds the search client configuration.
func (c *Config) TwitterConfig() twitter.Config {
	return twitter.Config{
		ConsumerKey:       c.TwitterConsumerKey,
		ConsumerSecret:    c.TwitterConsumerSecret,
		AccessToken:       c.TwitterAccessToken,
		AccessTokenSecret: c.TwitterAccessTokenSecret,
		BaseURL:           c.TwitterBaseURL,
		AuthMode:          twitter.AuthMode(c.TwitterAuthMode),
		Timeout:           c.TwitterTimeout,
	}
}

// Validate returns human-readable warnings about incomplete configuration.
// None of them prevent startup; searches fail into the error page instead.
func (c *Config) Validate() []string {
	var warnings []string

	mode := twitter.AuthMode(c.TwitterAuthMode)
	if mode != twitter.AuthModeUser && mode != twitter.AuthModeApp {
		warnings = append(warnings, "TWITTER_AUTH_MODE must be \"user\" or \"app\", got \""+c.TwitterAuthMode+"\"")
	}
	if c.TwitterConsumerKey == "" || c.TwitterConsumerSecret == "" {
		warnings = append(warnings, "TWITTER_CONSUMER_KEY and TWITTER_CONSUMER_SECRET are not set")
	}
	if mode == twitter.AuthModeUser && (c.TwitterAccessToken == "" || c.TwitterAccessTokenSecret == "") {
		warnings = append(warnings, "TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_TOKEN_SECRET are not set")
	}
	if c.RateLimitPerMinute <= 0 {
		warnings = append(warnings, "RATE_LIMIT_PER_MINUTE must be positive, rate limiting disabled")
	}
	return warnings
}
